package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/adityasasidhar/quizproject/internal/events"
	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

// TopicClassroom is the broker topic all classroom events are published to.
const TopicClassroom = "classroom-events"

type assignmentService struct {
	repo           repositories.Repository
	scoring        ScoringService
	notifier       NotificationService
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
	now            func() time.Time
}

func NewAssignmentService(repo repositories.Repository, scoring ScoringService, notifier NotificationService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AssignmentService {
	return &assignmentService{
		repo:           repo,
		scoring:        scoring,
		notifier:       notifier,
		eventPublisher: publisher,
		logger:         logger,
		validator:      v,
		now:            time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, classroomID uint, req *AssignmentCreateRequest, teacherID uint) (*AssignmentResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateAssignmentCreate(req); len(errs) > 0 {
		return nil, errs
	}

	classroom, err := s.repo.Classroom().GetByID(ctx, nil, classroomID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	if classroom.OwnerID != teacherID {
		return nil, NewPermissionError(teacherID, classroomID, "assignment", "create", "not the classroom owner")
	}

	if !s.repo.Paper().Exists(req.PaperPath) {
		return nil, ErrPaperNotFound
	}

	assignment := &models.Assignment{
		ClassroomID: classroomID,
		Title:       req.Title,
		Description: req.Description,
		PaperPath:   req.PaperPath,
		OpensAt:     req.OpensAt,
		DueAt:       req.DueAt,
		LatePolicy:  req.LatePolicy,
		CreatedBy:   teacherID,
	}
	if assignment.LatePolicy == "" {
		assignment.LatePolicy = models.LateAllow
	}

	if err := s.repo.Assignment().Create(ctx, nil, assignment); err != nil {
		return nil, err
	}

	s.logger.Info("Assignment created", "assignment_id", assignment.ID, "classroom_id", classroomID)
	s.notifier.NotifyAssignmentCreated(ctx, assignment)

	return &AssignmentResponse{
		Assignment: assignment,
		State:      assignment.StateAt(s.now()),
	}, nil
}

func (s *assignmentService) Get(ctx context.Context, id, userID uint) (*AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	membership, err := s.repo.Membership().Get(ctx, nil, assignment.ClassroomID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(userID, id, "assignment", "read", "not a member of the classroom")
		}
		return nil, err
	}

	state := assignment.StateAt(s.now())
	resp := &AssignmentResponse{Assignment: assignment, State: state}

	isTeacher := membership.Role == models.RoleTeacher

	// First checkpoint: students get no paper before the window opens, and
	// no answer key until the window has closed.
	if !isTeacher && state == models.AssignmentNotYetOpen {
		return resp, nil
	}

	paper, err := s.repo.Paper().Load(ctx, assignment.PaperPath)
	if err != nil {
		s.logger.Error("Assignment paper unreadable", "assignment_id", id, "path", assignment.PaperPath, "error", err)
		return resp, nil
	}

	if !isTeacher && state != models.AssignmentClosed {
		paper = stripAnswers(paper)
	}
	resp.Paper = paper
	return resp, nil
}

// stripAnswers blanks the key so students can take the paper online.
func stripAnswers(paper models.Paper) models.Paper {
	out := make(models.Paper, len(paper))
	copy(out, paper)
	for i := range out {
		out[i].Answer = ""
		out[i].Solution = ""
	}
	return out
}

func (s *assignmentService) ListByClassroom(ctx context.Context, classroomID, userID uint) ([]*AssignmentResponse, error) {
	isMember, err := s.repo.Membership().Exists(ctx, nil, classroomID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, NewPermissionError(userID, classroomID, "assignment", "list", "not a member of the classroom")
	}

	assignments, err := s.repo.Assignment().GetByClassroom(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]*AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		if submissions, err := s.repo.Submission().GetByAssignment(ctx, nil, a.ID); err == nil {
			a.SubmissionCount = len(submissions)
			a.AverageScore = averagePercentage(submissions)
		}
		responses = append(responses, &AssignmentResponse{Assignment: a, State: a.StateAt(now)})
	}
	return responses, nil
}

func (s *assignmentService) Delete(ctx context.Context, id, userID uint) error {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.authorizeOwner(ctx, assignment, userID, "delete"); err != nil {
		return err
	}
	return s.repo.Assignment().Delete(ctx, nil, id)
}

func (s *assignmentService) SubmitAnswers(ctx context.Context, assignmentID, userID uint, req *SubmitAnswersRequest) (*SubmissionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assignment, paper, late, err := s.prepareSubmission(ctx, assignmentID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.scoring.ScoreObjective(paper, req.Answers)
	if err != nil {
		return nil, err
	}

	return s.storeSubmission(ctx, assignment, userID, result, late)
}

func (s *assignmentService) SubmitUpload(ctx context.Context, assignmentID, userID uint, sheet *UploadedAnswerSheet) (*SubmissionResponse, error) {
	assignment, paper, late, err := s.prepareSubmission(ctx, assignmentID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.scoring.ScoreUpload(ctx, paper, sheet)
	if err != nil {
		return nil, err
	}

	return s.storeSubmission(ctx, assignment, userID, result, late)
}

// prepareSubmission runs the second checkpoint: membership, scheduling state
// and paper load. It returns whether the submission is late.
func (s *assignmentService) prepareSubmission(ctx context.Context, assignmentID, userID uint) (*models.Assignment, models.Paper, bool, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, nil, false, err
	}

	membership, err := s.repo.Membership().Get(ctx, nil, assignment.ClassroomID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, false, NewPermissionError(userID, assignmentID, "assignment", "submit", "not a member of the classroom")
		}
		return nil, nil, false, err
	}
	if membership.Role != models.RoleStudent {
		return nil, nil, false, NewPermissionError(userID, assignmentID, "assignment", "submit", "only students submit work")
	}

	state := assignment.StateAt(s.now())
	switch state {
	case models.AssignmentNotYetOpen, models.AssignmentClosed:
		return nil, nil, false, NewSchedulingError(assignmentID, state)
	}

	paper, err := s.repo.Paper().Load(ctx, assignment.PaperPath)
	if err != nil {
		return nil, nil, false, err
	}

	return assignment, paper, state == models.AssignmentLateAllowed, nil
}

func (s *assignmentService) storeSubmission(ctx context.Context, assignment *models.Assignment, userID uint, result *ScoreResult, late bool) (*SubmissionResponse, error) {
	details, err := json.Marshal(result.Details)
	if err != nil {
		return nil, err
	}

	submission := &models.Submission{
		AssignmentID: assignment.ID,
		UserID:       userID,
		Score:        result.Score,
		Total:        result.Total,
		Percentage:   result.Percentage,
		Details:      datatypes.JSON(details),
		Late:         late,
		SubmittedAt:  s.now(),
	}

	if err := s.repo.Submission().Upsert(ctx, nil, submission); err != nil {
		return nil, err
	}

	s.logger.Info("Submission graded",
		"assignment_id", assignment.ID,
		"user_id", userID,
		"score", result.Score,
		"total", result.Total,
		"late", late)

	s.publishGraded(ctx, submission)

	return &SubmissionResponse{
		Submission: submission,
		State:      assignment.StateAt(s.now()),
	}, nil
}

// publishGraded is best effort; a broker outage never fails a submission.
func (s *assignmentService) publishGraded(ctx context.Context, sub *models.Submission) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewEvent(events.EventSubmissionGraded, events.SubmissionGradedEvent{
		AssignmentID: sub.AssignmentID,
		UserID:       sub.UserID,
		Score:        sub.Score,
		Total:        sub.Total,
		Percentage:   sub.Percentage,
		Late:         sub.Late,
	})
	if err := s.eventPublisher.Publish(ctx, TopicClassroom, event); err != nil {
		s.logger.Error("Failed to publish graded event", "assignment_id", sub.AssignmentID, "error", err)
	}
}

func (s *assignmentService) GetSubmission(ctx context.Context, assignmentID, studentID, callerID uint) (*SubmissionResponse, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if callerID != studentID {
		if _, err := s.authorizeOwner(ctx, assignment, callerID, "read_submission"); err != nil {
			return nil, err
		}
	}

	submission, err := s.repo.Submission().Get(ctx, nil, assignmentID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	return &SubmissionResponse{
		Submission: submission,
		State:      assignment.StateAt(s.now()),
	}, nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, assignmentID, teacherID uint) ([]*models.Submission, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeOwner(ctx, assignment, teacherID, "list_submissions"); err != nil {
		return nil, err
	}
	return s.repo.Submission().GetByAssignment(ctx, nil, assignmentID)
}

func (s *assignmentService) OverrideScore(ctx context.Context, assignmentID, studentID uint, req *ScoreOverrideRequest, teacherID uint) (*SubmissionResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateScoreOverride(req); len(errs) > 0 {
		return nil, errs
	}

	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeOwner(ctx, assignment, teacherID, "override_score"); err != nil {
		return nil, err
	}

	submission, err := s.repo.Submission().Get(ctx, nil, assignmentID, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	submission.Score = req.Score
	submission.Total = req.Total
	submission.Percentage = float64(req.Score) / float64(req.Total) * 100
	submission.SubmittedAt = s.now()

	if err := s.repo.Submission().Update(ctx, nil, submission); err != nil {
		return nil, err
	}

	note := ""
	if req.Note != nil {
		note = *req.Note
	}
	s.logger.Info("Score overridden",
		"assignment_id", assignmentID,
		"student_id", studentID,
		"teacher_id", teacherID,
		"score", req.Score,
		"note", note)

	s.publishGraded(ctx, submission)
	return &SubmissionResponse{
		Submission: submission,
		State:      assignment.StateAt(s.now()),
	}, nil
}

func (s *assignmentService) getAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

// authorizeOwner resolves the assignment's classroom and requires the caller
// to own it.
func (s *assignmentService) authorizeOwner(ctx context.Context, assignment *models.Assignment, userID uint, action string) (*models.Classroom, error) {
	classroom, err := s.repo.Classroom().GetByID(ctx, nil, assignment.ClassroomID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	if classroom.OwnerID != userID {
		return nil, NewPermissionError(userID, assignment.ID, "assignment", action, "not the classroom owner")
	}
	return classroom, nil
}

func averagePercentage(submissions []*models.Submission) float64 {
	if len(submissions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range submissions {
		sum += s.Percentage
	}
	return sum / float64(len(submissions))
}
