package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

// joinCodeAlphabet excludes 0, O, 1 and I so codes survive being read aloud
// or copied from a whiteboard.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const joinCodeMaxAttempts = 10

type classroomService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewClassroomService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) ClassroomService {
	return &classroomService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *classroomService) Create(ctx context.Context, req *ClassroomCreateRequest, teacherID uint) (*ClassroomResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	teacher, err := s.repo.User().GetByID(ctx, nil, teacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !teacher.IsTeacher() {
		return nil, NewPermissionError(teacherID, 0, "classroom", "create", "only teachers can create classrooms")
	}

	code, err := s.allocateJoinCode(ctx)
	if err != nil {
		return nil, err
	}

	classroom := &models.Classroom{
		Name:        req.Name,
		Description: req.Description,
		JoinCode:    code,
		OwnerID:     teacherID,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Classroom().Create(ctx, nil, classroom); err != nil {
			return err
		}
		// The owner is also recorded as a member so membership checks have
		// a single code path.
		return txRepo.Membership().Create(ctx, nil, &models.Membership{
			ClassroomID: classroom.ID,
			UserID:      teacherID,
			Role:        models.RoleTeacher,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Classroom created", "classroom_id", classroom.ID, "owner_id", teacherID, "join_code", code)
	return &ClassroomResponse{Classroom: classroom, IsOwner: true, IsMember: true}, nil
}

// allocateJoinCode draws random codes until one is unused. The keyspace is
// 32^6 so collisions stay rare; the bounded retry turns a pathological streak
// into an explicit error instead of a loop.
func (s *classroomService) allocateJoinCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		code, err := randomJoinCode()
		if err != nil {
			return "", err
		}
		taken, err := s.repo.Classroom().ExistsByJoinCode(ctx, nil, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrJoinCodeExhausted
}

func randomJoinCode() (string, error) {
	buf := make([]byte, models.JoinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf), nil
}

func (s *classroomService) Get(ctx context.Context, id, userID uint) (*ClassroomResponse, error) {
	classroom, err := s.getClassroom(ctx, id)
	if err != nil {
		return nil, err
	}

	isMember, err := s.repo.Membership().Exists(ctx, nil, id, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, NewPermissionError(userID, id, "classroom", "read", "not a member")
	}

	s.attachCounts(ctx, classroom)
	return &ClassroomResponse{
		Classroom: classroom,
		IsOwner:   classroom.OwnerID == userID,
		IsMember:  true,
	}, nil
}

func (s *classroomService) Update(ctx context.Context, id uint, req *ClassroomUpdateRequest, userID uint) (*ClassroomResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	classroom, err := s.getClassroom(ctx, id)
	if err != nil {
		return nil, err
	}
	if classroom.OwnerID != userID {
		return nil, NewPermissionError(userID, id, "classroom", "update", "not the owner")
	}

	if req.Name != nil {
		classroom.Name = *req.Name
	}
	if req.Description != nil {
		classroom.Description = req.Description
	}

	if err := s.repo.Classroom().Update(ctx, nil, classroom); err != nil {
		return nil, err
	}
	return &ClassroomResponse{Classroom: classroom, IsOwner: true, IsMember: true}, nil
}

func (s *classroomService) Delete(ctx context.Context, id, userID uint) error {
	classroom, err := s.getClassroom(ctx, id)
	if err != nil {
		return err
	}
	if classroom.OwnerID != userID {
		return NewPermissionError(userID, id, "classroom", "delete", "not the owner")
	}

	if err := s.repo.Classroom().Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Classroom deleted", "classroom_id", id, "owner_id", userID)
	return nil
}

func (s *classroomService) Join(ctx context.Context, req *JoinClassroomRequest, userID uint) (*ClassroomResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	classroom, err := s.repo.Classroom().GetByJoinCode(ctx, nil, req.JoinCode)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	exists, err := s.repo.Membership().Exists(ctx, nil, classroom.ID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	// Joining by code is how students enroll. Teachers are added as owners at
	// creation time, never through the code.
	if user.Role != models.RoleStudent {
		return nil, NewPermissionError(userID, classroom.ID, "classroom", "join", "only students can join by code")
	}

	if err := s.repo.Membership().Create(ctx, nil, &models.Membership{
		ClassroomID: classroom.ID,
		UserID:      userID,
		Role:        models.RoleStudent,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Joined classroom", "classroom_id", classroom.ID, "user_id", userID)
	return &ClassroomResponse{
		Classroom: classroom,
		IsOwner:   classroom.OwnerID == userID,
		IsMember:  true,
	}, nil
}

func (s *classroomService) Leave(ctx context.Context, classroomID, userID uint) error {
	classroom, err := s.getClassroom(ctx, classroomID)
	if err != nil {
		return err
	}
	if classroom.OwnerID == userID {
		return NewPermissionError(userID, classroomID, "classroom", "leave", "owner cannot leave their own classroom")
	}

	exists, err := s.repo.Membership().Exists(ctx, nil, classroomID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotMember
	}

	return s.repo.Membership().Delete(ctx, nil, classroomID, userID)
}

func (s *classroomService) RemoveStudent(ctx context.Context, classroomID, studentID, teacherID uint) error {
	classroom, err := s.getClassroom(ctx, classroomID)
	if err != nil {
		return err
	}
	if classroom.OwnerID != teacherID {
		return NewPermissionError(teacherID, classroomID, "classroom", "remove_student", "not the owner")
	}
	if studentID == teacherID {
		return NewPermissionError(teacherID, classroomID, "classroom", "remove_student", "cannot remove yourself")
	}

	exists, err := s.repo.Membership().Exists(ctx, nil, classroomID, studentID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotMember
	}

	return s.repo.Membership().Delete(ctx, nil, classroomID, studentID)
}

func (s *classroomService) ListForUser(ctx context.Context, userID uint) ([]*ClassroomResponse, error) {
	classrooms, err := s.repo.Classroom().GetByMember(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ClassroomResponse, 0, len(classrooms))
	for _, c := range classrooms {
		s.attachCounts(ctx, c)
		responses = append(responses, &ClassroomResponse{
			Classroom: c,
			IsOwner:   c.OwnerID == userID,
			IsMember:  true,
		})
	}
	return responses, nil
}

func (s *classroomService) Members(ctx context.Context, classroomID, userID uint) ([]*MemberResponse, error) {
	if _, err := s.getClassroom(ctx, classroomID); err != nil {
		return nil, err
	}

	isMember, err := s.repo.Membership().Exists(ctx, nil, classroomID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, NewPermissionError(userID, classroomID, "classroom", "list_members", "not a member")
	}

	memberships, err := s.repo.Membership().GetByClassroom(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}

	members := make([]*MemberResponse, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, &MemberResponse{
			UserID:   m.UserID,
			Username: m.User.Username,
			Role:     m.Role,
			JoinedAt: m.CreatedAt,
		})
	}
	return members, nil
}

func (s *classroomService) getClassroom(ctx context.Context, id uint) (*models.Classroom, error) {
	classroom, err := s.repo.Classroom().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}
	return classroom, nil
}

// attachCounts fills the computed fields; failures leave them at zero.
func (s *classroomService) attachCounts(ctx context.Context, c *models.Classroom) {
	if students, err := s.repo.Membership().GetStudents(ctx, nil, c.ID); err == nil {
		c.StudentCount = len(students)
	}
	if assignments, err := s.repo.Assignment().GetByClassroom(ctx, nil, c.ID); err == nil {
		c.AssignmentCount = len(assignments)
	}
}
