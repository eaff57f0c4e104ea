package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adityasasidhar/quizproject/internal/events"
	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

// dueSoonWindow is how far ahead the sweep looks for approaching deadlines.
const dueSoonWindow = 24 * time.Hour

type notificationService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	now            func() time.Time
}

func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:           repo,
		eventPublisher: publisher,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *notificationService) NotifyAssignmentCreated(ctx context.Context, assignment *models.Assignment) {
	students, err := s.repo.Membership().GetStudents(ctx, nil, assignment.ClassroomID)
	if err != nil {
		s.logger.Error("Assignment fan-out failed to list students",
			"assignment_id", assignment.ID, "error", err)
		return
	}
	if len(students) == 0 {
		return
	}

	message := fmt.Sprintf("New assignment: %s", assignment.Title)
	if assignment.DueAt != nil {
		message = fmt.Sprintf("New assignment: %s (due %s)", assignment.Title, assignment.DueAt.Format("Jan 2 15:04"))
	}

	notifications := make([]*models.Notification, 0, len(students))
	studentIDs := make([]uint, 0, len(students))
	for _, m := range students {
		studentIDs = append(studentIDs, m.UserID)
		notifications = append(notifications, &models.Notification{
			UserID:       m.UserID,
			AssignmentID: assignment.ID,
			Kind:         models.NotificationAssignmentCreated,
			Message:      message,
		})
	}

	if err := s.repo.Notification().CreateBatch(ctx, nil, notifications); err != nil {
		s.logger.Error("Assignment fan-out failed to store notifications",
			"assignment_id", assignment.ID, "error", err)
		return
	}

	s.publish(ctx, events.NewEvent(events.EventAssignmentCreated, events.AssignmentCreatedEvent{
		AssignmentID: assignment.ID,
		ClassroomID:  assignment.ClassroomID,
		Title:        assignment.Title,
		DueAt:        assignment.DueAt,
		StudentIDs:   studentIDs,
	}))

	s.logger.Info("Assignment fan-out complete",
		"assignment_id", assignment.ID, "recipients", len(notifications))
}

func (s *notificationService) SweepDueSoon(ctx context.Context) error {
	now := s.now()
	horizon := now.Add(dueSoonWindow)

	assignments, _, err := s.repo.Assignment().List(ctx, nil, repositories.AssignmentFilters{
		DueAfter:  &now,
		DueBefore: &horizon,
	})
	if err != nil {
		return fmt.Errorf("list due assignments: %w", err)
	}

	for _, a := range assignments {
		if err := s.sweepAssignment(ctx, a); err != nil {
			s.logger.Error("Due-soon sweep failed for assignment",
				"assignment_id", a.ID, "error", err)
		}
	}
	return nil
}

func (s *notificationService) sweepAssignment(ctx context.Context, assignment *models.Assignment) error {
	students, err := s.repo.Membership().GetStudents(ctx, nil, assignment.ClassroomID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Assignment due soon: %s (due %s)",
		assignment.Title, assignment.DueAt.Format("Jan 2 15:04"))

	var created []uint
	for _, m := range students {
		// At most one due-soon notification per (student, assignment)
		exists, err := s.repo.Notification().Exists(ctx, nil, m.UserID, assignment.ID, models.NotificationDueSoon)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		// Students who already submitted don't need a reminder
		if _, err := s.repo.Submission().Get(ctx, nil, assignment.ID, m.UserID); err == nil {
			continue
		} else if !repositories.IsNotFoundError(err) {
			return err
		}

		if err := s.repo.Notification().Create(ctx, nil, &models.Notification{
			UserID:       m.UserID,
			AssignmentID: assignment.ID,
			Kind:         models.NotificationDueSoon,
			Message:      message,
		}); err != nil {
			return err
		}
		created = append(created, m.UserID)
	}

	if len(created) > 0 {
		s.publish(ctx, events.NewEvent(events.EventAssignmentDueSoon, events.AssignmentDueSoonEvent{
			AssignmentID: assignment.ID,
			ClassroomID:  assignment.ClassroomID,
			Title:        assignment.Title,
			DueAt:        *assignment.DueAt,
			StudentIDs:   created,
		}))
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID uint, unreadOnly bool) (*NotificationListResponse, error) {
	notifications, total, err := s.repo.Notification().List(ctx, nil, repositories.NotificationFilters{
		UserID: &userID,
		Unread: unreadOnly,
	})
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, n := range notifications {
		if n.ReadAt == nil {
			unread++
		}
	}

	return &NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) error {
	if err := s.repo.Notification().MarkRead(ctx, nil, id, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) publish(ctx context.Context, event *events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, TopicClassroom, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
