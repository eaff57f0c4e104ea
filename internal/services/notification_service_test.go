package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/adityasasidhar/quizproject/internal/events"
	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
)

func studentMemberships(ids ...uint) []*models.Membership {
	out := make([]*models.Membership, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.Membership{ClassroomID: 3, UserID: id, Role: models.RoleStudent})
	}
	return out
}

func TestNotifyAssignmentCreated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	due := time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)
	assignment := &models.Assignment{
		ID:          7,
		ClassroomID: 3,
		Title:       "Weekly physics quiz",
		DueAt:       &due,
	}

	repo := newMockRepository()
	repo.membership.GetStudentsFunc = func(ctx context.Context, classroomID uint) ([]*models.Membership, error) {
		return studentMemberships(10, 11, 12), nil
	}
	var batch []*models.Notification
	repo.notification.CreateBatchFunc = func(ctx context.Context, notifications []*models.Notification) error {
		batch = notifications
		return nil
	}

	publisher := events.NewMockEventPublisher(logger)
	service := &notificationService{
		repo:           repo,
		eventPublisher: publisher,
		logger:         logger,
		now:            time.Now,
	}

	service.NotifyAssignmentCreated(context.Background(), assignment)

	if len(batch) != 3 {
		t.Fatalf("got %d notifications, want 3", len(batch))
	}
	for _, n := range batch {
		if n.Kind != models.NotificationAssignmentCreated {
			t.Errorf("got kind %s, want %s", n.Kind, models.NotificationAssignmentCreated)
		}
		if n.AssignmentID != assignment.ID {
			t.Errorf("got assignment_id %d, want %d", n.AssignmentID, assignment.ID)
		}
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	event := published[0]
	if event.Type != events.EventAssignmentCreated {
		t.Errorf("got event type %s, want %s", event.Type, events.EventAssignmentCreated)
	}
	if event.ID == "" {
		t.Error("event ID should not be empty")
	}
	if event.Source != "exam-classroom-service" {
		t.Errorf("got source %q, want exam-classroom-service", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("got version %q, want 1.0", event.Version)
	}
}

func TestNotifyAssignmentCreated_NoStudents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	service := &notificationService{repo: repo, eventPublisher: publisher, logger: logger, now: time.Now}

	service.NotifyAssignmentCreated(context.Background(), &models.Assignment{ID: 7, ClassroomID: 3, Title: "Quiz"})

	if got := publisher.GetPublishedEvents(); len(got) != 0 {
		t.Errorf("expected no events for an empty classroom, got %d", len(got))
	}
}

func TestSweepDueSoon(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	due := now.Add(6 * time.Hour)
	assignment := &models.Assignment{ID: 7, ClassroomID: 3, Title: "Quiz", DueAt: &due}

	setup := func() (*notificationService, *mockRepository, *events.MockEventPublisher) {
		repo := newMockRepository()
		repo.assignment.ListFunc = func(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
			if filters.DueAfter == nil || !filters.DueAfter.Equal(now) {
				t.Errorf("DueAfter filter not pinned to now: %v", filters.DueAfter)
			}
			if filters.DueBefore == nil || !filters.DueBefore.Equal(now.Add(24*time.Hour)) {
				t.Errorf("DueBefore filter not a 24h horizon: %v", filters.DueBefore)
			}
			return []*models.Assignment{assignment}, 1, nil
		}
		repo.membership.GetStudentsFunc = func(ctx context.Context, classroomID uint) ([]*models.Membership, error) {
			return studentMemberships(10, 11), nil
		}
		publisher := events.NewMockEventPublisher(logger)
		service := &notificationService{
			repo:           repo,
			eventPublisher: publisher,
			logger:         logger,
			now:            func() time.Time { return now },
		}
		return service, repo, publisher
	}

	t.Run("creates one reminder per student", func(t *testing.T) {
		service, repo, publisher := setup()
		var created []*models.Notification
		repo.notification.CreateFunc = func(ctx context.Context, notification *models.Notification) error {
			created = append(created, notification)
			return nil
		}

		if err := service.SweepDueSoon(context.Background()); err != nil {
			t.Fatalf("SweepDueSoon failed: %v", err)
		}
		if len(created) != 2 {
			t.Fatalf("got %d reminders, want 2", len(created))
		}
		for _, n := range created {
			if n.Kind != models.NotificationDueSoon {
				t.Errorf("got kind %s, want %s", n.Kind, models.NotificationDueSoon)
			}
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventAssignmentDueSoon {
			t.Errorf("expected one due-soon event, got %+v", published)
		}
	})

	t.Run("already notified students are skipped", func(t *testing.T) {
		service, repo, _ := setup()
		repo.notification.ExistsFunc = func(ctx context.Context, userID, assignmentID uint, kind models.NotificationKind) (bool, error) {
			return userID == 10, nil
		}
		var created []*models.Notification
		repo.notification.CreateFunc = func(ctx context.Context, notification *models.Notification) error {
			created = append(created, notification)
			return nil
		}

		if err := service.SweepDueSoon(context.Background()); err != nil {
			t.Fatalf("SweepDueSoon failed: %v", err)
		}
		if len(created) != 1 || created[0].UserID != 11 {
			t.Errorf("dedup failed, created: %+v", created)
		}
	})

	t.Run("submitted students are skipped", func(t *testing.T) {
		service, repo, publisher := setup()
		repo.submission.GetFunc = func(ctx context.Context, assignmentID, userID uint) (*models.Submission, error) {
			if userID == 11 {
				return &models.Submission{AssignmentID: assignmentID, UserID: userID}, nil
			}
			return nil, repositories.ErrNotFound
		}
		var created []*models.Notification
		repo.notification.CreateFunc = func(ctx context.Context, notification *models.Notification) error {
			created = append(created, notification)
			return nil
		}

		if err := service.SweepDueSoon(context.Background()); err != nil {
			t.Fatalf("SweepDueSoon failed: %v", err)
		}
		if len(created) != 1 || created[0].UserID != 10 {
			t.Errorf("submitted student not skipped, created: %+v", created)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
	})
}

func TestMarkRead(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	service := &notificationService{repo: repo, logger: logger, now: time.Now}

	// Default mock returns not found
	if err := service.MarkRead(context.Background(), 1, 10); err != ErrNotificationNotFound {
		t.Errorf("expected ErrNotificationNotFound, got %v", err)
	}

	repo.notification.MarkReadFunc = func(ctx context.Context, id, userID uint) error { return nil }
	if err := service.MarkRead(context.Background(), 1, 10); err != nil {
		t.Errorf("MarkRead failed: %v", err)
	}
}
