package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

func newClassroomServiceForTest(repo *mockRepository) *classroomService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &classroomService{repo: repo, logger: logger, validator: validator.New()}
}

func TestRandomJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := randomJoinCode()
		if err != nil {
			t.Fatalf("randomJoinCode failed: %v", err)
		}
		if len(code) != models.JoinCodeLength {
			t.Fatalf("got code length %d, want %d", len(code), models.JoinCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(joinCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 50 draws from a 32^6 keyspace should essentially never collide
	if len(seen) < 45 {
		t.Errorf("suspiciously many duplicate codes: %d unique of 50", len(seen))
	}
}

func TestClassroomCreate(t *testing.T) {
	teacher := &models.User{ID: 1, Username: "msharma", Role: models.RoleTeacher}
	student := &models.User{ID: 2, Username: "akumar", Role: models.RoleStudent}

	t.Run("creates classroom with owner membership", func(t *testing.T) {
		repo := newMockRepository()
		repo.user.GetByIDFunc = func(ctx context.Context, id uint) (*models.User, error) {
			return teacher, nil
		}
		var createdClassroom *models.Classroom
		repo.classroom.CreateFunc = func(ctx context.Context, classroom *models.Classroom) error {
			classroom.ID = 3
			createdClassroom = classroom
			return nil
		}
		var createdMembership *models.Membership
		repo.membership.CreateFunc = func(ctx context.Context, membership *models.Membership) error {
			createdMembership = membership
			return nil
		}
		service := newClassroomServiceForTest(repo)

		resp, err := service.Create(context.Background(), &ClassroomCreateRequest{Name: "Physics XII"}, 1)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !resp.IsOwner || !resp.IsMember {
			t.Error("creator should be both owner and member")
		}
		if len(createdClassroom.JoinCode) != models.JoinCodeLength {
			t.Errorf("join code %q has wrong length", createdClassroom.JoinCode)
		}
		if createdMembership == nil || createdMembership.Role != models.RoleTeacher {
			t.Errorf("owner membership missing or wrong role: %+v", createdMembership)
		}
		if createdMembership.ClassroomID != 3 {
			t.Errorf("membership bound to classroom %d, want 3", createdMembership.ClassroomID)
		}
	})

	t.Run("students cannot create classrooms", func(t *testing.T) {
		repo := newMockRepository()
		repo.user.GetByIDFunc = func(ctx context.Context, id uint) (*models.User, error) {
			return student, nil
		}
		service := newClassroomServiceForTest(repo)

		_, err := service.Create(context.Background(), &ClassroomCreateRequest{Name: "Physics XII"}, 2)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
	})

	t.Run("exhausted join codes surface an error", func(t *testing.T) {
		repo := newMockRepository()
		repo.user.GetByIDFunc = func(ctx context.Context, id uint) (*models.User, error) {
			return teacher, nil
		}
		attempts := 0
		repo.classroom.ExistsByJoinCodeFunc = func(ctx context.Context, code string) (bool, error) {
			attempts++
			return true, nil
		}
		service := newClassroomServiceForTest(repo)

		_, err := service.Create(context.Background(), &ClassroomCreateRequest{Name: "Physics XII"}, 1)
		if !errors.Is(err, ErrJoinCodeExhausted) {
			t.Fatalf("expected ErrJoinCodeExhausted, got %v", err)
		}
		if attempts != joinCodeMaxAttempts {
			t.Errorf("got %d attempts, want %d", attempts, joinCodeMaxAttempts)
		}
	})
}

func TestClassroomJoin(t *testing.T) {
	classroom := &models.Classroom{ID: 3, Name: "Physics XII", JoinCode: "AB23CD", OwnerID: 1}

	setup := func() (*classroomService, *mockRepository) {
		repo := newMockRepository()
		repo.classroom.GetByJoinCodeFunc = func(ctx context.Context, code string) (*models.Classroom, error) {
			if code == classroom.JoinCode {
				return classroom, nil
			}
			return nil, repositories.ErrNotFound
		}
		repo.user.GetByIDFunc = func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleStudent}, nil
		}
		return newClassroomServiceForTest(repo), repo
	}

	t.Run("joins by code", func(t *testing.T) {
		service, repo := setup()
		var created *models.Membership
		repo.membership.CreateFunc = func(ctx context.Context, membership *models.Membership) error {
			created = membership
			return nil
		}

		resp, err := service.Join(context.Background(), &JoinClassroomRequest{JoinCode: "AB23CD"}, 42)
		if err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if !resp.IsMember {
			t.Error("joiner should be a member")
		}
		if created == nil || created.Role != models.RoleStudent {
			t.Errorf("membership missing or wrong role: %+v", created)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		service, _ := setup()
		_, err := service.Join(context.Background(), &JoinClassroomRequest{JoinCode: "ZZZZZZ"}, 42)
		if !errors.Is(err, ErrClassroomNotFound) {
			t.Fatalf("expected ErrClassroomNotFound, got %v", err)
		}
	})

	t.Run("teacher cannot join by code", func(t *testing.T) {
		service, repo := setup()
		repo.user.GetByIDFunc = func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleTeacher}, nil
		}
		var created *models.Membership
		repo.membership.CreateFunc = func(ctx context.Context, membership *models.Membership) error {
			created = membership
			return nil
		}

		_, err := service.Join(context.Background(), &JoinClassroomRequest{JoinCode: "AB23CD"}, 99)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
		if created != nil {
			t.Errorf("membership created for a teacher: %+v", created)
		}
	})

	t.Run("double join rejected", func(t *testing.T) {
		service, repo := setup()
		repo.membership.ExistsFunc = func(ctx context.Context, classroomID, userID uint) (bool, error) {
			return true, nil
		}

		_, err := service.Join(context.Background(), &JoinClassroomRequest{JoinCode: "AB23CD"}, 42)
		if !errors.Is(err, ErrAlreadyMember) {
			t.Fatalf("expected ErrAlreadyMember, got %v", err)
		}
	})
}

func TestClassroomLeave(t *testing.T) {
	classroom := &models.Classroom{ID: 3, OwnerID: 1}

	repo := newMockRepository()
	repo.classroom.GetByIDFunc = func(ctx context.Context, id uint) (*models.Classroom, error) {
		return classroom, nil
	}
	repo.membership.ExistsFunc = func(ctx context.Context, classroomID, userID uint) (bool, error) {
		return true, nil
	}
	service := newClassroomServiceForTest(repo)

	t.Run("owner cannot leave", func(t *testing.T) {
		err := service.Leave(context.Background(), 3, 1)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
	})

	t.Run("student leaves", func(t *testing.T) {
		var deleted bool
		repo.membership.DeleteFunc = func(ctx context.Context, classroomID, userID uint) error {
			deleted = true
			return nil
		}
		if err := service.Leave(context.Background(), 3, 42); err != nil {
			t.Fatalf("Leave failed: %v", err)
		}
		if !deleted {
			t.Error("membership was not removed")
		}
	})
}
