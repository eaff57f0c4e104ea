package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/repositories"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

const testJWTSecret = "test-secret-not-for-production"

func newAuthServiceForTest(repo *mockRepository) AuthService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewAuthService(repo, testJWTSecret, logger, validator.New())
}

func TestSignup(t *testing.T) {
	t.Run("hashes the password and issues a token", func(t *testing.T) {
		repo := newMockRepository()
		var created *models.User
		repo.user.CreateFunc = func(ctx context.Context, user *models.User) error {
			user.ID = 42
			created = user
			return nil
		}
		service := newAuthServiceForTest(repo)

		resp, err := service.Signup(context.Background(), &SignupRequest{
			Username: "akumar",
			Password: "longenough",
			Role:     models.RoleStudent,
		})
		if err != nil {
			t.Fatalf("Signup failed: %v", err)
		}
		if created.PasswordHash == "longenough" {
			t.Error("password stored in the clear")
		}
		if bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("longenough")) != nil {
			t.Error("stored hash does not verify the password")
		}
		if resp.Token == "" {
			t.Error("no token issued")
		}

		claims := &Claims{}
		_, err = jwt.ParseWithClaims(resp.Token, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if claims.UserID != 42 || claims.Role != models.RoleStudent {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("taken username", func(t *testing.T) {
		repo := newMockRepository()
		repo.user.ExistsByUsernameFunc = func(ctx context.Context, username string) (bool, error) {
			return true, nil
		}
		service := newAuthServiceForTest(repo)

		_, err := service.Signup(context.Background(), &SignupRequest{
			Username: "akumar",
			Password: "longenough",
			Role:     models.RoleStudent,
		})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		service := newAuthServiceForTest(newMockRepository())
		_, err := service.Signup(context.Background(), &SignupRequest{
			Username: "akumar",
			Password: "short",
			Role:     models.RoleStudent,
		})
		var valErrs ValidationErrors
		if !errors.As(err, &valErrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := &models.User{ID: 42, Username: "akumar", PasswordHash: string(hash), Role: models.RoleStudent}

	setup := func() AuthService {
		repo := newMockRepository()
		repo.user.GetByUsernameFunc = func(ctx context.Context, username string) (*models.User, error) {
			if username == user.Username {
				return user, nil
			}
			return nil, repositories.ErrNotFound
		}
		return newAuthServiceForTest(repo)
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := setup().Login(context.Background(), &LoginRequest{Username: "akumar", Password: "longenough"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.User.ID != 42 {
			t.Errorf("got user %d, want 42", resp.User.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := setup().Login(context.Background(), &LoginRequest{Username: "akumar", Password: "wrongpassword"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user looks like wrong password", func(t *testing.T) {
		_, err := setup().Login(context.Background(), &LoginRequest{Username: "nobody", Password: "longenough"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
