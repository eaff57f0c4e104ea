package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/adityasasidhar/quizproject/internal/models"
)

// ErrNotFound is returned by repositories when the requested row does not
// exist. Services translate it into their own sentinel errors.
var ErrNotFound = errors.New("record not found")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== FILTERS =====

type Pagination struct {
	Limit  int
	Offset int
}

type AssignmentFilters struct {
	ClassroomID *uint
	CreatedBy   *uint
	DueBefore   *time.Time
	DueAfter    *time.Time
	Pagination
}

type SubmissionFilters struct {
	AssignmentID *uint
	UserID       *uint
	Late         *bool
	Pagination
}

type NotificationFilters struct {
	UserID *uint
	Kind   *models.NotificationKind
	Unread bool
	Pagination
}

// ===== DOMAIN REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
}

type ClassroomRepository interface {
	Create(ctx context.Context, tx *gorm.DB, classroom *models.Classroom) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Classroom, error)
	GetByJoinCode(ctx context.Context, tx *gorm.DB, code string) (*models.Classroom, error)
	GetByMember(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.Classroom, error)
	ExistsByJoinCode(ctx context.Context, tx *gorm.DB, code string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, classroom *models.Classroom) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type MembershipRepository interface {
	Create(ctx context.Context, tx *gorm.DB, membership *models.Membership) error
	Get(ctx context.Context, tx *gorm.DB, classroomID, userID uint) (*models.Membership, error)
	GetByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Membership, error)
	GetStudents(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Membership, error)
	Exists(ctx context.Context, tx *gorm.DB, classroomID, userID uint) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, classroomID, userID uint) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	List(ctx context.Context, tx *gorm.DB, filters AssignmentFilters) ([]*models.Assignment, int64, error)
	GetByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Assignment, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type SubmissionRepository interface {
	// Upsert writes the submission for its (assignment, user) pair,
	// overwriting any previous row. Last write wins.
	Upsert(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	Get(ctx context.Context, tx *gorm.DB, assignmentID, userID uint) (*models.Submission, error)
	GetByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Submission, error)
	GetByUserInClassroom(ctx context.Context, tx *gorm.DB, classroomID, userID uint) ([]*models.Submission, error)
	List(ctx context.Context, tx *gorm.DB, filters SubmissionFilters) ([]*models.Submission, int64, error)
	Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
}

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	CreateBatch(ctx context.Context, tx *gorm.DB, notifications []*models.Notification) error
	Exists(ctx context.Context, tx *gorm.DB, userID, assignmentID uint, kind models.NotificationKind) (bool, error)
	List(ctx context.Context, tx *gorm.DB, filters NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id, userID uint) error
}

type StreamRepository interface {
	CreatePost(ctx context.Context, tx *gorm.DB, post *models.Post) error
	GetPost(ctx context.Context, tx *gorm.DB, id uint) (*models.Post, error)
	GetPostsByClassroom(ctx context.Context, tx *gorm.DB, classroomID uint) ([]*models.Post, error)
	DeletePost(ctx context.Context, tx *gorm.DB, id uint) error
	CreateComment(ctx context.Context, tx *gorm.DB, comment *models.Comment) error
	UpsertReaction(ctx context.Context, tx *gorm.DB, reaction *models.Reaction) error
	DeleteReaction(ctx context.Context, tx *gorm.DB, postID, userID uint) error
}

// PaperRepository stores generated paper artifacts. Artifacts are immutable
// once written; Save must validate before persisting anything.
type PaperRepository interface {
	Save(ctx context.Context, spec models.ExamSpec, rawJSON []byte) (*models.PaperArtifact, error)
	Load(ctx context.Context, path string) (models.Paper, error)
	Exists(path string) bool
	List(ctx context.Context, family models.ExamFamily) ([]string, error)
}
