package validator

import (
	"time"

	"github.com/adityasasidhar/quizproject/internal/models"
)

// Request DTOs bound by handlers and validated before reaching services.

// SignupRequest creates a local account
type SignupRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=100"`
	Password string          `json:"password" validate:"required,min=8,max=128"`
	Role     models.UserRole `json:"role" validate:"required,oneof=student teacher"`
}

// LoginRequest exchanges credentials for a token
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// GeneratePaperRequest asks for a fresh exam paper
type GeneratePaperRequest struct {
	Family     models.ExamFamily `json:"family" validate:"required,exam_family"`
	Difficulty string            `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Format     string            `json:"format" validate:"omitempty,max=50"`
	Subject    string            `json:"subject" validate:"omitempty,max=50"`
	Grade      string            `json:"grade" validate:"omitempty,max=4"`
	Board      string            `json:"board" validate:"omitempty,max=20"`
	Language   string            `json:"language" validate:"omitempty,max=20"`
	Chapters   []string          `json:"chapters" validate:"omitempty,max=20,dive,max=200"`
}

// ToExamSpec maps the request onto the internal spec value.
func (r *GeneratePaperRequest) ToExamSpec() models.ExamSpec {
	return models.ExamSpec{
		Family:     r.Family,
		Difficulty: r.Difficulty,
		Format:     r.Format,
		Subject:    r.Subject,
		Grade:      r.Grade,
		Board:      r.Board,
		Language:   r.Language,
		Chapters:   r.Chapters,
	}
}

// ClassroomCreateRequest creates a classroom owned by the calling teacher
type ClassroomCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ClassroomUpdateRequest edits classroom metadata
type ClassroomUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// JoinClassroomRequest enrolls the caller via join code
type JoinClassroomRequest struct {
	JoinCode string `json:"join_code" validate:"required,join_code"`
}

// AssignmentCreateRequest publishes a generated paper to a classroom
type AssignmentCreateRequest struct {
	Title       string            `json:"title" validate:"required,min=1,max=200"`
	Description *string           `json:"description" validate:"omitempty,max=1000"`
	PaperPath   string            `json:"paper_path" validate:"required,max=500"`
	OpensAt     *time.Time        `json:"opens_at"`
	DueAt       *time.Time        `json:"due_at" validate:"omitempty,future_date"`
	LatePolicy  models.LatePolicy `json:"late_policy" validate:"omitempty,oneof=allow block"`
}

// SubmitAnswersRequest carries a student's typed answers keyed by question
// number.
type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

// ScoreOverrideRequest lets a teacher adjust a graded submission
type ScoreOverrideRequest struct {
	Score int     `json:"score" validate:"min=0"`
	Total int     `json:"total" validate:"required,min=1"`
	Note  *string `json:"note" validate:"omitempty,max=500"`
}

// PostCreateRequest adds an announcement to the classroom stream
type PostCreateRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// CommentCreateRequest replies to a stream post
type CommentCreateRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// ReactionRequest sets the caller's reaction on a post
type ReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,max=16"`
}
