package services

import (
	"context"
	"time"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type SignupRequest = validator.SignupRequest
type LoginRequest = validator.LoginRequest
type GeneratePaperRequest = validator.GeneratePaperRequest
type ClassroomCreateRequest = validator.ClassroomCreateRequest
type ClassroomUpdateRequest = validator.ClassroomUpdateRequest
type JoinClassroomRequest = validator.JoinClassroomRequest
type AssignmentCreateRequest = validator.AssignmentCreateRequest
type SubmitAnswersRequest = validator.SubmitAnswersRequest
type ScoreOverrideRequest = validator.ScoreOverrideRequest
type PostCreateRequest = validator.PostCreateRequest
type CommentCreateRequest = validator.CommentCreateRequest
type ReactionRequest = validator.ReactionRequest

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type PaperResponse struct {
	Artifact *models.PaperArtifact `json:"artifact"`
	Paper    models.Paper          `json:"paper"`
}

type ClassroomResponse struct {
	*models.Classroom
	IsOwner  bool `json:"is_owner"`
	IsMember bool `json:"is_member"`
}

type MemberResponse struct {
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

type AssignmentResponse struct {
	*models.Assignment
	State models.AssignmentState `json:"state"`

	// Paper is attached on detail reads. Students receive it with answers
	// and solutions stripped while the window is open.
	Paper models.Paper `json:"paper,omitempty"`
}

// QuestionResult is the per-question outcome of grading one submission.
type QuestionResult struct {
	QuestionNumber int    `json:"question_number"`
	Expected       string `json:"expected"`
	Given          string `json:"given"`
	Correct        bool   `json:"correct"`
	Explanation    string `json:"explanation,omitempty"`
}

// ScoreResult aggregates grading for a whole paper.
type ScoreResult struct {
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
	Details    []QuestionResult `json:"details"`
}

type SubmissionResponse struct {
	*models.Submission
	State models.AssignmentState `json:"state"`
}

// UploadedAnswerSheet is a handwritten or typed answer document received as
// a multipart upload.
type UploadedAnswerSheet struct {
	Filename string
	MIMEType string
	Data     []byte
}

// ===== ANALYTICS DTOs =====

type AssignmentStats struct {
	AssignmentID    uint    `json:"assignment_id"`
	Title           string  `json:"title"`
	SubmissionCount int     `json:"submission_count"`
	StudentCount    int     `json:"student_count"`
	AveragePercent  float64 `json:"average_percent"`
	LateCount       int     `json:"late_count"`
}

type ClassroomAnalytics struct {
	ClassroomID    uint              `json:"classroom_id"`
	StudentCount   int               `json:"student_count"`
	AveragePercent float64           `json:"average_percent"`
	Assignments    []AssignmentStats `json:"assignments"`
}

// StudentTrend describes recent direction of a student's percentages.
type StudentTrend string

const (
	TrendImproving StudentTrend = "improving"
	TrendSteady    StudentTrend = "steady"
	TrendDeclining StudentTrend = "declining"
	TrendUnknown   StudentTrend = "unknown"
)

type StudentAnalytics struct {
	UserID          uint                 `json:"user_id"`
	ClassroomID     uint                 `json:"classroom_id"`
	Submissions     []*models.Submission `json:"submissions"`
	AveragePercent  float64              `json:"average_percent"`
	Missing         int                  `json:"missing"`
	LastSubmittedAt *time.Time           `json:"last_submitted_at,omitempty"`
	Trend           StudentTrend         `json:"trend"`
	Narrative       string               `json:"narrative"`
}

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int                    `json:"unread"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetUser(ctx context.Context, userID uint) (*models.User, error)
}

type GenerationService interface {
	// Generate synthesizes a fresh paper, validates it and persists the
	// artifact before returning.
	Generate(ctx context.Context, req *GeneratePaperRequest) (*PaperResponse, error)
	Load(ctx context.Context, path string) (models.Paper, error)
	ListArtifacts(ctx context.Context, family models.ExamFamily) ([]string, error)
}

type RenderService interface {
	// RenderQuestionPaper writes a question-only PDF for the artifact and
	// returns its path. Re-rendering the same artifact yields identical
	// bytes.
	RenderQuestionPaper(ctx context.Context, paperPath string) (string, error)
	// RenderAnswerPaper includes answers and solutions.
	RenderAnswerPaper(ctx context.Context, paperPath string) (string, error)
}

type ScoringService interface {
	// ScoreObjective grades typed answers against the key. Pure; no I/O.
	ScoreObjective(paper models.Paper, answers map[string]string) (*ScoreResult, error)
	// ScoreUpload extracts answers from an uploaded answer sheet with the
	// grading model and scores them.
	ScoreUpload(ctx context.Context, paper models.Paper, sheet *UploadedAnswerSheet) (*ScoreResult, error)
}

type ClassroomService interface {
	Create(ctx context.Context, req *ClassroomCreateRequest, teacherID uint) (*ClassroomResponse, error)
	Get(ctx context.Context, id, userID uint) (*ClassroomResponse, error)
	Update(ctx context.Context, id uint, req *ClassroomUpdateRequest, userID uint) (*ClassroomResponse, error)
	Delete(ctx context.Context, id, userID uint) error
	Join(ctx context.Context, req *JoinClassroomRequest, userID uint) (*ClassroomResponse, error)
	Leave(ctx context.Context, classroomID, userID uint) error
	RemoveStudent(ctx context.Context, classroomID, studentID, teacherID uint) error
	ListForUser(ctx context.Context, userID uint) ([]*ClassroomResponse, error)
	Members(ctx context.Context, classroomID, userID uint) ([]*MemberResponse, error)
}

type AssignmentService interface {
	Create(ctx context.Context, classroomID uint, req *AssignmentCreateRequest, teacherID uint) (*AssignmentResponse, error)
	Get(ctx context.Context, id, userID uint) (*AssignmentResponse, error)
	ListByClassroom(ctx context.Context, classroomID, userID uint) ([]*AssignmentResponse, error)
	Delete(ctx context.Context, id, userID uint) error

	SubmitAnswers(ctx context.Context, assignmentID, userID uint, req *SubmitAnswersRequest) (*SubmissionResponse, error)
	SubmitUpload(ctx context.Context, assignmentID, userID uint, sheet *UploadedAnswerSheet) (*SubmissionResponse, error)

	GetSubmission(ctx context.Context, assignmentID, studentID, callerID uint) (*SubmissionResponse, error)
	ListSubmissions(ctx context.Context, assignmentID, teacherID uint) ([]*models.Submission, error)
	OverrideScore(ctx context.Context, assignmentID, studentID uint, req *ScoreOverrideRequest, teacherID uint) (*SubmissionResponse, error)
}

type AnalyticsService interface {
	ClassroomOverview(ctx context.Context, classroomID, teacherID uint) (*ClassroomAnalytics, error)
	StudentDashboard(ctx context.Context, classroomID, studentID uint) (*StudentAnalytics, error)
}

type NotificationService interface {
	// NotifyAssignmentCreated fans out to every student in the classroom.
	// Best effort; failures are logged, not returned to the teacher flow.
	NotifyAssignmentCreated(ctx context.Context, assignment *models.Assignment)
	// SweepDueSoon creates due-soon notifications for assignments due within
	// the next 24 hours, at most once per (student, assignment).
	SweepDueSoon(ctx context.Context) error
	List(ctx context.Context, userID uint, unreadOnly bool) (*NotificationListResponse, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type ReportService interface {
	// GradebookXLSX builds a spreadsheet of every student x assignment score
	// for the classroom.
	GradebookXLSX(ctx context.Context, classroomID, teacherID uint) ([]byte, string, error)
}

type StreamService interface {
	CreatePost(ctx context.Context, classroomID uint, req *PostCreateRequest, userID uint) (*models.Post, error)
	ListPosts(ctx context.Context, classroomID, userID uint) ([]*models.Post, error)
	DeletePost(ctx context.Context, postID, userID uint) error
	AddComment(ctx context.Context, postID uint, req *CommentCreateRequest, userID uint) (*models.Comment, error)
	React(ctx context.Context, postID uint, req *ReactionRequest, userID uint) error
	Unreact(ctx context.Context, postID, userID uint) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Generation() GenerationService
	Render() RenderService
	Scoring() ScoringService
	Classroom() ClassroomService
	Assignment() AssignmentService
	Analytics() AnalyticsService
	Notification() NotificationService
	Report() ReportService
	Stream() StreamService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
