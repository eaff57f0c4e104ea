package services

import (
	"errors"
	"fmt"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/validator"
)

// Sentinel errors translated by handlers into HTTP status codes.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrClassroomNotFound = errors.New("classroom not found")
	ErrAlreadyMember     = errors.New("already a member of this classroom")
	ErrNotMember         = errors.New("not a member of this classroom")
	ErrJoinCodeExhausted = errors.New("could not allocate a unique join code")

	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrPaperNotFound      = errors.New("paper not found")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrPostNotFound         = errors.New("post not found")
)

// ValidationErrors re-exports the validator type so service callers only
// import this package.
type ValidationErrors = validator.ValidationErrors
type ValidationError = validator.ValidationError

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    "business_logic",
	}
}

// PermissionError reports a denied action on a resource.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// SchedulingError reports a submission attempted outside the assignment's
// window.
type SchedulingError struct {
	AssignmentID uint
	State        models.AssignmentState
}

func NewSchedulingError(assignmentID uint, state models.AssignmentState) *SchedulingError {
	return &SchedulingError{AssignmentID: assignmentID, State: state}
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("assignment %d does not accept submissions in state %s", e.AssignmentID, e.State)
}

// GenerationError wraps a failure in the paper generation pipeline with the
// stage it occurred in.
type GenerationError struct {
	Stage string
	Err   error
}

func NewGenerationError(stage string, err error) *GenerationError {
	return &GenerationError{Stage: stage, Err: err}
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("paper generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ResponseParseError carries the raw model output that failed to parse so
// the caller can log or surface it for diagnosis.
type ResponseParseError struct {
	Raw string
	Err error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("model response is not a valid paper: %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error {
	return e.Err
}
