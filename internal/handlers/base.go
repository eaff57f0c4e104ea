package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adityasasidhar/quizproject/internal/services"
	"github.com/adityasasidhar/quizproject/internal/utils"
)

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps data payloads that need a message alongside
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs with the request-scoped logger when present
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c).Info(msg, args...)
}

// parseIDParam parses a numeric path parameter, writing the error response
// itself. A zero return means the response is already sent.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0
	}
	return uint(id)
}

// currentUserID reads the authenticated user set by the auth middleware.
func (h *BaseHandler) currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var (
		validationErrs services.ValidationErrors
		permErr        *services.PermissionError
		schedErr       *services.SchedulingError
		parseErr       *services.ResponseParseError
		genErr         *services.GenerationError
	)

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
	case errors.As(err, &permErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Permission denied",
			Details: permErr.Reason,
		})
	case errors.As(err, &schedErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Assignment is not accepting submissions",
			Details: string(schedErr.State),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrAlreadyMember):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrClassroomNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrPaperNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrNotMember):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.As(err, &parseErr):
		utils.FromContext(c).Error("Model response rejected", "error", parseErr.Err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "The model returned an unusable paper, try again",
		})
	case errors.As(err, &genErr):
		utils.FromContext(c).Error("Paper generation failed", "stage", genErr.Stage, "error", genErr.Err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Paper generation failed",
		})
	default:
		utils.FromContext(c).Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
