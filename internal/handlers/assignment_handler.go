package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adityasasidhar/quizproject/internal/services"
	"github.com/adityasasidhar/quizproject/internal/utils"
)

// maxAnswerSheetBytes caps uploaded answer sheets at 20 MiB.
const maxAnswerSheetBytes = 20 << 20

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
	}
}

// CreateAssignment publishes a paper to a classroom
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	classroomID := h.parseIDParam(c, "id")
	if classroomID == 0 {
		return
	}

	var req services.AssignmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), classroomID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// GetAssignment returns one assignment with its scheduling state
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListAssignments lists a classroom's assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	classroomID := h.parseIDParam(c, "id")
	if classroomID == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByClassroom(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// DeleteAssignment removes an assignment
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.assignmentService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Assignment deleted"})
}

// SubmitAnswers grades a typed submission
func (h *AssignmentHandler) SubmitAnswers(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Grading submission", "assignment_id", id)

	submission, err := h.assignmentService.SubmitAnswers(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// SubmitUpload grades an uploaded answer sheet
func (h *AssignmentHandler) SubmitUpload(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("answer_sheet")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing answer_sheet file",
			Details: err.Error(),
		})
		return
	}
	if fileHeader.Size > maxAnswerSheetBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: "Answer sheet exceeds the upload limit",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unreadable upload",
			Details: err.Error(),
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unreadable upload",
			Details: err.Error(),
		})
		return
	}

	sheet := &services.UploadedAnswerSheet{
		Filename: fileHeader.Filename,
		MIMEType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}

	h.LogRequest(c, "Grading uploaded answer sheet", "assignment_id", id, "bytes", len(data))

	submission, err := h.assignmentService.SubmitUpload(c.Request.Context(), id, userID, sheet)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// GetSubmission returns a student's submission
func (h *AssignmentHandler) GetSubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	submission, err := h.assignmentService.GetSubmission(c.Request.Context(), id, studentID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// GetMySubmission returns the caller's own submission
func (h *AssignmentHandler) GetMySubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	submission, err := h.assignmentService.GetSubmission(c.Request.Context(), id, userID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListSubmissions returns all submissions on an assignment
func (h *AssignmentHandler) ListSubmissions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	submissions, err := h.assignmentService.ListSubmissions(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// OverrideScore adjusts a graded submission
func (h *AssignmentHandler) OverrideScore(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	var req services.ScoreOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	submission, err := h.assignmentService.OverrideScore(c.Request.Context(), id, studentID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}
