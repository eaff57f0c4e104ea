package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adityasasidhar/quizproject/internal/services"
	"github.com/adityasasidhar/quizproject/internal/utils"
)

type ClassroomHandler struct {
	BaseHandler
	classroomService services.ClassroomService
	reportService    services.ReportService
}

func NewClassroomHandler(classroomService services.ClassroomService, reportService services.ReportService, logger utils.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		BaseHandler:      NewBaseHandler(logger),
		classroomService: classroomService,
		reportService:    reportService,
	}
}

// CreateClassroom creates a classroom owned by the caller
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	var req services.ClassroomCreateRequest
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

	classroom, err := h.classroomService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, classroom)
}

// GetClassroom returns one classroom the caller belongs to
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	classroom, err := h.classroomService.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// UpdateClassroom edits name or description
func (h *ClassroomHandler) UpdateClassroom(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ClassroomUpdateRequest
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

	classroom, err := h.classroomService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// DeleteClassroom removes a classroom
func (h *ClassroomHandler) DeleteClassroom(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.classroomService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Classroom deleted"})
}

// ListClassrooms lists the caller's classrooms
func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	classrooms, err := h.classroomService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classrooms": classrooms})
}

// JoinClassroom enrolls the caller via join code
func (h *ClassroomHandler) JoinClassroom(c *gin.Context) {
	var req services.JoinClassroomRequest
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

	classroom, err := h.classroomService.Join(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classroom)
}

// LeaveClassroom removes the caller's membership
func (h *ClassroomHandler) LeaveClassroom(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.classroomService.Leave(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Left classroom"})
}

// RemoveStudent lets the owner remove a member
func (h *ClassroomHandler) RemoveStudent(c *gin.Context) {
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

	if err := h.classroomService.RemoveStudent(c.Request.Context(), id, studentID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student removed"})
}

// ListMembers lists classroom members
func (h *ClassroomHandler) ListMembers(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	members, err := h.classroomService.Members(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// ExportGradebook streams the classroom gradebook as an XLSX attachment
func (h *ClassroomHandler) ExportGradebook(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	data, filename, err := h.reportService.GradebookXLSX(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
