package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adityasasidhar/quizproject/internal/services"
	"github.com/adityasasidhar/quizproject/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewDashboardHandler(analyticsService services.AnalyticsService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
	}
}

// ClassroomOverview returns per-assignment stats for the classroom owner
func (h *DashboardHandler) ClassroomOverview(c *gin.Context) {
	classroomID := h.parseIDParam(c, "id")
	if classroomID == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.ClassroomOverview(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// StudentDashboard returns the caller's own performance in a classroom
func (h *DashboardHandler) StudentDashboard(c *gin.Context) {
	classroomID := h.parseIDParam(c, "id")
	if classroomID == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.StudentDashboard(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
