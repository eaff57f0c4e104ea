package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/services"
	"github.com/adityasasidhar/quizproject/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	paperHandler        *PaperHandler
	classroomHandler    *ClassroomHandler
	assignmentHandler   *AssignmentHandler
	dashboardHandler    *DashboardHandler
	notificationHandler *NotificationHandler
	streamHandler       *StreamHandler
	authMiddleware      *JWTAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtSecret string,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		paperHandler:        NewPaperHandler(serviceManager.Generation(), serviceManager.Render(), logger),
		classroomHandler:    NewClassroomHandler(serviceManager.Classroom(), serviceManager.Report(), logger),
		assignmentHandler:   NewAssignmentHandler(serviceManager.Assignment(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Analytics(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		streamHandler:       NewStreamHandler(serviceManager.Stream(), logger),
		authMiddleware:      NewJWTAuthMiddleware(jwtSecret),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	// Public routes
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/signup", hm.authHandler.Signup)
		auth.POST("/login", hm.authHandler.Login)
	}

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		v1.GET("/me", hm.authHandler.Me)

		// Paper generation and rendering - teachers only
		papers := v1.Group("/papers")
		papers.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			papers.POST("/generate", hm.paperHandler.GeneratePaper)
			papers.GET("", hm.paperHandler.GetPaper)
			papers.GET("/family/:family", hm.paperHandler.ListPapers)
			papers.GET("/render/questions", hm.paperHandler.RenderQuestionPaper)
			papers.GET("/render/answers", hm.paperHandler.RenderAnswerPaper)
		}

		// Classroom routes
		classrooms := v1.Group("/classrooms")
		{
			classrooms.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.classroomHandler.CreateClassroom)
			classrooms.GET("", hm.classroomHandler.ListClassrooms)
			classrooms.POST("/join", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.classroomHandler.JoinClassroom)
			classrooms.GET("/:id", hm.classroomHandler.GetClassroom)
			classrooms.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.classroomHandler.UpdateClassroom)
			classrooms.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.classroomHandler.DeleteClassroom)
			classrooms.POST("/:id/leave", hm.classroomHandler.LeaveClassroom)
			classrooms.GET("/:id/members", hm.classroomHandler.ListMembers)
			classrooms.DELETE("/:id/members/:student_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.classroomHandler.RemoveStudent)
			classrooms.GET("/:id/gradebook", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.classroomHandler.ExportGradebook)

			// Assignments scoped to a classroom
			classrooms.POST("/:id/assignments", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.assignmentHandler.CreateAssignment)
			classrooms.GET("/:id/assignments", hm.assignmentHandler.ListAssignments)

			// Dashboards
			classrooms.GET("/:id/overview", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.dashboardHandler.ClassroomOverview)
			classrooms.GET("/:id/dashboard", hm.dashboardHandler.StudentDashboard)

			// Stream
			classrooms.POST("/:id/posts", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.streamHandler.CreatePost)
			classrooms.GET("/:id/posts", hm.streamHandler.ListPosts)
		}

		// Assignment routes addressed by assignment id
		assignments := v1.Group("/assignments")
		{
			assignments.GET("/:id", hm.assignmentHandler.GetAssignment)
			assignments.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.assignmentHandler.DeleteAssignment)

			assignments.POST("/:id/submit", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.assignmentHandler.SubmitAnswers)
			assignments.POST("/:id/submit-upload", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.assignmentHandler.SubmitUpload)

			assignments.GET("/:id/submission", hm.assignmentHandler.GetMySubmission)
			assignments.GET("/:id/submissions", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.assignmentHandler.ListSubmissions)
			assignments.GET("/:id/submissions/:student_id", hm.assignmentHandler.GetSubmission)
			assignments.PUT("/:id/submissions/:student_id/score", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.assignmentHandler.OverrideScore)
		}

		// Post routes addressed by post id
		posts := v1.Group("/posts")
		{
			posts.DELETE("/:id", hm.streamHandler.DeletePost)
			posts.POST("/:id/comments", hm.streamHandler.AddComment)
			posts.PUT("/:id/reaction", hm.streamHandler.React)
			posts.DELETE("/:id/reaction", hm.streamHandler.Unreact)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", hm.notificationHandler.MarkNotificationRead)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
