package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adityasasidhar/quizproject/internal/services"
	"github.com/adityasasidhar/quizproject/internal/utils"
)

type StreamHandler struct {
	BaseHandler
	streamService services.StreamService
}

func NewStreamHandler(streamService services.StreamService, logger utils.Logger) *StreamHandler {
	return &StreamHandler{
		BaseHandler:   NewBaseHandler(logger),
		streamService: streamService,
	}
}

// CreatePost adds an announcement to the classroom stream
func (h *StreamHandler) CreatePost(c *gin.Context) {
	classroomID := h.parseIDParam(c, "id")
	if classroomID == 0 {
		return
	}

	var req services.PostCreateRequest
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

	post, err := h.streamService.CreatePost(c.Request.Context(), classroomID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts returns the classroom stream, newest first
func (h *StreamHandler) ListPosts(c *gin.Context) {
	classroomID := h.parseIDParam(c, "id")
	if classroomID == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	posts, err := h.streamService.ListPosts(c.Request.Context(), classroomID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// DeletePost removes a post
func (h *StreamHandler) DeletePost(c *gin.Context) {
	postID := h.parseIDParam(c, "id")
	if postID == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.streamService.DeletePost(c.Request.Context(), postID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Post deleted"})
}

// AddComment replies to a post
func (h *StreamHandler) AddComment(c *gin.Context) {
	postID := h.parseIDParam(c, "id")
	if postID == 0 {
		return
	}

	var req services.CommentCreateRequest
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

	comment, err := h.streamService.AddComment(c.Request.Context(), postID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// React sets the caller's emoji reaction on a post
func (h *StreamHandler) React(c *gin.Context) {
	postID := h.parseIDParam(c, "id")
	if postID == 0 {
		return
	}

	var req services.ReactionRequest
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

	if err := h.streamService.React(c.Request.Context(), postID, &req, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Reaction saved"})
}

// Unreact removes the caller's reaction from a post
func (h *StreamHandler) Unreact(c *gin.Context) {
	postID := h.parseIDParam(c, "id")
	if postID == 0 {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.streamService.Unreact(c.Request.Context(), postID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Reaction removed"})
}
