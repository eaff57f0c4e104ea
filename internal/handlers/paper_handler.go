package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adityasasidhar/quizproject/internal/models"
	"github.com/adityasasidhar/quizproject/internal/services"
	"github.com/adityasasidhar/quizproject/internal/utils"
)

type PaperHandler struct {
	BaseHandler
	generationService services.GenerationService
	renderService     services.RenderService
}

func NewPaperHandler(generationService services.GenerationService, renderService services.RenderService, logger utils.Logger) *PaperHandler {
	return &PaperHandler{
		BaseHandler:       NewBaseHandler(logger),
		generationService: generationService,
		renderService:     renderService,
	}
}

// GeneratePaper synthesizes a new exam paper
func (h *PaperHandler) GeneratePaper(c *gin.Context) {
	var req services.GeneratePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating paper", "family", req.Family)

	resp, err := h.generationService.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPaper loads a stored paper artifact. The artifact path arrives as a
// query parameter because it contains slashes.
func (h *PaperHandler) GetPaper(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing path query parameter"})
		return
	}

	paper, err := h.generationService.Load(c.Request.Context(), path)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, paper)
}

// ListPapers lists stored artifacts for an exam family
func (h *PaperHandler) ListPapers(c *gin.Context) {
	family := models.ExamFamily(c.Param("family"))
	if !family.IsCompetitive() && !family.IsSchool() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unknown exam family",
			Details: string(family),
		})
		return
	}

	paths, err := h.generationService.ListArtifacts(c.Request.Context(), family)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"family": family, "papers": paths})
}

// RenderQuestionPaper returns a question-only PDF
func (h *PaperHandler) RenderQuestionPaper(c *gin.Context) {
	h.renderPaper(c, false)
}

// RenderAnswerPaper returns a PDF with answers and solutions
func (h *PaperHandler) RenderAnswerPaper(c *gin.Context) {
	h.renderPaper(c, true)
}

func (h *PaperHandler) renderPaper(c *gin.Context, withAnswers bool) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Missing path query parameter"})
		return
	}

	var pdfPath string
	var err error
	if withAnswers {
		pdfPath, err = h.renderService.RenderAnswerPaper(c.Request.Context(), path)
	} else {
		pdfPath, err = h.renderService.RenderQuestionPaper(c.Request.Context(), path)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.FileAttachment(pdfPath, "paper.pdf")
}
