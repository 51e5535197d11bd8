package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/services"
)

// ContentHandler handles generated training content endpoints
type ContentHandler struct {
	contentService    *services.ContentService
	complianceService *services.ComplianceService
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *services.ContentService, complianceService *services.ComplianceService) *ContentHandler {
	return &ContentHandler{
		contentService:    contentService,
		complianceService: complianceService,
	}
}

// GenerateQuiz drafts a quiz for a module; ?questions=N controls the size
// POST /api/v1/modules/:id/generate-quiz
func (h *ContentHandler) GenerateQuiz(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	numQuestions, _ := strconv.Atoi(c.DefaultQuery("questions", "5"))

	quiz, err := h.contentService.GenerateQuiz(c.Request.Context(), moduleID, numQuestions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

// GenerateOutline drafts a lesson plan for a module
// POST /api/v1/modules/:id/generate-outline
func (h *ContentHandler) GenerateOutline(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	outline, err := h.contentService.GenerateLessonOutline(c.Request.Context(), moduleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outline": outline})
}

// AnalyzeEffectiveness summarizes the current compliance report for managers
// POST /api/v1/compliance/analyze
func (h *ContentHandler) AnalyzeEffectiveness(c *gin.Context) {
	items, err := h.complianceService.EvaluateAll()
	if err != nil {
		respondError(c, err)
		return
	}

	analysis, err := h.contentService.SummarizeEffectiveness(c.Request.Context(), items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
