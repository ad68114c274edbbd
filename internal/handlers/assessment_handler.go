package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"assessment-service/internal/models"
	"assessment-service/internal/service"

	"github.com/gin-gonic/gin"
)

// Clients only ever see this message for AI-path failures; the cause is
// logged server-side.
const genericAIError = "AI is unavailable. Try again."

type AssessmentHandler struct {
	Service *service.AssessmentService
}

func NewAssessmentHandler(s *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{Service: s}
}

func (h *AssessmentHandler) GenerateAssessment(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, err := h.Service.GenerateChallenges(context.Background(), req)
	if err != nil {
		log.Printf("Challenge generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericAIError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *AssessmentHandler) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, nextLevel, err := h.Service.Evaluate(context.Background(), req)
	if err != nil {
		log.Printf("Evaluation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericAIError})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"score":     result.Score,
		"feedback":  result.Feedback,
		"nextLevel": nextLevel,
	})
}

func (h *AssessmentHandler) EvaluateBatch(c *gin.Context) {
	var req models.EvaluateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.Service.EvaluateBatch(context.Background(), req)
	if err != nil {
		log.Printf("Batch evaluation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericAIError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *AssessmentHandler) EvaluateAndGenerate(c *gin.Context) {
	var req models.EvaluateAndGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eval, err := h.Service.EvaluateAndGenerate(context.Background(), req)
	if err != nil {
		log.Printf("Combined evaluation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericAIError})
		return
	}
	c.JSON(http.StatusOK, eval)
}

func (h *AssessmentHandler) History(c *gin.Context) {
	userID := c.Param("userId")

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	records, err := h.Service.History(context.Background(), userID, limit)
	if err != nil {
		log.Printf("History lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch history"})
		return
	}
	c.JSON(http.StatusOK, records)
}
