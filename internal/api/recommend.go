package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rasoihub/recipeops/internal/service"
	"github.com/rasoihub/recipeops/internal/types"
)

// RecommendHandler serves the consumer-facing preferences/chat endpoint.
type RecommendHandler struct {
	recommend *service.RecommendService
}

// NewRecommendHandler creates a new RecommendHandler
func NewRecommendHandler(recommend *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{recommend: recommend}
}

// RegisterRoutes registers the consumer routes
func (h *RecommendHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/recommend", h.Recommend)
}

func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req types.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.recommend.Recommend(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
