package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoihub/recipeops/internal/service"
	"github.com/rasoihub/recipeops/internal/types"
)

// GenerationHandler serves the generation job endpoints the admin panel
// polls: start specific/mass jobs, list jobs, fetch logs, cancel.
type GenerationHandler struct {
	generation *service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generation *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

// RegisterRoutes registers the generation routes. The rate limiter (when
// provided) guards only the job-starting endpoints.
func (h *GenerationHandler) RegisterRoutes(router *gin.RouterGroup, limiter ...gin.HandlerFunc) {
	generate := router.Group("/generate")
	generate.Use(limiter...)
	{
		generate.POST("/specific", h.StartSpecific)
		generate.POST("/mass", h.StartMass)
	}

	jobs := router.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/latest", h.LatestJob)
		jobs.GET("/:id", h.GetJob)
		jobs.GET("/:id/logs", h.JobLogs)
		jobs.POST("/:id/cancel", h.CancelJob)
	}
}

func (h *GenerationHandler) StartSpecific(c *gin.Context) {
	var req types.StartSpecificGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.generation.StartSpecific(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFlags):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start generation job"})
		}
		return
	}

	c.JSON(http.StatusAccepted, types.StartGenerationResponse{
		JobID:  job.ID,
		Status: job.Status,
	})
}

func (h *GenerationHandler) StartMass(c *gin.Context) {
	var req types.StartMassGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.generation.StartMass(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoFlags) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start generation job"})
		return
	}

	c.JSON(http.StatusAccepted, types.StartGenerationResponse{
		JobID:  job.ID,
		Status: job.Status,
	})
}

func (h *GenerationHandler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	jobs, err := h.generation.ListJobs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *GenerationHandler) LatestJob(c *gin.Context) {
	job, err := h.generation.LatestJob(c.Request.Context())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No jobs found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *GenerationHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := h.generation.GetJob(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *GenerationHandler) JobLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	after, _ := strconv.ParseUint(c.DefaultQuery("after", "0"), 10, 64)

	logs, err := h.generation.JobLogs(c.Request.Context(), id, uint(after))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	next := uint(after)
	if len(logs) > 0 {
		next = logs[len(logs)-1].ID
	}

	c.JSON(http.StatusOK, types.JobLogsResponse{
		Logs:      logs,
		NextAfter: next,
	})
}

func (h *GenerationHandler) CancelJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	if err := h.generation.CancelJob(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrJobTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel job"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job cancellation requested", "id": id})
}
