package types

import (
	"github.com/google/uuid"

	"github.com/rasoihub/recipeops/internal/models"
)

// StartSpecificGenerationRequest starts a job against a single recipe,
// addressed by name the way the admin panel submits it.
type StartSpecificGenerationRequest struct {
	RecipeName string `json:"recipe_name" binding:"required"`
	models.GenerationFlags
}

// StartMassGenerationRequest starts a job over every incomplete recipe.
// Limit bounds how many recipes one job may touch; zero means no bound.
type StartMassGenerationRequest struct {
	Limit int `json:"limit"`
	models.GenerationFlags
}

// StartGenerationResponse returns the id of the created job.
type StartGenerationResponse struct {
	JobID  uuid.UUID        `json:"job_id"`
	Status models.JobStatus `json:"status"`
}

// JobLogsResponse carries logs after a cursor. NextAfter is the id of the
// last returned log; passing it back yields only newer entries.
type JobLogsResponse struct {
	Logs      []models.RegenerationLog `json:"logs"`
	NextAfter uint                     `json:"next_after"`
}
