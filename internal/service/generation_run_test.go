package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/testhelpers"
)

func TestRunCancelledDuringRecipeLoad(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewGenerationService(db, NewRecipeService(db, nil), nil, nil)
	t.Cleanup(svc.Shutdown)

	recipe := testhelpers.CreateRecipe(t, db, "Butter Chicken")
	job := svc.newJob(models.JobTypeSpecific, models.GenerationFlags{MainImage: true})
	job.RecipeID = &recipe.ID
	job.RecipeName = recipe.Name
	require.NoError(t, db.Create(job).Error)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.run(ctx, job, 0)

	got, err := svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, got.Status)
	assert.Equal(t, "cancelled by operator", got.ErrorMessage)

	logs, err := svc.JobLogs(context.Background(), job.ID, 0)
	require.NoError(t, err)
	var levels []string
	for _, l := range logs {
		levels = append(levels, l.LogLevel)
	}
	assert.NotContains(t, levels, models.LogLevelError)
}
