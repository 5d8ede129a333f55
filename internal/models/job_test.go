package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusIsTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusRunning.IsTerminal())
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusFailed.IsTerminal())
	assert.True(t, JobStatusCancelled.IsTerminal())
}

func TestGenerationFlagsAny(t *testing.T) {
	assert.False(t, GenerationFlags{}.Any())
	assert.True(t, GenerationFlags{StepText: true}.Any())
	assert.True(t, GenerationFlags{MainImage: true, IngredientText: true}.Any())
}

func TestJobFlagsRoundTrip(t *testing.T) {
	job := &GenerationJob{
		FixMainImage:  true,
		FixStepImages: true,
		FixIngrText:   true,
	}
	flags := job.Flags()
	assert.True(t, flags.MainImage)
	assert.False(t, flags.IngredientsImage)
	assert.True(t, flags.StepImages)
	assert.False(t, flags.StepText)
	assert.True(t, flags.IngredientText)
}
