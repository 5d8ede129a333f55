package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType identifies what a generation job operates on.
const (
	JobTypeSpecific = "specific"
	JobTypeMass     = "mass"
)

// JobStatus is the lifecycle of a generation job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

var terminalStatuses = map[JobStatus]struct{}{
	JobStatusCompleted: {},
	JobStatusFailed:    {},
	JobStatusCancelled: {},
}

// IsTerminal reports whether the status is one the job can never leave.
func (s JobStatus) IsTerminal() bool {
	_, ok := terminalStatuses[s]
	return ok
}

// GenerationFlags are the five independent fix toggles an operator submits
// with a generation request.
type GenerationFlags struct {
	MainImage        bool `json:"fix_main_image"`
	IngredientsImage bool `json:"fix_ingredients_image"`
	StepImages       bool `json:"fix_step_images"`
	StepText         bool `json:"fix_step_text"`
	IngredientText   bool `json:"fix_ingredient_text"`
}

// Any reports whether at least one flag is set.
func (f GenerationFlags) Any() bool {
	return f.MainImage || f.IngredientsImage || f.StepImages || f.StepText || f.IngredientText
}

// GenerationJob is a backend-tracked unit of AI-assisted content generation.
// Status is transitioned only by the job runner; API consumers read it.
type GenerationJob struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	JobType        string     `gorm:"size:20;not null" json:"job_type"`
	Status         JobStatus  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RecipeID       *uuid.UUID `gorm:"type:uuid" json:"recipe_id,omitempty"`
	RecipeName     string     `gorm:"size:255" json:"recipe_name,omitempty"`
	FixMainImage   bool       `json:"fix_main_image"`
	FixIngrImage   bool       `gorm:"column:fix_ingredients_image" json:"fix_ingredients_image"`
	FixStepImages  bool       `json:"fix_step_images"`
	FixStepText    bool       `json:"fix_step_text"`
	FixIngrText    bool       `gorm:"column:fix_ingredient_text" json:"fix_ingredient_text"`
	ProcessedCount int        `json:"processed_count"`
	FailedCount    int        `json:"failed_count"`
	ErrorMessage   string     `gorm:"type:text" json:"error_message,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// BeforeCreate assigns the id when the caller has not.
func (j *GenerationJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// Flags rebuilds the flag set from the stored columns.
func (j *GenerationJob) Flags() GenerationFlags {
	return GenerationFlags{
		MainImage:        j.FixMainImage,
		IngredientsImage: j.FixIngrImage,
		StepImages:       j.FixStepImages,
		StepText:         j.FixStepText,
		IngredientText:   j.FixIngrText,
	}
}

// Log levels for regeneration logs.
const (
	LogLevelInfo    = "INFO"
	LogLevelWarning = "WARNING"
	LogLevelError   = "ERROR"
	LogLevelSuccess = "SUCCESS"
)

// RegenerationLog is an append-only log line produced by a running job.
type RegenerationLog struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	LogLevel  string    `gorm:"size:10;not null" json:"log_level"`
	Message   string    `gorm:"type:text;not null" json:"message"`
}
