package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

// Editor accumulates edits to one recipe and submits them as a single partial
// update. Fields never touched are never sent, so concurrent changes to other
// fields survive a Save.
type Editor struct {
	client   *Client
	recipeID uuid.UUID
	pending  types.UpdateRecipeRequest
}

// NewEditor starts an edit session for the given recipe.
func NewEditor(c *Client, recipeID uuid.UUID) *Editor {
	return &Editor{client: c, recipeID: recipeID}
}

func (e *Editor) SetName(v string) *Editor        { e.pending.Name = &v; return e }
func (e *Editor) SetDescription(v string) *Editor { e.pending.Description = &v; return e }
func (e *Editor) SetRegion(v string) *Editor      { e.pending.Region = &v; return e }
func (e *Editor) SetDifficulty(v string) *Editor  { e.pending.Difficulty = &v; return e }
func (e *Editor) SetPrepTime(v int) *Editor       { e.pending.PrepTimeMinutes = &v; return e }
func (e *Editor) SetCookTime(v int) *Editor       { e.pending.CookTimeMinutes = &v; return e }
func (e *Editor) SetServings(v int) *Editor       { e.pending.Servings = &v; return e }
func (e *Editor) SetCalories(v float64) *Editor   { e.pending.Calories = &v; return e }
func (e *Editor) SetRating(v float64) *Editor     { e.pending.Rating = &v; return e }

func (e *Editor) SetIngredients(v models.IngredientList) *Editor {
	e.pending.Ingredients = &v
	return e
}

func (e *Editor) SetSteps(v []string) *Editor         { e.pending.Steps = &v; return e }
func (e *Editor) SetStepsBeginner(v []string) *Editor { e.pending.StepsBeginner = &v; return e }
func (e *Editor) SetStepsAdvanced(v []string) *Editor { e.pending.StepsAdvanced = &v; return e }

func (e *Editor) SetImageURL(v string) *Editor         { e.pending.ImageURL = &v; return e }
func (e *Editor) SetIngredientsImage(v string) *Editor { e.pending.IngredientsImage = &v; return e }
func (e *Editor) SetStepImageURLs(v []string) *Editor  { e.pending.StepImageURLs = &v; return e }

func (e *Editor) SetValidationStatus(v string) *Editor {
	e.pending.ValidationStatus = &v
	return e
}

// Dirty reports whether any field has been set since the last Save.
func (e *Editor) Dirty() bool {
	return !e.pending.Empty()
}

// Save submits the pending edits. With nothing pending it performs no HTTP
// call and returns the current recipe unchanged via a plain fetch skip: the
// returned recipe is nil and the error is nil.
func (e *Editor) Save(ctx context.Context) (*models.Recipe, error) {
	if e.pending.Empty() {
		return nil, nil
	}

	recipe, err := e.client.UpdateRecipe(ctx, e.recipeID, &e.pending)
	if err != nil {
		return nil, err
	}
	e.pending = types.UpdateRecipeRequest{}
	return recipe, nil
}
