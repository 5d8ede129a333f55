package types

import "github.com/rasoihub/recipeops/internal/models"

// ListRecipesResponse is the paged recipe list payload. Whether another page
// exists is derived by the caller: a page shorter than limit is the last one.
type ListRecipesResponse struct {
	Recipes []models.Recipe `json:"recipes"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// UpdateRecipeRequest is the partial-update body for a recipe. Every field
// is a pointer so that absent keys are distinguishable from zero values;
// only present keys are written.
type UpdateRecipeRequest struct {
	Name             *string                 `json:"name,omitempty"`
	Description      *string                 `json:"description,omitempty"`
	Region           *string                 `json:"region,omitempty"`
	Difficulty       *string                 `json:"difficulty,omitempty"`
	PrepTimeMinutes  *int                    `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes  *int                    `json:"cook_time_minutes,omitempty"`
	Servings         *int                    `json:"servings,omitempty"`
	Calories         *float64                `json:"calories,omitempty"`
	Rating           *float64                `json:"rating,omitempty"`
	Ingredients      *models.IngredientList  `json:"ingredients,omitempty"`
	Steps            *[]string               `json:"steps,omitempty"`
	StepsBeginner    *[]string               `json:"steps_beginner,omitempty"`
	StepsAdvanced    *[]string               `json:"steps_advanced,omitempty"`
	ImageURL         *string                 `json:"image_url,omitempty"`
	IngredientsImage *string                 `json:"ingredients_image,omitempty"`
	StepImageURLs    *[]string               `json:"step_image_urls,omitempty"`
	ValidationStatus *string                 `json:"validation_status,omitempty"`
	DataQualityScore *int                    `json:"data_quality_score,omitempty"`
}

// Empty reports whether no field was provided at all.
func (r *UpdateRecipeRequest) Empty() bool {
	return r.Name == nil && r.Description == nil && r.Region == nil &&
		r.Difficulty == nil && r.PrepTimeMinutes == nil && r.CookTimeMinutes == nil &&
		r.Servings == nil && r.Calories == nil && r.Rating == nil &&
		r.Ingredients == nil && r.Steps == nil && r.StepsBeginner == nil &&
		r.StepsAdvanced == nil && r.ImageURL == nil && r.IngredientsImage == nil &&
		r.StepImageURLs == nil && r.ValidationStatus == nil && r.DataQualityScore == nil
}

// StatsResponse carries the aggregate recipe counters for the admin panel.
type StatsResponse struct {
	TotalRecipes           int64 `json:"total_recipes"`
	CompleteRecipes        int64 `json:"complete_recipes"`
	MissingMainImage       int64 `json:"missing_main_image"`
	MissingIngredientsImg  int64 `json:"missing_ingredients_image"`
	MissingStepImages      int64 `json:"missing_step_images"`
	MissingSteps           int64 `json:"missing_steps"`
	PendingValidation      int64 `json:"pending_validation"`
	Validated              int64 `json:"validated"`
	NeedsFixing            int64 `json:"needs_fixing"`
}

// RecommendRequest is the consumer preferences payload.
type RecommendRequest struct {
	Query       string   `json:"query" binding:"required"`
	Regions     []string `json:"regions"`
	Difficulty  string   `json:"difficulty"`
	MaxCalories float64  `json:"max_calories"`
	Limit       int      `json:"limit"`
}

// RecommendResponse is a ranked set of recipes plus a short reply line for
// the chat flow.
type RecommendResponse struct {
	Reply   string          `json:"reply"`
	Recipes []models.Recipe `json:"recipes"`
}
