package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rasoihub/recipeops/internal/models"
)

// RecipeOpt mutates a fixture recipe before it is saved.
type RecipeOpt func(*models.Recipe)

// CreateRecipe inserts a recipe fixture. The default recipe is incomplete
// (no images, pending validation); opts adjust it.
func CreateRecipe(t *testing.T, db *gorm.DB, name string, opts ...RecipeOpt) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		ID:          uuid.New(),
		Name:        name,
		Description: "A test recipe",
		Region:      models.RegionNorthIndian,
		Difficulty:  models.DifficultyEasy,
		Servings:    4,
		Ingredients: models.IngredientList{
			{Name: "salt", Quantity: "1", Unit: "teaspoon"},
		},
		Steps:            models.JSONBStringArray{"Cook it"},
		ValidationStatus: models.ValidationPending,
	}
	for _, opt := range opts {
		opt(recipe)
	}

	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe fixture: %v", err)
	}
	return recipe
}

// Complete fills in every generated asset so the recipe counts as complete.
func Complete() RecipeOpt {
	return func(r *models.Recipe) {
		r.ImageURL = "https://images.test/main.png"
		r.IngredientsImage = "https://images.test/ingredients.png"
		r.StepImageURLs = make(models.JSONBStringArray, len(r.Steps))
		for i := range r.StepImageURLs {
			r.StepImageURLs[i] = "https://images.test/step.png"
		}
		r.IsComplete = true
		r.ValidationStatus = models.ValidationValidated
		r.DataQualityScore = r.QualityScore()
	}
}

// WithStatus sets the validation status.
func WithStatus(status string) RecipeOpt {
	return func(r *models.Recipe) { r.ValidationStatus = status }
}

// WithRegion sets the region.
func WithRegion(region string) RecipeOpt {
	return func(r *models.Recipe) { r.Region = region }
}

// WithCalories sets the calories.
func WithCalories(calories float64) RecipeOpt {
	return func(r *models.Recipe) { r.Calories = calories }
}

// CreateUser inserts a user fixture with the given password.
func CreateUser(t *testing.T, db *gorm.DB, email, password string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user fixture: %v", err)
	}
	return user
}

// CreateJob inserts a generation job fixture in the given status.
func CreateJob(t *testing.T, db *gorm.DB, status models.JobStatus) *models.GenerationJob {
	t.Helper()

	job := &models.GenerationJob{
		ID:           uuid.New(),
		JobType:      models.JobTypeSpecific,
		Status:       status,
		FixMainImage: true,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("failed to create job fixture: %v", err)
	}
	return job
}
