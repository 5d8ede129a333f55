package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// ImageGenerator produces hosted image URLs for recipe assets. The real
// implementation calls an images API and uploads to S3; tests stub it.
type ImageGenerator interface {
	GenerateMainImage(ctx context.Context, recipe *models.Recipe) (string, error)
	GenerateIngredientsImage(ctx context.Context, recipe *models.Recipe) (string, error)
	GenerateStepImage(ctx context.Context, recipe *models.Recipe, stepIndex int) (string, error)
}

// TextGenerator produces step and ingredient text for a recipe.
type TextGenerator interface {
	GenerateSteps(ctx context.Context, recipe *models.Recipe) (steps, beginner, advanced []string, err error)
	GenerateIngredients(ctx context.Context, recipe *models.Recipe) (models.IngredientList, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, page, limit int, status string) ([]models.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetRecipeByName(ctx context.Context, name string) (*models.Recipe, error)
	UpdateRecipeFields(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	Stats(ctx context.Context) (*types.StatsResponse, error)
}
