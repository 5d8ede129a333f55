package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/service"
	"github.com/rasoihub/recipeops/internal/testhelpers"
	"github.com/rasoihub/recipeops/internal/types"
)

func TestListRecipesPagination(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		testhelpers.CreateRecipe(t, db, fmt.Sprintf("Recipe %02d", i))
	}

	page1, err := svc.ListRecipes(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Len(t, page1, 10)

	page2, err := svc.ListRecipes(ctx, 2, 10, "")
	require.NoError(t, err)
	assert.Len(t, page2, 10)

	// Pages are ordered by name and do not overlap.
	assert.Less(t, page1[9].Name, page2[0].Name)

	page3, err := svc.ListRecipes(ctx, 3, 10, "")
	require.NoError(t, err)
	assert.Len(t, page3, 5)

	page4, err := svc.ListRecipes(ctx, 4, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page4)
}

func TestListRecipesClampsBadInput(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	testhelpers.CreateRecipe(t, db, "Solo")

	recipes, err := svc.ListRecipes(context.Background(), -3, 0, "")
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestListRecipesStatusFilter(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	testhelpers.CreateRecipe(t, db, "Pending One")
	testhelpers.CreateRecipe(t, db, "Fix Me", testhelpers.WithStatus(models.ValidationNeedsFixing))
	testhelpers.CreateRecipe(t, db, "Done", testhelpers.WithStatus(models.ValidationValidated))

	recipes, err := svc.ListRecipes(context.Background(), 1, 20, models.ValidationNeedsFixing)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Fix Me", recipes[0].Name)
}

func TestSearchRecipes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	testhelpers.CreateRecipe(t, db, "Butter Chicken")
	testhelpers.CreateRecipe(t, db, "Masala Dosa")

	recipes, err := svc.SearchRecipes(context.Background(), "butter")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Butter Chicken", recipes[0].Name)
}

func TestGetRecipeByNameIsCaseInsensitive(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	created := testhelpers.CreateRecipe(t, db, "Pav Bhaji")

	recipe, err := svc.GetRecipeByName(context.Background(), "pav bhaji")
	require.NoError(t, err)
	assert.Equal(t, created.ID, recipe.ID)
}

func TestUpdateRecipeFieldsPartial(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	created := testhelpers.CreateRecipe(t, db, "Original Name")
	created.Description = "Original description"
	require.NoError(t, db.Save(created).Error)

	newName := "Renamed"
	updated, err := svc.UpdateRecipeFields(ctx, created.ID, &types.UpdateRecipeRequest{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	// Fields not present in the request keep their values.
	assert.Equal(t, "Original description", updated.Description)
	assert.Equal(t, created.Servings, updated.Servings)
	assert.Equal(t, len(created.Steps), len(updated.Steps))
}

func TestUpdateRecipeFieldsEmptyRequestIsNoop(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	created := testhelpers.CreateRecipe(t, db, "Untouched")

	recipe, err := svc.UpdateRecipeFields(context.Background(), created.ID, &types.UpdateRecipeRequest{})
	require.NoError(t, err)
	assert.Equal(t, created.Name, recipe.Name)
	assert.Equal(t, created.UpdatedAt.Unix(), recipe.UpdatedAt.Unix())
}

func TestUpdateRecipeFieldsRefreshesDerived(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	created := testhelpers.CreateRecipe(t, db, "Almost Done")

	mainImage := "https://img/main.png"
	ingredientsImage := "https://img/ing.png"
	stepImages := []string{"https://img/step1.png"}
	updated, err := svc.UpdateRecipeFields(ctx, created.ID, &types.UpdateRecipeRequest{
		ImageURL:         &mainImage,
		IngredientsImage: &ingredientsImage,
		StepImageURLs:    &stepImages,
	})
	require.NoError(t, err)

	assert.True(t, updated.IsComplete)
	// Everything except beginner/advanced step variants is filled in.
	assert.Equal(t, 90, updated.DataQualityScore)
}

func TestStats(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)

	testhelpers.CreateRecipe(t, db, "Complete One", testhelpers.Complete())
	testhelpers.CreateRecipe(t, db, "Pending One")
	testhelpers.CreateRecipe(t, db, "Broken One", testhelpers.WithStatus(models.ValidationNeedsFixing))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalRecipes)
	assert.Equal(t, int64(1), stats.CompleteRecipes)
	assert.Equal(t, int64(2), stats.MissingMainImage)
	assert.Equal(t, int64(1), stats.PendingValidation)
	assert.Equal(t, int64(1), stats.Validated)
	assert.Equal(t, int64(1), stats.NeedsFixing)
}
