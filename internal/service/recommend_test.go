package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/service"
	"github.com/rasoihub/recipeops/internal/testhelpers"
	"github.com/rasoihub/recipeops/internal/types"
)

func TestRecommendOnlyCompleteRecipes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecommendService(db)

	testhelpers.CreateRecipe(t, db, "Butter Chicken", testhelpers.Complete())
	testhelpers.CreateRecipe(t, db, "Butter Paneer")

	resp, err := svc.Recommend(context.Background(), &types.RecommendRequest{Query: "butter"})
	require.NoError(t, err)
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "Butter Chicken", resp.Recipes[0].Name)
	assert.Equal(t, "Based on your preferences, try Butter Chicken.", resp.Reply)
}

func TestRecommendFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecommendService(db)
	ctx := context.Background()

	testhelpers.CreateRecipe(t, db, "Light Dosa",
		testhelpers.Complete(),
		testhelpers.WithRegion(models.RegionSouthIndian),
		testhelpers.WithCalories(300))
	testhelpers.CreateRecipe(t, db, "Rich Dosa",
		testhelpers.Complete(),
		testhelpers.WithRegion(models.RegionSouthIndian),
		testhelpers.WithCalories(800))
	testhelpers.CreateRecipe(t, db, "Northern Dosa",
		testhelpers.Complete(),
		testhelpers.WithRegion(models.RegionNorthIndian),
		testhelpers.WithCalories(300))

	resp, err := svc.Recommend(ctx, &types.RecommendRequest{
		Query:       "dosa",
		Regions:     []string{models.RegionSouthIndian},
		MaxCalories: 500,
	})
	require.NoError(t, err)
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "Light Dosa", resp.Recipes[0].Name)
}

func TestRecommendNoMatch(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecommendService(db)

	resp, err := svc.Recommend(context.Background(), &types.RecommendRequest{Query: "unicorn stew"})
	require.NoError(t, err)
	assert.Empty(t, resp.Recipes)
	assert.Contains(t, resp.Reply, "couldn't find")
}
