package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

// pagingServer serves total recipes in pages of whatever limit the client
// asks for.
func pagingServer(t *testing.T, total int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		require.Positive(t, page)
		require.Positive(t, limit)

		start := (page - 1) * limit
		recipes := []models.Recipe{}
		for i := start; i < total && i < start+limit; i++ {
			recipes = append(recipes, models.Recipe{Name: fmt.Sprintf("Recipe %03d", i)})
		}
		json.NewEncoder(w).Encode(types.ListRecipesResponse{Recipes: recipes, Page: page, Limit: limit})
	}))
}

func TestPagerStopsOnShortPage(t *testing.T) {
	srv := pagingServer(t, 25)
	defer srv.Close()

	pager := NewPager(New(srv.URL), 10, "")
	ctx := context.Background()

	var all []models.Recipe
	pages := 0
	for pager.HasNext() {
		recipes, err := pager.Next(ctx)
		require.NoError(t, err)
		all = append(all, recipes...)
		pages++
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, all, 25)
	assert.False(t, pager.HasNext())

	// Next after exhaustion is a no-op.
	recipes, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestPagerExactlyFullFinalPage(t *testing.T) {
	srv := pagingServer(t, 20)
	defer srv.Close()

	pager := NewPager(New(srv.URL), 10, "")
	ctx := context.Background()

	page1, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, page1, 10)
	assert.True(t, pager.HasNext())

	page2, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, page2, 10)
	// Without a total count a full final page still reads as maybe-more;
	// the next fetch comes back empty and ends the walk.
	assert.True(t, pager.HasNext())

	page3, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Empty(t, page3)
	assert.False(t, pager.HasNext())
}

func TestPagerFollowsServerClampedLimit(t *testing.T) {
	// The server caps the page size at 20 and echoes the cap; the pager
	// must keep walking instead of reading the capped page as short.
	total := 25
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit > 20 {
			limit = 20
		}
		start := (page - 1) * limit
		recipes := []models.Recipe{}
		for i := start; i < total && i < start+limit; i++ {
			recipes = append(recipes, models.Recipe{Name: fmt.Sprintf("Recipe %03d", i)})
		}
		json.NewEncoder(w).Encode(types.ListRecipesResponse{Recipes: recipes, Page: page, Limit: limit})
	}))
	defer srv.Close()

	pager := NewPager(New(srv.URL), 150, "")
	ctx := context.Background()

	var all []models.Recipe
	for pager.HasNext() {
		recipes, err := pager.Next(ctx)
		require.NoError(t, err)
		all = append(all, recipes...)
	}
	assert.Len(t, all, 25)
}

func TestPagerReset(t *testing.T) {
	srv := pagingServer(t, 15)
	defer srv.Close()

	pager := NewPager(New(srv.URL), 10, "")
	ctx := context.Background()

	_, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pager.Page())

	pager.Reset()
	assert.Equal(t, 1, pager.Page())
	assert.True(t, pager.HasNext())

	first, err := pager.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 10)
}

func TestPagerPassesStatusFilter(t *testing.T) {
	var gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		json.NewEncoder(w).Encode(types.ListRecipesResponse{})
	}))
	defer srv.Close()

	pager := NewPager(New(srv.URL), 10, "needs_fixing")
	_, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "needs_fixing", gotStatus)
}
