package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotOperator string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotOperator = r.Header.Get(OperatorHeader)
		json.NewEncoder(w).Encode(types.StatsResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"), WithOperatorEmail("ops@example.com"))
	_, err := c.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "ops@example.com", gotOperator)
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cook@example.com", body["email"])
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	token, err := c.Login(context.Background(), "cook@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, "fresh-token", c.Token())
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "job already reached a terminal status"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.CancelJob(context.Background(), uuid.New())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "terminal")
}

func TestUpdateRecipeSendsOnlySetFields(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(models.Recipe{Name: "Renamed"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	name := "Renamed"
	_, err := c.UpdateRecipe(context.Background(), uuid.New(), &types.UpdateRecipeRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"name": "Renamed"}, body)
}

func TestDisplayImageFallback(t *testing.T) {
	assert.Equal(t, DefaultPlaceholderImage, DisplayImageURL(nil))
	assert.Equal(t, DefaultPlaceholderImage, DisplayImageURL(&models.Recipe{}))
	assert.Equal(t, "https://img/x.png", DisplayImageURL(&models.Recipe{ImageURL: "https://img/x.png"}))

	r := &models.Recipe{StepImageURLs: models.JSONBStringArray{"https://img/1.png"}}
	assert.Equal(t, "https://img/1.png", DisplayStepImageURL(r, 0))
	assert.Equal(t, DefaultPlaceholderImage, DisplayStepImageURL(r, 1))
	assert.Equal(t, DefaultPlaceholderImage, DisplayStepImageURL(r, -1))
}
