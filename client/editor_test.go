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
)

func TestEditorSaveWithoutChangesMakesNoCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(models.Recipe{})
	}))
	defer srv.Close()

	editor := NewEditor(New(srv.URL), uuid.New())
	assert.False(t, editor.Dirty())

	recipe, err := editor.Save(context.Background())
	require.NoError(t, err)
	assert.Nil(t, recipe)
	assert.Zero(t, calls)
}

func TestEditorSaveSendsOnlyTouchedFields(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(models.Recipe{Name: "Renamed", Servings: 8})
	}))
	defer srv.Close()

	editor := NewEditor(New(srv.URL), uuid.New())
	editor.SetName("Renamed").SetServings(8)
	assert.True(t, editor.Dirty())

	recipe, err := editor.Save(context.Background())
	require.NoError(t, err)
	require.NotNil(t, recipe)

	assert.Equal(t, map[string]interface{}{
		"name":     "Renamed",
		"servings": float64(8),
	}, body)

	// Pending edits are cleared; a second Save is a no-op.
	assert.False(t, editor.Dirty())
}

func TestEditorZeroValuesAreSent(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(models.Recipe{})
	}))
	defer srv.Close()

	editor := NewEditor(New(srv.URL), uuid.New())
	editor.SetCalories(0).SetDescription("")

	_, err := editor.Save(context.Background())
	require.NoError(t, err)

	// Explicitly set zero values still travel; absence means untouched.
	assert.Equal(t, map[string]interface{}{
		"calories":    float64(0),
		"description": "",
	}, body)
}
