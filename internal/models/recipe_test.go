package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityScore(t *testing.T) {
	t.Run("empty recipe scores zero", func(t *testing.T) {
		r := &Recipe{}
		assert.Equal(t, 0, r.QualityScore())
	})

	t.Run("full recipe scores 100", func(t *testing.T) {
		r := &Recipe{
			ImageURL:         "https://img/main.png",
			IngredientsImage: "https://img/ing.png",
			Ingredients:      IngredientList{{Name: "salt"}},
			Steps:            JSONBStringArray{"a", "b"},
			StepsBeginner:    JSONBStringArray{"a"},
			StepsAdvanced:    JSONBStringArray{"a"},
			StepImageURLs:    JSONBStringArray{"1", "2"},
		}
		assert.Equal(t, 100, r.QualityScore())
	})

	t.Run("missing step images lowers the score", func(t *testing.T) {
		r := &Recipe{
			ImageURL:         "https://img/main.png",
			IngredientsImage: "https://img/ing.png",
			Ingredients:      IngredientList{{Name: "salt"}},
			Steps:            JSONBStringArray{"a", "b", "c"},
			StepImageURLs:    JSONBStringArray{"1"},
		}
		// Fewer step images than steps earns no step-image credit.
		assert.Equal(t, 70, r.QualityScore())
	})
}

func TestComplete(t *testing.T) {
	r := &Recipe{
		ImageURL:         "https://img/main.png",
		IngredientsImage: "https://img/ing.png",
		Ingredients:      IngredientList{{Name: "salt"}},
		Steps:            JSONBStringArray{"a"},
		StepImageURLs:    JSONBStringArray{"1"},
	}
	assert.True(t, r.Complete())

	r.ImageURL = ""
	assert.False(t, r.Complete())
}

func TestIngredientListRoundTrip(t *testing.T) {
	list := IngredientList{
		{Name: "chicken", Quantity: "500", Unit: "grams"},
		{Name: "butter", Quantity: "3", Unit: "tablespoons"},
	}

	value, err := list.Value()
	assert.NoError(t, err)

	var decoded IngredientList
	assert.NoError(t, decoded.Scan(value))
	assert.Equal(t, list, decoded)
}

func TestEmptyIngredientListStoresEmptyArray(t *testing.T) {
	var list IngredientList
	value, err := list.Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", value)
}
