package client

import "github.com/rasoihub/recipeops/internal/models"

// DefaultPlaceholderImage is shown wherever a recipe image is missing or
// failed to load.
const DefaultPlaceholderImage = "https://static.recipeops.dev/placeholder-recipe.png"

// DisplayImageURL returns the recipe's main image, falling back to the
// placeholder when none has been generated yet.
func DisplayImageURL(r *models.Recipe) string {
	if r == nil || r.ImageURL == "" {
		return DefaultPlaceholderImage
	}
	return r.ImageURL
}

// DisplayStepImageURL returns the image for step i (zero based), falling
// back to the placeholder for steps without one.
func DisplayStepImageURL(r *models.Recipe, i int) string {
	if r == nil || i < 0 || i >= len(r.StepImageURLs) || r.StepImageURLs[i] == "" {
		return DefaultPlaceholderImage
	}
	return r.StepImageURLs[i]
}
