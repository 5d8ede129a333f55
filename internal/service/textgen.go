package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rasoihub/recipeops/config"
	"github.com/rasoihub/recipeops/internal/models"
)

// Message represents a chat message sent to the text API
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request payload for the chat-completions API
type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
}

// chatResponse is the subset of the chat-completions response we read
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// TextService generates step and ingredient text through a chat-completions
// style API.
type TextService struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewTextService creates a new TextService instance
func NewTextService(cfg *config.Config) (*TextService, error) {
	if cfg.GenerationAPIKey == "" {
		return nil, fmt.Errorf("generation API key must be set")
	}

	return &TextService{
		apiKey: cfg.GenerationAPIKey,
		apiURL: cfg.ChatAPIURL,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
	}, nil
}

// stepsPayload is the JSON object the model is instructed to return for
// step generation.
type stepsPayload struct {
	Steps         []string `json:"steps"`
	StepsBeginner []string `json:"steps_beginner"`
	StepsAdvanced []string `json:"steps_advanced"`
}

// GenerateSteps produces the three step lists for a recipe.
func (s *TextService) GenerateSteps(ctx context.Context, recipe *models.Recipe) ([]string, []string, []string, error) {
	ingredients := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, fmt.Sprintf("%s %s %s", ing.Quantity, ing.Unit, ing.Name))
	}

	messages := []Message{
		{
			Role: "system",
			Content: `You are a professional chef writing cooking instructions. Respond in JSON with this structure:
{
    "steps": ["ordered list of standard cooking steps"],
    "steps_beginner": ["the same process, with extra guidance for novice cooks"],
    "steps_advanced": ["a terse version for experienced cooks"]
}
Each list must be ordered and non-empty.`,
		},
		{
			Role: "user",
			Content: fmt.Sprintf("Write cooking steps for: %s\nDescription: %s\nRegion: %s\nDifficulty: %s\nIngredients:\n%s",
				recipe.Name, recipe.Description, recipe.Region, recipe.Difficulty, strings.Join(ingredients, "\n")),
		},
	}

	content, err := s.call(ctx, messages)
	if err != nil {
		return nil, nil, nil, err
	}

	var payload stepsPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse steps response: %w", err)
	}
	if len(payload.Steps) == 0 {
		return nil, nil, nil, fmt.Errorf("model returned no steps for %s", recipe.Name)
	}

	return payload.Steps, payload.StepsBeginner, payload.StepsAdvanced, nil
}

// ingredientsPayload is the JSON object the model returns for ingredient
// normalization.
type ingredientsPayload struct {
	Ingredients []models.Ingredient `json:"ingredients"`
}

// GenerateIngredients produces a normalized ingredient list for a recipe.
func (s *TextService) GenerateIngredients(ctx context.Context, recipe *models.Recipe) (models.IngredientList, error) {
	messages := []Message{
		{
			Role: "system",
			Content: `You are a professional chef. Respond in JSON with this structure:
{
    "ingredients": [
        {"name": "basmati rice", "quantity": "2", "unit": "cups"},
        {"name": "ghee", "quantity": "1", "unit": "tablespoon"}
    ]
}
Quantities are strings; unit may be empty for countable items.`,
		},
		{
			Role: "user",
			Content: fmt.Sprintf("List the ingredients for %s (%s, serves %d): %s",
				recipe.Name, recipe.Region, recipe.Servings, recipe.Description),
		},
	}

	content, err := s.call(ctx, messages)
	if err != nil {
		return nil, err
	}

	var payload ingredientsPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse ingredients response: %w", err)
	}
	if len(payload.Ingredients) == 0 {
		return nil, fmt.Errorf("model returned no ingredients for %s", recipe.Name)
	}

	return payload.Ingredients, nil
}

// call sends one chat request and returns the first choice's content.
func (s *TextService) call(ctx context.Context, messages []Message) (string, error) {
	reqBody := chatRequest{
		Model:          "gpt-4o-mini",
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}

	return result.Choices[0].Message.Content, nil
}
