package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/rasoihub/recipeops/config"
	"github.com/rasoihub/recipeops/internal/models"
)

// ImageGenerationRequest represents a request to the images API
type ImageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

// ImageGenerationResponse represents the response from the images API
type ImageGenerationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url,omitempty"`
		B64JSON       string `json:"b64_json,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// ImageService generates recipe imagery and stores it in S3.
type ImageService struct {
	apiKey   string
	apiURL   string
	s3Config *config.S3Config
	client   *http.Client
}

// NewImageService creates a new ImageService instance
func NewImageService(cfg *config.Config, s3Config *config.S3Config) (*ImageService, error) {
	if cfg.GenerationAPIKey == "" {
		return nil, fmt.Errorf("generation API key must be set")
	}

	return &ImageService{
		apiKey:   cfg.GenerationAPIKey,
		apiURL:   cfg.ImagesAPIURL,
		s3Config: s3Config,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// GenerateMainImage generates the hero image for a recipe.
func (s *ImageService) GenerateMainImage(ctx context.Context, recipe *models.Recipe) (string, error) {
	prompt := s.buildDishPrompt(recipe)
	log.Printf("[ImageService] Generating main image for recipe '%s'", recipe.Name)
	return s.generateWithRetry(ctx, prompt, "1024x1024")
}

// GenerateIngredientsImage generates a flat-lay shot of the raw ingredients.
func (s *ImageService) GenerateIngredientsImage(ctx context.Context, recipe *models.Recipe) (string, error) {
	names := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		names = append(names, strings.ToLower(ing.Name))
	}
	prompt := fmt.Sprintf(
		"A top-down flat lay photograph of the raw ingredients for %s: %s, arranged on a rustic kitchen counter, natural lighting, high resolution",
		strings.ToLower(recipe.Name), strings.Join(names, ", "))
	log.Printf("[ImageService] Generating ingredients image for recipe '%s'", recipe.Name)
	return s.generateWithRetry(ctx, prompt, "1024x1024")
}

// GenerateStepImage generates an illustration for one cooking step.
func (s *ImageService) GenerateStepImage(ctx context.Context, recipe *models.Recipe, stepIndex int) (string, error) {
	if stepIndex < 0 || stepIndex >= len(recipe.Steps) {
		return "", fmt.Errorf("step index %d out of range for recipe %s", stepIndex, recipe.Name)
	}
	prompt := fmt.Sprintf(
		"A clear instructional cooking photograph for preparing %s, showing this step: %s. Kitchen setting, natural lighting, no text overlay",
		strings.ToLower(recipe.Name), recipe.Steps[stepIndex])
	log.Printf("[ImageService] Generating step %d image for recipe '%s'", stepIndex+1, recipe.Name)
	return s.generateWithRetry(ctx, prompt, "1024x1024")
}

// generateWithRetry performs up to three generation attempts.
func (s *ImageService) generateWithRetry(ctx context.Context, prompt string, size string) (string, error) {
	const maxRetries = 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		imageURL, err := s.generateImageAttempt(ctx, prompt, size)
		if err != nil {
			log.Printf("[ImageService] Attempt %d/%d failed: %v", attempt, maxRetries, err)
			if attempt == maxRetries {
				return "", fmt.Errorf("failed to generate image after %d attempts: %w", maxRetries, err)
			}
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			continue
		}
		return imageURL, nil
	}

	return "", fmt.Errorf("failed to generate image after %d attempts", maxRetries)
}

// generateImageAttempt performs a single image generation attempt
func (s *ImageService) generateImageAttempt(ctx context.Context, prompt string, size string) (string, error) {
	reqBody := ImageGenerationRequest{
		Model:          "dall-e-3",
		Prompt:         prompt,
		N:              1,
		Size:           size,
		Quality:        "standard", // Use standard quality to control costs
		ResponseFormat: "url",
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

	var result ImageGenerationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Data) == 0 {
		return "", fmt.Errorf("no image data in API response")
	}

	imageURL := result.Data[0].URL
	if imageURL == "" {
		return "", fmt.Errorf("empty image URL in API response")
	}

	// Download the image and upload to S3
	s3URL, err := s.downloadAndUploadToS3(ctx, imageURL)
	if err != nil {
		log.Printf("[ImageService] Failed to upload to S3, returning original URL: %v", err)
		// Return the original URL as fallback
		return imageURL, nil
	}

	return s3URL, nil
}

// downloadAndUploadToS3 downloads an image from URL and uploads it to S3
func (s *ImageService) downloadAndUploadToS3(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	fileName := fmt.Sprintf("recipe-images/%s.png", uuid.New().String())
	return s.UploadImageToS3(ctx, imageData, fileName)
}

// UploadImageToS3 uploads image data to S3 and returns the public URL
func (s *ImageService) UploadImageToS3(ctx context.Context, imageData []byte, fileName string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	// Private buckets serve assets through expiring signed URLs.
	if s.s3Config.PrivateBucket {
		signedURL, err := s.s3Config.GeneratePresignedURL(ctx, fileName, 7*24*time.Hour)
		if err != nil {
			return "", fmt.Errorf("failed to presign object URL: %w", err)
		}
		log.Printf("[ImageService] Uploaded image to private bucket: %s", fileName)
		return signedURL, nil
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)

	return publicURL, nil
}

// buildDishPrompt creates a detailed prompt for the hero shot.
func (s *ImageService) buildDishPrompt(recipe *models.Recipe) string {
	basePrompt := "A professional food photography shot of "

	description := strings.ToLower(recipe.Name)
	if recipe.Description != "" {
		description += ", " + strings.ToLower(recipe.Description)
	}

	regionStyle := ""
	switch recipe.Region {
	case models.RegionNorthIndian:
		regionStyle = ", North Indian cuisine, served in traditional copper ware"
	case models.RegionSouthIndian:
		regionStyle = ", South Indian cuisine, served on a banana leaf"
	case models.RegionEastIndian:
		regionStyle = ", East Indian cuisine"
	case models.RegionWestIndian:
		regionStyle = ", West Indian cuisine"
	case models.RegionInternational:
		regionStyle = ", elegantly plated"
	}

	stylePrompt := ", shot with natural lighting, shallow depth of field, garnished beautifully, restaurant quality presentation, high resolution, appetizing colors"

	fullPrompt := basePrompt + description + regionStyle + stylePrompt

	// Keep the prompt inside typical API limits
	if len(fullPrompt) > 900 {
		fullPrompt = fullPrompt[:900]
	}

	return fullPrompt
}
