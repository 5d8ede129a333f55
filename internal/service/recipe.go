package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

const statsCacheKey = "recipeops:stats"
const statsCacheTTL = 30 * time.Second

// RecipeService handles recipe operations
type RecipeService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewRecipeService creates a new RecipeService instance. The redis client is
// optional; without it stats are computed on every call.
func NewRecipeService(db *gorm.DB, redisClient *redis.Client) *RecipeService {
	return &RecipeService{
		db:    db,
		redis: redisClient,
	}
}

// NormalizePageLimit clamps paging parameters to the supported window.
// Handlers echo the normalized values so clients page against the limit
// actually applied, not the one they asked for.
func NormalizePageLimit(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// ListRecipes returns one page of recipes ordered by name, optionally
// filtered by validation status.
func (s *RecipeService) ListRecipes(ctx context.Context, page, limit int, status string) ([]models.Recipe, error) {
	page, limit = NormalizePageLimit(page, limit)

	query := s.db.WithContext(ctx).Order("name ASC")
	if status != "" {
		query = query.Where("validation_status = ?", status)
	}

	var recipes []models.Recipe
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchRecipes searches recipes by name. On Postgres results are ordered by
// embedding distance to the query; elsewhere a keyword match is used.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error) {
	var recipes []models.Recipe

	dbQuery := s.db.WithContext(ctx)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			dbQuery = dbQuery.
				Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
				Clauses(clause.OrderBy{
					Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
				})
		} else {
			dbQuery = dbQuery.
				Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
				Order("name ASC")
		}
	}

	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetRecipeByName retrieves a recipe by exact name, case-insensitively.
func (s *RecipeService) GetRecipeByName(ctx context.Context, name string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipeFields applies a partial update: only fields present in the
// request are written. Last write wins; there is no version check.
func (s *RecipeService) UpdateRecipeFields(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	if req.Empty() {
		return s.GetRecipe(ctx, id)
	}

	updates := map[string]interface{}{}
	textChanged := false

	if req.Name != nil {
		updates["name"] = *req.Name
		textChanged = true
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		textChanged = true
	}
	if req.Region != nil {
		updates["region"] = *req.Region
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.PrepTimeMinutes != nil {
		updates["prep_time_minutes"] = *req.PrepTimeMinutes
	}
	if req.CookTimeMinutes != nil {
		updates["cook_time_minutes"] = *req.CookTimeMinutes
	}
	if req.Servings != nil {
		updates["servings"] = *req.Servings
	}
	if req.Calories != nil {
		updates["calories"] = *req.Calories
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Ingredients != nil {
		updates["ingredients"] = *req.Ingredients
	}
	if req.Steps != nil {
		updates["steps"] = models.JSONBStringArray(*req.Steps)
	}
	if req.StepsBeginner != nil {
		updates["steps_beginner"] = models.JSONBStringArray(*req.StepsBeginner)
	}
	if req.StepsAdvanced != nil {
		updates["steps_advanced"] = models.JSONBStringArray(*req.StepsAdvanced)
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IngredientsImage != nil {
		updates["ingredients_image"] = *req.IngredientsImage
	}
	if req.StepImageURLs != nil {
		updates["step_image_urls"] = models.JSONBStringArray(*req.StepImageURLs)
	}
	if req.ValidationStatus != nil {
		updates["validation_status"] = *req.ValidationStatus
	}
	if req.DataQualityScore != nil {
		updates["data_quality_score"] = *req.DataQualityScore
	}

	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	return recipe, s.RefreshDerived(ctx, recipe, textChanged)
}

// RefreshDerived recomputes quality score, completeness and (when the name
// or description changed) the embedding, then persists them.
func (s *RecipeService) RefreshDerived(ctx context.Context, recipe *models.Recipe, textChanged bool) error {
	recipe.DataQualityScore = recipe.QualityScore()
	recipe.IsComplete = recipe.Complete()

	updates := map[string]interface{}{
		"data_quality_score": recipe.DataQualityScore,
		"is_complete":        recipe.IsComplete,
	}
	if textChanged {
		recipe.Embedding = GenerateEmbedding(recipe.Name + " " + recipe.Description)
		updates["embedding"] = recipe.Embedding
	}

	s.invalidateStats(ctx)
	return s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error
}

// Stats returns the aggregate recipe counters, cached briefly in Redis.
func (s *RecipeService) Stats(ctx context.Context) (*types.StatsResponse, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var stats types.StatsResponse
			if json.Unmarshal(cached, &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats := &types.StatsResponse{}
	model := s.db.WithContext(ctx).Model(&models.Recipe{})

	counts := []struct {
		dest  *int64
		where string
		args  []interface{}
	}{
		{&stats.TotalRecipes, "", nil},
		{&stats.CompleteRecipes, "is_complete = ?", []interface{}{true}},
		{&stats.MissingMainImage, "image_url = '' OR image_url IS NULL", nil},
		{&stats.MissingIngredientsImg, "ingredients_image = '' OR ingredients_image IS NULL", nil},
		{&stats.MissingStepImages, "step_image_urls = '[]' OR step_image_urls IS NULL", nil},
		{&stats.MissingSteps, "steps = '[]' OR steps IS NULL", nil},
		{&stats.PendingValidation, "validation_status = ?", []interface{}{models.ValidationPending}},
		{&stats.Validated, "validation_status = ?", []interface{}{models.ValidationValidated}},
		{&stats.NeedsFixing, "validation_status = ?", []interface{}{models.ValidationNeedsFixing}},
	}

	for _, c := range counts {
		q := model.Session(&gorm.Session{})
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if s.redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.redis.Set(ctx, statsCacheKey, data, statsCacheTTL)
		}
	}

	return stats, nil
}

func (s *RecipeService) invalidateStats(ctx context.Context) {
	if s.redis != nil {
		s.redis.Del(ctx, statsCacheKey)
	}
}
