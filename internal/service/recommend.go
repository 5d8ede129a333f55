package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/types"
)

// RecommendService ranks recipes against a consumer's stated preferences.
type RecommendService struct {
	db *gorm.DB
}

// NewRecommendService creates a new RecommendService instance
func NewRecommendService(db *gorm.DB) *RecommendService {
	return &RecommendService{db: db}
}

// Recommend returns recipes matching the request, ordered by relevance to
// the free-text query, plus a one-line reply for the chat flow.
func (s *RecommendService) Recommend(ctx context.Context, req *types.RecommendRequest) (*types.RecommendResponse, error) {
	limit := req.Limit
	if limit < 1 || limit > 20 {
		limit = 5
	}

	query := s.db.WithContext(ctx).Where("is_complete = ?", true)

	if len(req.Regions) > 0 {
		query = query.Where("region IN ?", req.Regions)
	}
	if req.Difficulty != "" {
		query = query.Where("difficulty = ?", req.Difficulty)
	}
	if req.MaxCalories > 0 {
		query = query.Where("calories > 0 AND calories <= ?", req.MaxCalories)
	}

	if s.db.Dialector.Name() == "postgres" {
		vec := GenerateEmbedding(req.Query)
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	} else {
		like := "%" + strings.ToLower(req.Query) + "%"
		query = query.
			Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
			Order("rating DESC")
	}

	var recipes []models.Recipe
	if err := query.Limit(limit).Find(&recipes).Error; err != nil {
		return nil, err
	}

	reply := "I couldn't find a recipe matching that. Try loosening your preferences."
	if len(recipes) > 0 {
		reply = fmt.Sprintf("Based on your preferences, try %s.", recipes[0].Name)
	}

	return &types.RecommendResponse{
		Reply:   reply,
		Recipes: recipes,
	}, nil
}
