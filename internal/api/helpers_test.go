package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/rasoihub/recipeops/internal/api"
	"github.com/rasoihub/recipeops/internal/middleware"
	"github.com/rasoihub/recipeops/internal/models"
	"github.com/rasoihub/recipeops/internal/router"
	"github.com/rasoihub/recipeops/internal/service"
	"github.com/rasoihub/recipeops/internal/testhelpers"
)

const (
	testOperatorEmail = "ops@example.com"
	testPassword      = "password123"
)

type apiHarness struct {
	engine     *gin.Engine
	db         *gorm.DB
	generation *service.GenerationService
	adminToken string
}

type stubImages struct{}

func (s *stubImages) GenerateMainImage(ctx context.Context, recipe *models.Recipe) (string, error) {
	return "https://images.test/main.png", nil
}

func (s *stubImages) GenerateIngredientsImage(ctx context.Context, recipe *models.Recipe) (string, error) {
	return "https://images.test/ingredients.png", nil
}

func (s *stubImages) GenerateStepImage(ctx context.Context, recipe *models.Recipe, stepIndex int) (string, error) {
	return fmt.Sprintf("https://images.test/step-%d.png", stepIndex+1), nil
}

type stubText struct{}

func (s *stubText) GenerateSteps(ctx context.Context, recipe *models.Recipe) ([]string, []string, []string, error) {
	return []string{"Prepare", "Cook"}, []string{"Prepare slowly", "Cook carefully"}, []string{"Mise en place", "Cook"}, nil
}

func (s *stubText) GenerateIngredients(ctx context.Context, recipe *models.Recipe) (models.IngredientList, error) {
	return models.IngredientList{{Name: "onion", Quantity: "1", Unit: ""}}, nil
}

func setupAPI(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	authService := service.NewAuthService(db, "test-secret")
	recipeService := service.NewRecipeService(db, nil)
	recommendService := service.NewRecommendService(db)
	generationService := service.NewGenerationService(db, recipeService, &stubImages{}, &stubText{})
	generationService.SetRateLimit(rate.Inf, 1)
	t.Cleanup(generationService.Shutdown)

	engine := router.SetupRouter(db,
		api.NewAuthHandler(authService),
		api.NewRecipeAdminHandler(recipeService),
		api.NewGenerationHandler(generationService),
		api.NewRecommendHandler(recommendService),
		authService, nil)

	testhelpers.CreateUser(t, db, testOperatorEmail, testPassword, true)
	token, err := authService.Login(context.Background(), testOperatorEmail, testPassword)
	require.NoError(t, err)

	return &apiHarness{
		engine:     engine,
		db:         db,
		generation: generationService,
		adminToken: token,
	}
}

// adminRequest performs a request carrying both the bearer token and the
// operator email header.
func (h *apiHarness) adminRequest(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+h.adminToken)
	req.Header.Set(middleware.OperatorHeader, testOperatorEmail)

	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
