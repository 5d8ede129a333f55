package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/rasoihub/recipeops/internal/middleware"
	"github.com/rasoihub/recipeops/internal/testhelpers"
)

func operatorTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", middleware.RequireOperator(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": c.GetString("operator_email")})
	})
	return r
}

func TestRequireOperatorMissingHeader(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	r := operatorTestRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOperatorUnknownEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	r := operatorTestRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(middleware.OperatorHeader, "stranger@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOperatorNonAdminRejected(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.CreateUser(t, db, "user@example.com", "password123", false)
	r := operatorTestRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(middleware.OperatorHeader, "user@example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOperatorAdminAllowed(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.CreateUser(t, db, "ops@example.com", "password123", true)
	r := operatorTestRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(middleware.OperatorHeader, "Ops@Example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops@example.com")
}
