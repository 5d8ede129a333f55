package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rasoihub/recipeops/internal/api"
	"github.com/rasoihub/recipeops/internal/database"
	"github.com/rasoihub/recipeops/internal/middleware"
	"github.com/rasoihub/recipeops/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(
	db *gorm.DB,
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeAdminHandler,
	generationHandler *api.GenerationHandler,
	recommendHandler *api.RecommendHandler,
	authService service.IAuthService,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	// Liveness probe for deploy tooling; reports unhealthy when the
	// database connection is gone.
	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)

	// Consumer routes need only a valid token
	consumer := v1.Group("")
	consumer.Use(middleware.AuthMiddleware(authService))
	recommendHandler.RegisterRoutes(consumer)

	// Admin routes additionally require the operator email header
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authService), middleware.RequireOperator(db))
	{
		recipeHandler.RegisterRoutes(admin)

		if rateLimiter != nil {
			generationHandler.RegisterRoutes(admin, rateLimiter.RateLimitMiddleware())
		} else {
			generationHandler.RegisterRoutes(admin)
		}
	}

	return router
}
