package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/rasoihub/recipeops/config"
	"github.com/rasoihub/recipeops/internal/api"
	"github.com/rasoihub/recipeops/internal/database"
	"github.com/rasoihub/recipeops/internal/middleware"
	"github.com/rasoihub/recipeops/internal/router"
	"github.com/rasoihub/recipeops/internal/server"
	"github.com/rasoihub/recipeops/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional in development; without it stats are uncached and
	// generation endpoints are not rate limited.
	var rateLimiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
		redisClient = nil
	} else {
		rateLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    middleware.DefaultRateLimitWindow,
			Limit:     middleware.DefaultRateLimit,
			KeyPrefix: "recipeops:ratelimit",
		})
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, redisClient)
	recommendService := service.NewRecommendService(db)

	// Generation backends come up only when an API key is configured.
	var imageGen service.ImageGenerator
	var textGen service.TextGenerator
	if cfg.GenerationAPIKey != "" {
		s3Config, err := config.NewS3Config(context.Background())
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		imageService, err := service.NewImageService(cfg, s3Config)
		if err != nil {
			log.Fatalf("Failed to initialize image service: %v", err)
		}
		textService, err := service.NewTextService(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize text service: %v", err)
		}
		imageGen = imageService
		textGen = textService
	} else {
		log.Printf("No generation API key configured; generation jobs will fail until one is set")
	}

	generationService := service.NewGenerationService(db, recipeService, imageGen, textGen)

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeAdminHandler(recipeService)
	generationHandler := api.NewGenerationHandler(generationService)
	recommendHandler := api.NewRecommendHandler(recommendService)

	engine := router.SetupRouter(db, authHandler, recipeHandler, generationHandler, recommendHandler, authService, rateLimiter)
	srv := server.New(cfg, engine, generationService)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
