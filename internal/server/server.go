// Package server wires configuration, storage and handlers into a
// running HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/flavorcraft/backend/config"
	"github.com/flavorcraft/backend/internal/api"
	"github.com/flavorcraft/backend/internal/database"
	"github.com/flavorcraft/backend/internal/middleware"
	"github.com/flavorcraft/backend/internal/provider"
	"github.com/flavorcraft/backend/internal/router"
	"github.com/flavorcraft/backend/internal/service"
)

// Server owns the HTTP listener and its backing connections.
type Server struct {
	cfg   *config.Config
	http  *http.Server
	db    *gorm.DB
	redis *redis.Client
}

// New builds the full application: database, Redis, the provider chain
// and every handler, mounted on one router.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	// Chain order is cost order: the structured API first, the free
	// database second, the paid model third and static templates last.
	openAI := provider.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIAPIURL)
	templates := provider.NewTemplates()
	chain := provider.NewChain(
		[]provider.RecipeProvider{
			provider.NewSpoonacular(cfg.SpoonacularAPIKey),
			provider.NewMealDB(),
			openAI,
			templates,
		},
		[]provider.RecipeGenerator{openAI, templates},
	)
	resultCache := provider.NewResultCache(redisClient)

	var mediaStore service.ObjectStore
	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		// Media endpoints fail per-request instead of blocking startup.
		log.Printf("S3 unavailable, media uploads disabled: %v", err)
	} else {
		// Attachments are served by their public object URL, so the
		// bucket must allow anonymous reads.
		if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("could not apply media bucket policy: %v", err)
		}
		mediaStore = service.NewS3Store(s3cfg)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	pantryService := service.NewPantryService(db)
	savedService := service.NewSavedRecipeService(db, resultCache)
	mediaService := service.NewMediaService(db, mediaStore)

	genLimiter := middleware.NewGenerationRateLimiter(redisClient)

	handlers := router.Handlers{
		User:   api.NewUserHandler(authService, recipeService),
		Recipe: api.NewRecipeHandler(recipeService, pantryService, authService, chain, resultCache, genLimiter),
		Pantry: api.NewPantryHandler(pantryService, authService),
		Saved:  api.NewSavedRecipeHandler(savedService, authService),
		Media:  api.NewMediaHandler(mediaService, authService),
	}

	engine := router.SetupRouter(handlers, cfg.AllowedOrigins)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		db:    db,
		redis: redisClient,
	}, nil
}

// Start runs the listener until it fails or is shut down.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("closing database: %v", err)
		}
	}
	if err := s.redis.Close(); err != nil {
		log.Printf("closing redis: %v", err)
	}
	return nil
}
