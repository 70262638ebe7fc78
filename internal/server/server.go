package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront-catalog/internal/cache"
	"storefront-catalog/internal/config"
	"storefront-catalog/internal/database"
	custommiddleware "storefront-catalog/internal/middleware"
	"storefront-catalog/internal/repository"
	"storefront-catalog/internal/service"
	"storefront-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *database.Service
	redisClient *redis.Client
	memoryStore *cache.MemoryStore
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, redisClient *redis.Client) *Server {
	s := &Server{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	// Health check endpoint
	router.Get("/health", s.health)

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db.DB())

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, service.NewURIComposer(cfg.Catalog.BaseURL), logger)
	cachedCatalogService := service.NewCachedCatalogService(catalogService, s.cacheStore(), service.CachedCatalogOptions{
		TTL:            cfg.Cache.TTL,
		KeyPrefix:      cfg.Cache.KeyPrefix,
		CollapseMisses: true,
	}, logger)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(cachedCatalogService, cfg.Catalog, logger)

	// Create rate limit middleware
	rateLimitMiddleware := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.Cache.KeyPrefix + "catalog-ratelimit",
	}, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router, rateLimitMiddleware)

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// cacheStore selects the catalog cache backend
func (s *Server) cacheStore() cache.Store {
	if s.config.Cache.Backend == config.CacheBackendRedis {
		s.logger.Info("Using redis catalog cache", zap.String("addr", s.redisClient.Options().Addr))
		return cache.NewRedisStore(s.redisClient)
	}

	s.logger.Info("Using in-memory catalog cache")
	s.memoryStore = cache.NewMemoryStore(true)
	return s.memoryStore
}

// health reports 503 only when the database is down; a missing redis
// degrades caching and rate limiting but leaves the catalog usable
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	dbHealth := s.db.Health()
	if dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	redisStatus := "up"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		redisStatus = "down"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	} else if redisStatus != "up" {
		overall = "degraded"
	}

	custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
		"status":   overall,
		"database": dbHealth,
		"redis":    redisStatus,
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.memoryStore != nil {
		s.memoryStore.Close()
	}

	// Close redis connection
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
