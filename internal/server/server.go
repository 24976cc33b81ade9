package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-control/internal/config"
	"stock-control/internal/database"
	custommiddleware "stock-control/internal/middleware"
	"stock-control/internal/repository"
	"stock-control/internal/service"
	"stock-control/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))

	// Health check endpoint, outside the authenticated surface
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(database.Health(db))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)

	// Initialize services
	productService := service.NewProductService(productRepo)
	movementService := service.NewStockMovementService(movementRepo)
	permissionService := service.NewPermissionService(
		permissionRepo,
		redisClient,
		time.Duration(cfg.Redis.PermissionTTLSeconds)*time.Second,
		logger,
	)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)
	movementHandler := transport.NewStockMovementHandler(movementService, logger)

	rateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		KeyPrefix:         "ratelimit",
	}, logger)

	// Every business route requires resolved identity headers; permission
	// tuples are enforced per route by the handlers.
	router.Route("/api/v1/internal", func(r chi.Router) {
		r.Use(custommiddleware.IdentityMiddleware(logger))
		r.Use(rateLimit)

		productHandler.RegisterRoutes(r, permissionService)
		movementHandler.RegisterRoutes(r, permissionService)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
