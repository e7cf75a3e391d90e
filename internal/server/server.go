package server

import (
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/database"
	custommiddleware "marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/service"
	"marketplace/internal/token"
	"marketplace/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	dbService database.Service
}

// NewServer wires repositories, services and handlers onto a chi router
// and returns the configured HTTP server. The redis client is optional;
// when nil the auth routes run without rate limiting.
func NewServer(cfg *config.Config, logger *zap.Logger, dbService database.Service, redisClient *redis.Client) *Server {
	db := dbService.DB()

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.RequestLogger(logger))
	router.Use(custommiddleware.CORS(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.Recovery(logger))

	// Root and health endpoints
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondSuccess(w, "Root route", map[string]any{})
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondSuccess(w, "Service health", dbService.Health())
	})

	// Unmatched routes get the same envelope as everything else
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondErrorStatus(w, http.StatusNotFound,
			"Route not found", "route not found")
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize token issuer
	issuer := token.NewIssuer(token.Config{
		Secret:    cfg.JWT.Secret,
		ExpiresIn: cfg.JWT.TokenExpiry(),
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionRepo, issuer)
	catalogService := service.NewCatalogService(userRepo, productRepo)
	orderService := service.NewOrderService(userRepo, productRepo, orderRepo)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	buyerHandler := transport.NewBuyerHandler(catalogService, orderService, logger)
	sellerHandler := transport.NewSellerHandler(catalogService, orderService, logger)
	utilsHandler := transport.NewUtilsHandler(catalogService, logger)

	// Create auth middleware
	authGate := custommiddleware.Authenticate(issuer, sessionRepo, logger)

	// Register routes; auth endpoints get rate limited when redis is up
	router.Group(func(r chi.Router) {
		if redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: 20,
				Window:            time.Minute,
				KeyPrefix:         "ratelimit:auth",
			}, logger))
		}
		authHandler.RegisterRoutes(r, authGate)
	})
	buyerHandler.RegisterRoutes(router, authGate)
	sellerHandler.RegisterRoutes(router, authGate)
	utilsHandler.RegisterRoutes(router, authGate)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		dbService: dbService,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.dbService != nil {
		if err := s.dbService.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
