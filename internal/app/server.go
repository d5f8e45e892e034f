// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"khidma-service/internal/config"
	"khidma-service/internal/db"
	analyticshandler "khidma-service/internal/handlers/analytics"
	authhandler "khidma-service/internal/handlers/auth"
	bidhandler "khidma-service/internal/handlers/bid"
	contenthandler "khidma-service/internal/handlers/content"
	invoicehandler "khidma-service/internal/handlers/invoice"
	jobhandler "khidma-service/internal/handlers/job"
	moderationhandler "khidma-service/internal/handlers/moderation"
	planhandler "khidma-service/internal/handlers/plan"
	userhandler "khidma-service/internal/handlers/user"
	wshandler "khidma-service/internal/handlers/websocket"
	"khidma-service/internal/middleware"
	"khidma-service/internal/pkg/jwt"
	"khidma-service/internal/pkg/session"
	"khidma-service/internal/repository/postgres"
	analyticssvc "khidma-service/internal/service/analytics"
	authsvc "khidma-service/internal/service/auth"
	bidsvc "khidma-service/internal/service/bid"
	contentsvc "khidma-service/internal/service/content"
	invoicesvc "khidma-service/internal/service/invoice"
	jobsvc "khidma-service/internal/service/job"
	moderationsvc "khidma-service/internal/service/moderation"
	plansvc "khidma-service/internal/service/plan"
	usersvc "khidma-service/internal/service/user"
	"khidma-service/internal/websocket"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Server bundles everything main needs to run and stop the service.
type Server struct {
	cfg    config.AppConfig
	logger *zap.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
	hub         *websocket.Hub
	httpServer  *http.Server

	cancelHub context.CancelFunc
}

// NewServer wires the whole dependency graph.
func NewServer(cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	pool, err := db.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addresses: []string{cfg.RedisAddr},
		Password:  cfg.RedisPass,
		PoolSize:  10,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	jwtManager, err := jwt.LoadAndBuild(cfg.JWT)
	if err != nil {
		pool.Close()
		redisClient.Close()
		return nil, fmt.Errorf("jwt: %w", err)
	}

	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// Repositories
	dbWrapper := postgres.NewDB(pool)
	authRepo := postgres.NewAuthRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	bidRepo := postgres.NewBidRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	contentRepo := postgres.NewContentRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	// Realtime admin feed
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager, logger)

	// Services
	authService := authsvc.NewAuthService(authRepo, userRepo, jwtManager, sessionManager, rateLimiter, logger)
	userService := usersvc.NewUserService(userRepo, authRepo, logger)
	jobService := jobsvc.NewJobService(jobRepo, logger)
	bidService := bidsvc.NewBidService(dbWrapper, bidRepo, jobRepo, invoiceRepo, planRepo, hub, cfg.PlatformFeePercent, logger)
	invoiceService := invoicesvc.NewInvoiceService(invoiceRepo, hub, logger)
	planService := plansvc.NewPlanService(planRepo, logger)
	moderationService := moderationsvc.NewModerationService(messageRepo, jobRepo, hub, logger)
	contentService := contentsvc.NewContentService(dbWrapper, contentRepo, logger)
	analyticsService := analyticssvc.NewAnalyticsService(analyticsRepo, logger)

	// Middleware
	authMW := middleware.NewAuthMiddleware(authService)
	tracker := middleware.NewAdminActivity(sessionManager, cfg.AdminIdleTimeout, logger)

	// Handlers
	handlers := &routeHandlers{
		auth:       authhandler.NewAuthHandler(authService),
		user:       userhandler.NewUserHandler(userService),
		job:        jobhandler.NewJobHandler(jobService),
		bid:        bidhandler.NewBidHandler(bidService),
		invoice:    invoicehandler.NewInvoiceHandler(invoiceService),
		plan:       planhandler.NewPlanHandler(planService),
		moderation: moderationhandler.NewModerationHandler(moderationService),
		content:    contenthandler.NewContentHandler(contentService),
		analytics:  analyticshandler.NewAnalyticsHandler(analyticsService),
		ws:         wshandler.NewWSHandler(hub, logger),
	}

	router := buildRouter(logger, authMW, tracker, handlers)

	return &Server{
		cfg:         cfg,
		logger:      logger,
		pool:        pool,
		redisClient: redisClient,
		hub:         hub,
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}, nil
}

// Run starts the hub and blocks serving HTTP until Shutdown.
func (s *Server) Run() error {
	hubCtx, cancel := context.WithCancel(context.Background())
	s.cancelHub = cancel
	go s.hub.Run(hubCtx)

	s.logger.Info("server listening",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.Duration("admin_idle_timeout", s.cfg.AdminIdleTimeout),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains HTTP, stops the hub and closes the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	if s.cancelHub != nil {
		s.cancelHub()
	}
	s.redisClient.Close()
	s.pool.Close()

	return err
}
