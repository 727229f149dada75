// Package server assembles the ledger HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"household-ledger/internal/config"
	"household-ledger/internal/events"
	"household-ledger/internal/handlers"
	"household-ledger/internal/middleware"
	"household-ledger/internal/repositories"
	"household-ledger/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	shutdownTimeout    = 10 * time.Second
	tokenSweepInterval = time.Hour
)

// Server is the ledger API.
type Server struct {
	cfg    *config.Config
	echo   *echo.Echo
	tokens repositories.BlacklistedTokenRepositoryInterface
	logger *slog.Logger
}

// Deps are the collaborators the API needs. Publisher, Metrics and Logger
// are optional.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Publisher events.Publisher
	Metrics   services.MetricsRecorderInterface
	Logger    *slog.Logger
}

// New wires repositories, services and handlers onto a fresh echo instance.
// The rate limiter's visitor cleanup stops when ctx is done.
func New(ctx context.Context, deps Deps) *Server {
	cfg, db := deps.Config, deps.DB

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = services.NewPrometheusMetrics()
	}

	memberRepo := repositories.NewMemberRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db)

	passwordService := services.NewPasswordService(cfg.Security.BCryptCost, cfg.Security.PasswordMinLength)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(memberRepo, blacklistedTokenRepo, passwordService, tokenService, publisher, metrics, logger)
	memberService := services.NewMemberService(memberRepo, passwordService, publisher, metrics, logger)
	categoryService := services.NewCategoryService(categoryRepo)
	transactionService := services.NewTransactionService(transactionRepo, categoryRepo, memberRepo, publisher, metrics, logger)
	reportService := services.NewReportService(transactionRepo, categoryRepo, memberRepo, services.ReportOptions{
		Title:          cfg.Report.Title,
		CurrencySymbol: cfg.Report.CurrencySymbol,
	}, metrics, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery(logger))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics())
	e.Use(middleware.SecurityHeaders())
	e.Use(corsMiddleware(cfg.Server.CORSAllowOrigins))
	e.Use(middleware.RateLimiter(ctx, float64(cfg.Security.RateLimitPerSecond), cfg.Security.RateLimitBurst))

	registerRoutes(e, routeHandlers{
		auth:         handlers.NewAuthHandler(authService),
		members:      handlers.NewMemberHandler(memberService),
		categories:   handlers.NewCategoryHandler(categoryService),
		transactions: handlers.NewTransactionHandler(transactionService, categoryService),
		reports:      handlers.NewReportHandler(reportService),
		health:       handlers.NewHealthCheckHandler(db),
		requireAuth:  middleware.RequireAuth(tokenService, authService),
	})

	return &Server{
		cfg:    cfg,
		echo:   e,
		tokens: blacklistedTokenRepo,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.echo,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	go s.sweepRevokedTokens(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "addr", srv.Addr, "environment", s.cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// sweepRevokedTokens drops blacklist entries whose tokens have expired anyway.
func (s *Server) sweepRevokedTokens(ctx context.Context) {
	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.tokens.DeleteExpired(ctx)
			if err != nil {
				s.logger.Warn("Failed to sweep revoked tokens", "error", err)
				continue
			}
			if deleted > 0 {
				s.logger.Info("Swept revoked tokens", "count", deleted)
			}
		}
	}
}
