package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tradepulse/internal/config"
	apierrors "tradepulse/internal/errors"
	"tradepulse/internal/infrastructure"
	custommw "tradepulse/internal/middleware"
	"tradepulse/internal/services"
	"tradepulse/internal/storage"
	handlers "tradepulse/internal/transport/http"
)

const (
	// Version is the application version reported by the health endpoint.
	Version = "1.0.0"
	AppName = "TradePulse"
)

// Application is the main application container. It owns the configuration,
// the database handle, the service layer and the HTTP server, and wires them
// together at startup.
type Application struct {
	Config *config.Config
	Router *chi.Mux
	Server *http.Server
	Logger *slog.Logger

	DB      *storage.DB
	Metrics *infrastructure.Metrics

	DataService      *services.DataService
	AnalyticsService *services.AnalyticsService
	HealthService    *services.HealthService
}

// NewApplication creates an application instance with all dependencies wired.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	if err := infrastructure.InitializeTracing(context.Background(), Version); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	db, err := storage.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Metrics: infrastructure.NewMetrics(),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) initializeServices() {
	a.DataService = services.NewDataService(a.DB, a.Metrics, a.Logger)
	a.AnalyticsService = services.NewAnalyticsService(a.DB, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(Version, a.DB, a.Logger)
}

// setupRouter configures the HTTP router with all routes and middleware.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Order matters: the request ID must exist before anything logs, and
	// tracing wraps the rest of the chain.
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.Tracing)
	r.Use(custommw.Metrics(a.Metrics))
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.StripSlashes)
	r.Use(custommw.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(a.corsConfig()))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Route("/api", func(api chi.Router) {
		api.Use(render.SetContentType(render.ContentTypeJSON))
		api.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		dataHandler := handlers.NewDataHandler(a.DataService, a.Config.Server.MaxUploadBytes, a.Logger, errorHandler)
		api.Mount("/trades", dataHandler.TradesRoutes())
		api.Mount("/prices", dataHandler.PricesRoutes())

		api.Mount("/pnl", handlers.NewPnLHandler(a.AnalyticsService, a.Logger, errorHandler).Routes())
		api.Mount("/maxprofit", handlers.NewMaxProfitHandler(a.AnalyticsService, a.Logger, errorHandler).Routes())
	})

	r.Mount("/healthz", handlers.NewHealthHandler(a.HealthService, a.Logger).Routes())
	r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())

	a.Router = r
}

func (a *Application) corsConfig() custommw.CORSConfig {
	return custommw.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start runs the HTTP server until the context is cancelled or the server
// fails. It returns once shutdown has completed.
func (a *Application) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		return a.Stop(context.Background())
	}
}

// Stop gracefully shuts down the server, the tracer provider, the database
// and the log file, in that order.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
		firstErr = err
	}
	if err := infrastructure.ShutdownTracing(shutdownCtx); err != nil {
		a.Logger.Error("tracing shutdown failed", slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("database close failed", slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.Start(ctx)
}
