// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/activation"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/audit"
	auditpostgres "github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/audit/postgres"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/auth"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/billing"
	stripebilling "github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/billing/stripe"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/config"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/domain"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/ctxlog"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/httputil"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/metrics"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/pkg/postgres"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/review"
	reviewpostgres "github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/review/postgres"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/selections"
	selectionspostgres "github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/selections/postgres"
	userspostgres "github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/users/postgres"
	"github.com/NextLevelManagementAdvisors/Waste-Management-Portal-sub002/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	db            *pgxpool.Pool
	server        *http.Server
	metricsServer *http.Server
	metricsCancel context.CancelFunc
}

// Option customizes application construction.
type Option func(*appOptions)

type appOptions struct {
	billingProvider billing.Provider
}

// WithBillingProvider substitutes the Stripe-backed billing provider.
// Used by tests.
func WithBillingProvider(p billing.Provider) Option {
	return func(o *appOptions) {
		o.billingProvider = p
	}
}

// New creates a new application instance.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	logger := initLogger(cfg.Log)

	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Migrations.Enabled {
		if err := runMigrations(cfg); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	provider := o.billingProvider
	if provider == nil {
		p, err := stripebilling.New(stripebilling.Config{
			APIKey:    cfg.Billing.StripeAPIKey,
			RateLimit: cfg.Billing.RateLimit,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("create billing provider: %w", err)
		}
		provider = p
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		metricsCancel: metricsCancel,
	}

	go app.collectDBMetrics(metricsCtx)

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           app.setupRouter(provider),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	// Start metrics server in background
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	a.metricsCancel()

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	a.db.Close()

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) collectDBMetrics(ctx context.Context) {
	// Collect immediately on start
	metrics.RecordDBPoolMetrics(a.db)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordDBPoolMetrics(a.db)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) setupRouter(provider billing.Provider) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		http.ServeFile(w, r, "api/openapi/openapi.yaml")
	})

	selectionsRepo := selectionspostgres.NewRepository(a.db)
	selectionsService := selections.NewService(selectionsRepo)
	selectionsHandler := selections.NewHandler(selectionsService)

	usersRepo := userspostgres.NewRepository(a.db)
	auditRecorder := audit.NewRecorder(auditpostgres.NewRepository(a.db))

	activationService := activation.NewService(usersRepo, selectionsService, provider, auditRecorder)

	reviewRepo := reviewpostgres.NewRepository(a.db)
	reviewService := review.NewService(reviewRepo, activationService, auditRecorder)
	reviewHandler := review.NewHandler(reviewService, activationService)

	verifier := auth.NewVerifier(auth.Config{SecretKey: a.config.JWT.SecretKey})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(verifier))

			selectionsHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleOperator))
				selectionsHandler.RegisterOperatorRoutes(r)
				reviewHandler.RegisterOperatorRoutes(r)
			})
		})
	})

	return r
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func runMigrations(cfg *config.Config) error {
	migrator, err := migrate.New("file://"+cfg.Migrations.Path, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
