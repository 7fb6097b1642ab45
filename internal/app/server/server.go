package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"cnct/internal/domain/auth"
	"cnct/internal/domain/invoice"
	"cnct/internal/domain/payroll"
	"cnct/internal/domain/sales"
	"cnct/internal/platform/config"
	"cnct/internal/platform/jobs"
	"cnct/internal/platform/metrics"
	"cnct/internal/storage"
	"cnct/internal/transport/http/api"
	authhandler "cnct/internal/transport/http/handlers/auth"
	invoicehandler "cnct/internal/transport/http/handlers/invoice"
	overviewhandler "cnct/internal/transport/http/handlers/overview"
	payrollhandler "cnct/internal/transport/http/handlers/payroll"
	saleshandler "cnct/internal/transport/http/handlers/sales"
	"cnct/internal/transport/http/middleware"
)

type App struct {
	Config      config.Config
	Store       sales.StoreAPI
	Metrics     *metrics.Collector
	Jobs        *jobs.Service
	Idempotency *middleware.IdempotencyStore
	Limits      *middleware.RateLimits
	Router      http.Handler

	closeStore func()
}

// New opens the configured storage backend and builds the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	anchor, err := sales.ParseDay(cfg.PayPeriodAnchor)
	if err != nil {
		return nil, fmt.Errorf("pay period anchor: %w", err)
	}
	schedule, err := payroll.NewSchedule(anchor, cfg.PayPeriodLengthDays, cfg.InvoiceOffsetDays, cfg.PayDateOffsetDays)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		Store:       store,
		Jobs:        jobs.New(),
		Idempotency: middleware.NewIdempotencyStore(cfg.IdempotencyTTL),
		Limits:      middleware.NewRateLimits(cfg.RateLimitPerMinute, time.Minute),
		closeStore:  closeStore,
	}
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}
	app.scheduleMaintenance()

	salesService := sales.NewService(store)
	payrollService := payroll.NewService(store, schedule)
	authService := auth.NewService(cfg.OperatorEmail, cfg.OperatorPasswordHash, cfg.JWTSecret, cfg.TokenTTL)
	if !authService.Configured() {
		slog.Warn("operator login disabled", "reason", "OPERATOR_EMAIL, OPERATOR_PASSWORD_HASH or JWT_SECRET not set")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Metrics(app.Metrics))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", middleware.IdempotencyHeader},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}).Handler)
	}
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(app.Limits.General.Handler)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(app.Limits.Sensitive)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			slog.Warn("readiness check failed", "backend", cfg.StorageBackend, "err", err)
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService).RegisterRoutes(r)
		saleshandler.NewHandler(salesService, app.Idempotency).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService).RegisterRoutes(r)
		invoicehandler.NewHandler(invoice.PDFOptions{
			CompanyName: cfg.CompanyName,
			LogoPath:    cfg.InvoiceLogoPath,
		}).RegisterRoutes(r)
		overviewhandler.NewHandler().RegisterRoutes(r)

		if app.Metrics != nil {
			r.With(middleware.RequirePermission(auth.PermMetricsRead)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
				api.Success(w, map[string]any{
					"http": app.Metrics.Snapshot(),
					"jobs": app.Jobs.LastRuns(),
				}, middleware.GetRequestID(r.Context()))
			})
		}
	})

	app.Router = router
	return app, nil
}

func (a *App) scheduleMaintenance() {
	a.Jobs.Every(jobs.JobCachePurge, a.Config.MaintenanceInterval, func(context.Context) (any, error) {
		return map[string]int{
			"idempotencyPurged":    a.Idempotency.Purge(),
			"idempotencyRemaining": a.Idempotency.Len(),
			"rateWindowsPurged":    a.Limits.Purge(),
		}, nil
	})
	a.Jobs.Every(jobs.JobStorageProbe, a.Config.MaintenanceInterval, func(ctx context.Context) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.Store.Ping(ctx); err != nil {
			return map[string]string{"backend": a.Config.StorageBackend}, err
		}
		return map[string]string{"backend": a.Config.StorageBackend}, nil
	})
}

func (a *App) Close() {
	if a.closeStore != nil {
		a.closeStore()
	}
}

// Run loads configuration, serves HTTP and shuts down gracefully on SIGINT
// or SIGTERM.
func Run() error {
	cfg := config.Load()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", cfg.Addr, "backend", cfg.StorageBackend, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		slog.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func setupLogger(cfg config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
