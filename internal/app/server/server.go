package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/core"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/policy"
	"leavedesk/internal/domain/reports"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/db"
	"leavedesk/internal/platform/jobs"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/platform/seed"
	audithandler "leavedesk/internal/transport/http/handlers/audit"
	corehandler "leavedesk/internal/transport/http/handlers/core"
	leavehandler "leavedesk/internal/transport/http/handlers/leave"
	policyhandler "leavedesk/internal/transport/http/handlers/policy"
	reportshandler "leavedesk/internal/transport/http/handlers/reports"
	toolshandler "leavedesk/internal/transport/http/handlers/tools"
	"leavedesk/internal/transport/http/middleware"
)

const (
	watchDebounce     = 250 * time.Millisecond
	readHeaderTimeout = 5 * time.Second
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type App struct {
	Config    config.Config
	Router    http.Handler
	Directory *core.Store
	Leave     *leave.Service
	Policies  *policy.Service
	Reports   *reports.Service
	Audit     *audit.Service
	Jobs      *jobs.Service
	Metrics   *metrics.Collector

	pool      *pgxpool.Pool
	watcher   *policy.Watcher
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New builds the application: stores, services, background jobs and the
// HTTP router. Callers must Close the returned App.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	checked, err := leave.ParseLeaveTypes(cfg.BalanceCheckedTypes)
	if err != nil {
		return nil, fmt.Errorf("LEAVE_BALANCE_CHECKED_TYPES: %w", err)
	}

	app := &App{Config: cfg, Metrics: metrics.New()}
	bgCtx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	sink, err := app.auditSink(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Audit = audit.New(sink, nil)

	app.Directory = core.NewStore()
	app.Leave = leave.NewService(app.Directory, leave.NewLedger(), leave.NewStore(), leave.Options{
		DefaultBalance: cfg.LeaveDefaultBalance,
		BalanceChecked: checked,
		ReservePending: cfg.ReservePending,
	})
	app.Policies = policy.NewService(policy.NewStore(), policy.Options{DefaultResults: cfg.SearchDefaultResults})
	app.Reports = reports.NewService(app.Directory, app.Leave, app.Policies.Store, nil)
	app.Reports.Version = Version

	if cfg.RunSeed {
		if err := app.seed(ctx); err != nil {
			app.Close()
			return nil, err
		}
	}
	if cfg.PolicyDir != "" {
		n, err := app.Policies.LoadDir(ctx, cfg.PolicyDir)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("load policies: %w", err)
		}
		slog.Info("policies loaded", "dir", cfg.PolicyDir, "count", n)
	}

	app.Jobs = jobs.New(app.Metrics)
	if cfg.PolicyDir != "" && cfg.PolicyResyncSchedule != "" {
		if err := app.Jobs.Schedule(cfg.PolicyResyncSchedule, jobs.JobPolicyResync, app.reloadJob); err != nil {
			app.Close()
			return nil, err
		}
	}
	app.Jobs.Start(bgCtx)

	if cfg.PolicyWatch {
		w, err := policy.NewWatcher(cfg.PolicyDir, watchDebounce)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.watcher = w
		go func() {
			if err := w.Run(bgCtx, app.enqueueReload); err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("policy watcher stopped", "err", err)
			}
		}()
	}

	app.Router = app.routes()
	return app, nil
}

func (a *App) auditSink(ctx context.Context) (audit.Sink, error) {
	if a.Config.DatabaseURL == "" {
		return audit.NewMemoryStore(0), nil
	}
	pool, err := db.Connect(ctx, a.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.pool = pool
	if a.Config.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	return audit.NewPostgresStore(pool), nil
}

func (a *App) seed(ctx context.Context) error {
	var (
		fixture seed.Fixture
		err     error
	)
	if a.Config.SeedFile != "" {
		fixture, err = seed.Load(a.Config.SeedFile)
	} else {
		fixture, err = seed.Demo()
	}
	if err != nil {
		return err
	}
	sum, err := seed.Apply(ctx, fixture, a.Leave, a.Policies)
	if err != nil {
		return err
	}
	slog.Info("seed applied", "employees", sum.Employees, "policies", sum.Policies, "requests", sum.Requests)
	return nil
}

func (a *App) reloadJob(ctx context.Context) (any, error) {
	n, err := a.Policies.LoadDir(ctx, a.Config.PolicyDir)
	a.Metrics.PolicyReload(err)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (a *App) enqueueReload(_ context.Context) error {
	if !a.Jobs.Enqueue(jobs.JobPolicyReload, a.reloadJob) {
		return errors.New("job queue full")
	}
	return nil
}

func (a *App) reloadNow(ctx context.Context) (int, error) {
	res, err := a.Jobs.RunNow(ctx, jobs.JobPolicyReload, a.reloadJob)
	if err != nil {
		return 0, err
	}
	n, _ := res.(int)
	return n, nil
}

func (a *App) routes() http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Actor)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Metrics(a.Metrics))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.MutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := a.pool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", a.Metrics.Handler())
	}

	var reload policyhandler.ReloadFunc
	if cfg.PolicyDir != "" {
		reload = a.reloadNow
	}

	router.Route("/api/v1", func(r chi.Router) {
		corehandler.NewHandler(a.Directory, a.Leave, a.Audit).RegisterRoutes(r)
		leavehandler.NewHandler(a.Leave, a.Audit, a.Metrics).RegisterRoutes(r)
		policyhandler.NewHandler(a.Policies, a.Audit, a.Metrics, reload).RegisterRoutes(r)
		reportshandler.NewHandler(a.Reports, a.Jobs).RegisterRoutes(r)
		audithandler.NewHandler(a.Audit).RegisterRoutes(r)
		toolshandler.NewHandler(a.Directory, a.Leave, a.Policies, a.Reports, a.Audit, a.Metrics).RegisterRoutes(r)
	})
	return router
}

// Run serves HTTP on Config.Addr until ctx is cancelled, then shuts down
// gracefully within Config.ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("leavedesk listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close stops background work and releases the database pool. It is safe
// to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		if a.Jobs != nil {
			a.Jobs.Stop()
		}
		if a.pool != nil {
			a.pool.Close()
		}
	})
}
