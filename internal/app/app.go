package app

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/pantry-backend/internal/data/db"
	httpx "github.com/yungbote/pantry-backend/internal/http"
	"github.com/yungbote/pantry-backend/internal/observability"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
	"github.com/yungbote/pantry-backend/internal/temporalx/temporalworker"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Server   *httpx.Server

	pg       *db.PostgresService
	sinks    eventSinks
	temporal temporalsdkclient.Client
	worker   *temporalworker.Runner
	otelStop func(context.Context) error
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelStop := observability.InitOTel(ctx, log, observability.OtelConfigFromEnv(observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}))
	metrics := observability.Init()

	pg, err := db.NewPostgresService(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := pg.DB()
	clk := clock.System()

	reposet := wireRepos(theDB, log)
	sinks, err := wireEvents(ctx, log, cfg, metrics, reposet)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	serviceset, err := wireServices(theDB, log, cfg, reposet, sinks.Dispatcher, metrics, clk)
	if err != nil {
		sinks.Close()
		_ = pg.Close()
		return nil, err
	}
	handlerset := wireHandlers(log, theDB, serviceset, sinks, clk)
	middleware := wireMiddleware(log, serviceset)

	tc, runner, err := wireTemporal(ctx, log, cfg, serviceset)
	if err != nil {
		sinks.Close()
		_ = pg.Close()
		return nil, fmt.Errorf("init temporal: %w", err)
	}

	return &App{
		Log:      log,
		DB:       theDB,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Server:   wireServer(log, cfg, metrics, handlerset, middleware),
		pg:       pg,
		sinks:    sinks,
		temporal: tc,
		worker:   runner,
		otelStop: otelStop,
	}, nil
}

// Run serves HTTP and, when Temporal is configured, the sweep worker until
// ctx is cancelled or either fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	if err := a.sinks.startForwarding(gctx); err != nil {
		return fmt.Errorf("event forwarder: %w", err)
	}
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", a.Cfg.HTTPAddr)
		return a.Server.Run(gctx, a.Cfg.HTTPAddr)
	})
	if a.worker != nil {
		g.Go(func() error {
			if err := a.worker.Start(gctx); err != nil {
				return fmt.Errorf("temporal worker: %w", err)
			}
			<-gctx.Done()
			return nil
		})
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.temporal != nil {
		a.temporal.Close()
	}
	a.sinks.Close()
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelStop != nil {
		_ = a.otelStop(context.Background())
	}
	a.Log.Sync()
}
