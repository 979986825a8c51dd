package app

import (
	"time"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/pantry-backend/internal/data/aggregates"
	"github.com/yungbote/pantry-backend/internal/events"
	"github.com/yungbote/pantry-backend/internal/observability"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
	"github.com/yungbote/pantry-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Shopping services.ShoppingSessionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, dispatcher *events.Dispatcher, metrics *observability.Metrics, clk clock.Clock) (Services, error) {
	log.Info("Wiring services...")
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Services{}, err
	}

	agg := dataagg.NewShoppingSessionAggregate(dataagg.ShoppingSessionAggregateDeps{
		Base: dataagg.BaseDeps{
			DB:           db,
			Log:          log,
			Hooks:        dataagg.ObservabilityHooks{Metrics: metrics, Log: log, SlowAfter: cfg.Shopping.SlowWrite},
			MaxAttempts:  cfg.Shopping.WriteRetries,
			RetryBackoff: cfg.Shopping.RetryBackoff,
		},
		Sessions:    r.Sessions,
		Ingredients: r.Ingredients,
		Clock:       clk,
		Location:    loc,
	})

	return Services{
		Auth: services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Shopping: services.NewShoppingSessionService(services.ShoppingSessionServiceDeps{
			Log:        log,
			Aggregate:  agg,
			Sessions:   r.Sessions,
			Dispatcher: dispatcher,
			Metrics:    metrics,
			Clock:      clk,
		}),
	}, nil
}
