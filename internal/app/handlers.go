package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/pantry-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pantry-backend/internal/http/middleware"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Shopping *httpH.ShoppingSessionHandler
	Realtime *httpH.RealtimeHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services, sinks eventSinks, clk clock.Clock) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if sinks.Redis != nil {
		checks["redis"] = sinks.Redis.Ping
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(checks),
		Shopping: httpH.NewShoppingSessionHandler(s.Shopping, clk),
		Realtime: httpH.NewRealtimeHandler(log, sinks.Hub),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}
