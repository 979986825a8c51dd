package app

import (
	httpx "github.com/yungbote/pantry-backend/internal/http"
	"github.com/yungbote/pantry-backend/internal/observability"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) *httpx.Server {
	return httpx.NewServer(httpx.RouterConfig{
		Log:                    log,
		Metrics:                metrics,
		ServiceName:            cfg.ServiceName,
		CORSOrigins:            cfg.CORSOrigins,
		AuthMiddleware:         mw.Auth,
		ShoppingSessionHandler: h.Shopping,
		RealtimeHandler:        h.Realtime,
		HealthHandler:          h.Health,
	})
}
