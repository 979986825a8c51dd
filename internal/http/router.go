package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pantry-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pantry-backend/internal/http/middleware"
	"github.com/yungbote/pantry-backend/internal/observability"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	ShoppingSessionHandler *httpH.ShoppingSessionHandler
	RealtimeHandler        *httpH.RealtimeHandler
	HealthHandler          *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestContext())
	r.Use(httpMW.Observe(cfg.Log, cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Shopping sessions
		if h := cfg.ShoppingSessionHandler; h != nil {
			protected.POST("/shopping-sessions", h.StartSession)
			protected.GET("/shopping-sessions/active", h.GetActiveSession)
			protected.GET("/shopping-sessions/:id", h.GetSession)
			protected.POST("/shopping-sessions/:id/items", h.CheckItem)
			protected.POST("/shopping-sessions/:id/complete", h.CompleteSession)
			protected.POST("/shopping-sessions/:id/abandon", h.AbandonSession)
		}
		if h := cfg.RealtimeHandler; h != nil {
			protected.GET("/shopping-sessions/stream", h.SSEStream)
		}
	}

	return r
}
