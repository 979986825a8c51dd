package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/http/response"
	"github.com/yungbote/pantry-backend/internal/platform/ctxutil"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
	"github.com/yungbote/pantry-backend/internal/services"
)

var (
	errBadToken  = errors.New("missing or invalid token")
	errNoSubject = errors.New("token carries no user")
)

// AuthMiddleware turns a bearer token into request data on the context.
type AuthMiddleware struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, auth services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "auth"), auth: auth}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, source := bearerToken(c.Request)
		if token == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errBadToken)
			return
		}
		ctx, err := am.auth.SetContextFromToken(c.Request.Context(), token)
		if err != nil {
			am.log.Debug("token rejected", "source", source, "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errBadToken)
			return
		}
		if rd := ctxutil.GetRequestData(ctx); rd == nil || rd.UserID == uuid.Nil {
			response.RespondError(c, http.StatusForbidden, "forbidden", errNoSubject)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerToken reads the Authorization header, falling back to ?token= for
// EventSource clients, which cannot set headers.
func bearerToken(r *http.Request) (token, source string) {
	if scheme, rest, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "bearer") {
		if token = strings.TrimSpace(rest); token != "" {
			return token, "header"
		}
	}
	if token = strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token, "query"
	}
	return "", ""
}
