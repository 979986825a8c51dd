package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/pantry-backend/internal/domain/aggregates"
	"github.com/yungbote/pantry-backend/internal/domain/shopping"
)

var reasons = []struct {
	err    error
	reason string
}{
	{shopping.ErrSessionNotFound, "session_not_found"},
	{shopping.ErrIngredientNotFound, "ingredient_not_found"},
	{shopping.ErrNotOwner, "not_owner"},
	{shopping.ErrAlreadyActive, "already_active"},
	{shopping.ErrAlreadyCompleted, "already_completed"},
	{shopping.ErrNotActive, "not_active"},
	{shopping.ErrAlreadyChecked, "already_checked"},
}

// StatusFor maps an aggregate error code to an HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeForbidden:
		return http.StatusForbidden
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeInvalidState, domainagg.CodeConflict, domainagg.CodePreconditionFailed:
		return http.StatusConflict
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError writes the error envelope for a service failure.
// Internal failures never expose their cause.
func RespondDomainError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	msg := "internal error"
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		msg = aggErr.PublicMessage()
	}
	reason := ""
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			reason = r.reason
			break
		}
	}
	if code == domainagg.CodeInternal || code == domainagg.CodeInvariantViolation {
		msg = "internal error"
		reason = ""
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(code), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    string(code),
			Reason:  reason,
		},
	})
}
