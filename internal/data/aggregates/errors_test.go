package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/pantry-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want domainagg.ErrorCode
	}{
		{"validation", ValidationError("bad input"), domainagg.CodeValidation},
		{"conflict", ConflictError("stale"), domainagg.CodeConflict},
		{"retryable", RetryableError("moved"), domainagg.CodeRetryable},
		{"deadline", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg fk", &pgconn.PgError{Code: "23503"}, domainagg.CodePreconditionFailed},
		{"pg check", &pgconn.PgError{Code: "23514"}, domainagg.CodeValidation},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: shopping_session.user_id"), domainagg.CodeConflict},
		{"sqlite busy", errors.New("database is locked"), domainagg.CodeRetryable},
		{"unknown", errors.New("boom"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MapError("op", fmt.Errorf("wrapped: %w", tc.in))
			if got := domainagg.CodeOf(err); got != tc.want {
				t.Fatalf("code: want=%s got=%s (%v)", tc.want, got, err)
			}
			if !errors.Is(err, tc.in) {
				t.Fatalf("mapped error should keep its cause")
			}
		})
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeForbidden, "op", "not yours", nil)
	if out := MapError("other", in); out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}

func TestMapErrorKeepsDriverTextOutOfMessage(t *testing.T) {
	cases := []struct {
		in   error
		want string
	}{
		{&pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"}, "concurrent update, retry"},
		{&pgconn.PgError{Code: "23503", Message: `insert or update on table "shopping_session_item" violates foreign key constraint`}, "referenced record does not exist"},
		{&pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "ux_shopping_session_active_user"`}, "conflicting write"},
		{RetryableError("shopping session changed concurrently"), "shopping session changed concurrently"},
	}
	for _, tc := range cases {
		var aggErr *domainagg.Error
		if !errors.As(MapError("op", tc.in), &aggErr) {
			t.Fatalf("expected *Error for %v", tc.in)
		}
		if aggErr.Message != tc.want {
			t.Fatalf("message: want=%q got=%q", tc.want, aggErr.Message)
		}
		if !errors.Is(aggErr, tc.in) {
			t.Fatalf("cause lost for %v", tc.in)
		}
	}
}
