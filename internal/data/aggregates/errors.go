package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/pantry-backend/internal/domain/aggregates"
)

var (
	ErrValidation = errors.New("aggregate validation")
	ErrConflict   = errors.New("aggregate conflict")
	// ErrRetryable marks a transient failure; the whole write may be re-run.
	ErrRetryable = errors.New("aggregate retryable")
)

func ValidationError(msg string) error { return tagged(ErrValidation, msg) }
func ConflictError(msg string) error   { return tagged(ErrConflict, msg) }
func RetryableError(msg string) error  { return tagged(ErrRetryable, msg) }

// taggedError is raised by this package; its text is safe to show callers.
type taggedError struct {
	kind error
	msg  string
}

func (e *taggedError) Error() string { return e.kind.Error() + ": " + e.msg }
func (e *taggedError) Unwrap() error { return e.kind }

func tagged(kind error, msg string) error {
	return &taggedError{kind: kind, msg: strings.TrimSpace(msg)}
}

// Driver and database text never reaches callers; it stays in Cause.
var publicText = map[domainagg.ErrorCode]string{
	domainagg.CodeValidation:         "request violates a storage constraint",
	domainagg.CodeNotFound:           "record not found",
	domainagg.CodeConflict:           "conflicting write",
	domainagg.CodePreconditionFailed: "referenced record does not exist",
	domainagg.CodeRetryable:          "concurrent update, retry",
	domainagg.CodeInternal:           "internal error",
}

var sentinelCodes = []struct {
	err  error
	code domainagg.ErrorCode
}{
	{ErrValidation, domainagg.CodeValidation},
	{ErrConflict, domainagg.CodeConflict},
	{ErrRetryable, domainagg.CodeRetryable},
	{gorm.ErrRecordNotFound, domainagg.CodeNotFound},
	{gorm.ErrDuplicatedKey, domainagg.CodeConflict},
	{gorm.ErrForeignKeyViolated, domainagg.CodePreconditionFailed},
	{context.Canceled, domainagg.CodeRetryable},
	{context.DeadlineExceeded, domainagg.CodeRetryable},
}

// SQLSTATE values we know how to classify.
var pgCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,           // unique_violation
	"23503": domainagg.CodePreconditionFailed, // foreign_key_violation
	"23514": domainagg.CodeValidation,         // check_violation
	"40001": domainagg.CodeRetryable,          // serialization_failure
	"40P01": domainagg.CodeRetryable,          // deadlock_detected
	"55P03": domainagg.CodeRetryable,          // lock_not_available
	"57014": domainagg.CodeRetryable,          // query_canceled
}

// Drivers without typed errors (sqlite in tests) only leave the message.
var messageHints = []struct {
	needle string
	code   domainagg.ErrorCode
}{
	{"duplicate key", domainagg.CodeConflict},
	{"unique constraint", domainagg.CodeConflict},
	{"database is locked", domainagg.CodeRetryable},
	{"deadlock", domainagg.CodeRetryable},
	{"serialization", domainagg.CodeRetryable},
	{"timeout", domainagg.CodeRetryable},
	{"connection refused", domainagg.CodeRetryable},
}

// MapError attaches an aggregate error code and a caller-safe message to err.
// Errors that already carry a code pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	code := classify(err)
	msg := publicText[code]
	var own *taggedError
	if errors.As(err, &own) && own.msg != "" {
		msg = own.msg
	}
	return domainagg.NewError(code, op, msg, err)
}

func classify(err error) domainagg.ErrorCode {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgCodes[strings.TrimSpace(pgErr.Code)]; ok {
			return code
		}
	}
	msg := strings.ToLower(err.Error())
	for _, h := range messageHints {
		if strings.Contains(msg, h.needle) {
			return h.code
		}
	}
	return domainagg.CodeInternal
}
