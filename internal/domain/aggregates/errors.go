package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode classifies an aggregate failure independently of transport.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeForbidden          ErrorCode = "forbidden"
	CodeInvalidState       ErrorCode = "invalid_state"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Codes whose detail stays server-side.
var opaque = map[ErrorCode]bool{
	"":                     true,
	CodeInternal:           true,
	CodeInvariantViolation: true,
}

// Error is returned by every aggregate write. Op names the operation, Message
// is caller-safe text and Cause keeps the underlying chain for errors.Is.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
		b.WriteByte(' ')
	}
	b.WriteByte('[')
	b.WriteString(string(e.Code))
	b.WriteByte(']')
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// PublicMessage is what a caller may see.
func (e *Error) PublicMessage() string {
	switch {
	case e == nil:
		return ""
	case opaque[e.Code]:
		return "internal error"
	case e.Message != "":
		return e.Message
	default:
		return strings.ReplaceAll(string(e.Code), "_", " ")
	}
}

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap tags err with code, reusing its text as the message.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return aggErr.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return code != "" && CodeOf(err) == code
}
