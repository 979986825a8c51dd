package shopping

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/aggregates"
)

// Rule-level reasons. Every error returned by this package is an
// *aggregates.Error whose cause chain reaches one of these.
var (
	ErrSessionNotFound    = errors.New("shopping session not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrNotOwner           = errors.New("resource belongs to another user")
	ErrAlreadyActive      = errors.New("user already has an active shopping session")
	ErrNotActive          = errors.New("shopping session is not active")
	ErrAlreadyCompleted   = errors.New("shopping session already completed")
	ErrAlreadyChecked     = errors.New("ingredient already checked in this session")
	ErrDuplicateItem      = fmt.Errorf("%w: duplicate checked item", ErrAlreadyChecked)
	ErrCorruptSession     = errors.New("shopping session state is inconsistent")
)

func SessionNotFoundError(op string, id uuid.UUID) error {
	return aggregates.NewError(aggregates.CodeNotFound, op, fmt.Sprintf("shopping session %s not found", id), ErrSessionNotFound)
}

func IngredientNotFoundError(op string, id uuid.UUID) error {
	return aggregates.NewError(aggregates.CodeNotFound, op, fmt.Sprintf("ingredient %s not found", id), ErrIngredientNotFound)
}

func ForbiddenError(op string) error {
	return aggregates.NewError(aggregates.CodeForbidden, op, ErrNotOwner.Error(), ErrNotOwner)
}

func AlreadyActiveError(op string, cause error) error {
	if cause == nil {
		cause = ErrAlreadyActive
	} else {
		cause = errors.Join(ErrAlreadyActive, cause)
	}
	return aggregates.NewError(aggregates.CodeInvalidState, op, ErrAlreadyActive.Error(), cause)
}

func AlreadyCheckedError(op string, ingredientID uuid.UUID) error {
	return aggregates.NewError(aggregates.CodeInvalidState, op, fmt.Sprintf("ingredient %s already checked", ingredientID), ErrAlreadyChecked)
}

func invalidState(op string, reason error) error {
	return aggregates.NewError(aggregates.CodeInvalidState, op, reason.Error(), reason)
}

func validation(op, msg string) error {
	return aggregates.NewError(aggregates.CodeValidation, op, msg, nil)
}

func corrupt(op, msg string) error {
	return aggregates.NewError(aggregates.CodeInvariantViolation, op, msg, ErrCorruptSession)
}

func NotActiveError(op string) error {
	return invalidState(op, ErrNotActive)
}
