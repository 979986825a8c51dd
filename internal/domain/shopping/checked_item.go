package shopping

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

// CheckedItem records one ingredient ticked off during a trip, with the stock
// and expiry grading captured at check time. It is immutable.
type CheckedItem struct {
	ingredientID   uuid.UUID
	ingredientName string
	stockStatus    StockStatus
	expiryStatus   option.Option[ExpiryStatus]
	checkedAt      time.Time
}

func NewCheckedItem(ingredientID uuid.UUID, name string, stock StockStatus, expiry option.Option[ExpiryStatus], checkedAt time.Time) (CheckedItem, error) {
	const op = "Shopping.CheckedItem.New"
	name = strings.TrimSpace(name)
	switch {
	case ingredientID == uuid.Nil:
		return CheckedItem{}, validation(op, "ingredient id is required")
	case name == "":
		return CheckedItem{}, validation(op, "ingredient name is required")
	case !stock.Valid():
		return CheckedItem{}, validation(op, "stock status is invalid")
	case checkedAt.IsZero():
		return CheckedItem{}, validation(op, "checked_at is required")
	}
	if e, ok := expiry.Get(); ok && !e.Valid() {
		return CheckedItem{}, validation(op, "expiry status is invalid")
	}
	return CheckedItem{
		ingredientID:   ingredientID,
		ingredientName: name,
		stockStatus:    stock,
		expiryStatus:   expiry,
		checkedAt:      checkedAt,
	}, nil
}

func (c CheckedItem) IngredientID() uuid.UUID                   { return c.ingredientID }
func (c CheckedItem) IngredientName() string                    { return c.ingredientName }
func (c CheckedItem) StockStatus() StockStatus                  { return c.stockStatus }
func (c CheckedItem) ExpiryStatus() option.Option[ExpiryStatus] { return c.expiryStatus }
func (c CheckedItem) CheckedAt() time.Time                      { return c.checkedAt }

// Equal compares by ingredient id and check time.
func (c CheckedItem) Equal(other CheckedItem) bool {
	return c.ingredientID == other.ingredientID && c.checkedAt.Equal(other.checkedAt)
}

// NeedsAttention is true for low or missing stock, or anything expiring within three days.
func (c CheckedItem) NeedsAttention() bool {
	if c.stockStatus == StockLow || c.stockStatus == StockOutOfStock {
		return true
	}
	e, ok := c.expiryStatus.Get()
	return ok && e.Priority() >= ExpiryExpiringSoon.Priority()
}
