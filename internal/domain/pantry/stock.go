package pantry

import (
	"github.com/shopspring/decimal"

	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

// Stock is the on-hand quantity of one ingredient. Quantity never goes below zero.
type Stock struct {
	quantity     decimal.Decimal
	unit         string
	lowThreshold option.Option[decimal.Decimal]
}

func NewStock(quantity decimal.Decimal, unit string, lowThreshold option.Option[decimal.Decimal]) Stock {
	return Stock{
		quantity:     clamp(quantity),
		unit:         unit,
		lowThreshold: lowThreshold,
	}
}

func (s Stock) Quantity() decimal.Decimal                    { return s.quantity }
func (s Stock) Unit() string                                 { return s.unit }
func (s Stock) LowThreshold() option.Option[decimal.Decimal] { return s.lowThreshold }

func (s Stock) IsEmpty() bool { return !s.quantity.IsPositive() }

// Add returns the stock increased by n. Negative n behaves like Subtract.
func (s Stock) Add(n decimal.Decimal) Stock {
	s.quantity = clamp(s.quantity.Add(n))
	return s
}

// Subtract returns the stock decreased by n, floored at zero.
func (s Stock) Subtract(n decimal.Decimal) Stock {
	s.quantity = clamp(s.quantity.Sub(n))
	return s
}

func (s Stock) WithLowThreshold(t option.Option[decimal.Decimal]) Stock {
	s.lowThreshold = t
	return s
}

func clamp(q decimal.Decimal) decimal.Decimal {
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}
