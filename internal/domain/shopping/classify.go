package shopping

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

// Expiry thresholds in whole days until the effective date.
const (
	criticalWithinDays     = 1
	expiringSoonWithinDays = 3
	nearExpiryWithinDays   = 7
)

// ClassifyStock grades a quantity against an optional low-stock threshold.
// Without a threshold an item is never LOW_STOCK.
func ClassifyStock(quantity decimal.Decimal, threshold option.Option[decimal.Decimal]) StockStatus {
	if !quantity.IsPositive() {
		return StockOutOfStock
	}
	if t, ok := threshold.Get(); ok && quantity.LessThanOrEqual(t) {
		return StockLow
	}
	return StockInStock
}

// ClassifyExpiry grades the effective expiry date against today. Best-before
// wins over use-by when both are set. Items without dates are FRESH.
func ClassifyExpiry(today time.Time, bestBefore, useBy option.Option[time.Time]) ExpiryStatus {
	effective, ok := bestBefore.Get()
	if !ok {
		effective, ok = useBy.Get()
	}
	if !ok {
		return ExpiryFresh
	}
	diff := DaysUntil(today, effective)
	switch {
	case diff < 0:
		return ExpiryExpired
	case diff <= criticalWithinDays:
		return ExpiryCritical
	case diff <= expiringSoonWithinDays:
		return ExpiryExpiringSoon
	case diff <= nearExpiryWithinDays:
		return ExpiryNearExpiry
	default:
		return ExpiryFresh
	}
}

// ClassifyExpiryLevel is ClassifyExpiry projected onto the three-level scale.
func ClassifyExpiryLevel(today time.Time, bestBefore, useBy option.Option[time.Time]) ExpiryLevel {
	return ClassifyExpiry(today, bestBefore, useBy).Level()
}

// DaysUntil counts calendar days from today to date. today is read in its own
// location; date is a calendar date and only its year, month and day are used.
func DaysUntil(today, date time.Time) int {
	ty, tm, td := today.Date()
	dy, dm, dd := date.Date()
	from := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	to := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
