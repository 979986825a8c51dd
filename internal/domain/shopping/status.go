package shopping

import (
	"fmt"
	"strings"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionAbandoned SessionStatus = "ABANDONED"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionActive, SessionCompleted, SessionAbandoned:
		return true
	}
	return false
}

func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// StockStatus is ordered by urgency: IN_STOCK < LOW_STOCK < OUT_OF_STOCK.
type StockStatus string

const (
	StockInStock    StockStatus = "IN_STOCK"
	StockLow        StockStatus = "LOW_STOCK"
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
)

func (s StockStatus) Priority() int {
	switch s {
	case StockInStock:
		return 1
	case StockLow:
		return 2
	case StockOutOfStock:
		return 3
	}
	return 0
}

func (s StockStatus) Valid() bool { return s.Priority() > 0 }

func ParseStockStatus(raw string) (StockStatus, error) {
	s := StockStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown stock status %q", raw)
	}
	return s, nil
}

// ExpiryStatus is the canonical five-level expiry scale, ordered by urgency.
type ExpiryStatus string

const (
	ExpiryFresh        ExpiryStatus = "FRESH"
	ExpiryNearExpiry   ExpiryStatus = "NEAR_EXPIRY"
	ExpiryExpiringSoon ExpiryStatus = "EXPIRING_SOON"
	ExpiryCritical     ExpiryStatus = "CRITICAL"
	ExpiryExpired      ExpiryStatus = "EXPIRED"
)

func (s ExpiryStatus) Priority() int {
	switch s {
	case ExpiryFresh:
		return 1
	case ExpiryNearExpiry:
		return 2
	case ExpiryExpiringSoon:
		return 3
	case ExpiryCritical:
		return 4
	case ExpiryExpired:
		return 5
	}
	return 0
}

func (s ExpiryStatus) Valid() bool { return s.Priority() > 0 }

// Level projects the five-level scale onto the coarse three-level one.
func (s ExpiryStatus) Level() ExpiryLevel {
	switch s {
	case ExpiryExpired:
		return LevelExpired
	case ExpiryCritical, ExpiryExpiringSoon:
		return LevelExpiringSoon
	default:
		return LevelFresh
	}
}

func ParseExpiryStatus(raw string) (ExpiryStatus, error) {
	s := ExpiryStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown expiry status %q", raw)
	}
	return s, nil
}

// ExpiryLevel is the three-level expiry scale shown to clients that do not
// need the finer grading.
type ExpiryLevel string

const (
	LevelFresh        ExpiryLevel = "FRESH"
	LevelExpiringSoon ExpiryLevel = "EXPIRING_SOON"
	LevelExpired      ExpiryLevel = "EXPIRED"
)
