package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/pantry-backend/internal/data/models"
)

func SeedIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *models.PantryIngredient {
	tb.Helper()
	now := time.Now().UTC()
	ing := &models.PantryIngredient{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(ing).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return ing
}

func SeedStock(tb testing.TB, ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID, qty, low string) *models.PantryStock {
	tb.Helper()
	st := &models.PantryStock{
		ID:           uuid.New(),
		IngredientID: ingredientID,
		Quantity:     decimal.RequireFromString(qty),
		Unit:         "pcs",
		UpdatedAt:    time.Now().UTC(),
	}
	if low != "" {
		st.LowThreshold = decimal.NewNullDecimal(decimal.RequireFromString(low))
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed stock: %v", err)
	}
	return st
}
