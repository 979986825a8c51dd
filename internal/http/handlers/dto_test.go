package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

func TestCheckedItemDTORoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 10, 9, 30, 15, 123000000, time.UTC)
	cases := []struct {
		name   string
		stock  shopping.StockStatus
		expiry option.Option[shopping.ExpiryStatus]
	}{
		{name: "critical", stock: shopping.StockLow, expiry: option.Some(shopping.ExpiryCritical)},
		{name: "untracked expiry", stock: shopping.StockInStock, expiry: option.None[shopping.ExpiryStatus]()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orig, err := shopping.NewCheckedItem(uuid.New(), "Milk", tc.stock, tc.expiry, at)
			if err != nil {
				t.Fatalf("NewCheckedItem: %v", err)
			}
			raw, err := json.Marshal(CheckedItemToDTO(orig))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var dto CheckedItemDTO
			if err := json.Unmarshal(raw, &dto); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			back, err := CheckedItemFromDTO(dto)
			if err != nil {
				t.Fatalf("CheckedItemFromDTO: %v", err)
			}
			if back.IngredientID() != orig.IngredientID() || back.IngredientName() != orig.IngredientName() {
				t.Fatalf("identity changed: %+v vs %+v", back, orig)
			}
			if back.StockStatus() != orig.StockStatus() {
				t.Fatalf("stock: want=%s got=%s", orig.StockStatus(), back.StockStatus())
			}
			if back.ExpiryStatus() != orig.ExpiryStatus() {
				t.Fatalf("expiry: want=%v got=%v", orig.ExpiryStatus(), back.ExpiryStatus())
			}
			if !back.CheckedAt().Equal(orig.CheckedAt()) {
				t.Fatalf("checked_at: want=%s got=%s", orig.CheckedAt(), back.CheckedAt())
			}
		})
	}
}

func TestCheckedItemFromDTORejectsUnknownStatus(t *testing.T) {
	bad := "ROTTEN"
	_, err := CheckedItemFromDTO(CheckedItemDTO{
		IngredientID:   uuid.New(),
		IngredientName: "Milk",
		StockStatus:    "IN_STOCK",
		ExpiryStatus:   &bad,
		CheckedAt:      time.Now(),
	})
	if err == nil {
		t.Fatalf("expected error for unknown expiry status")
	}
}
