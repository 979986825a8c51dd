package shopping

import (
	"time"

	"github.com/yungbote/pantry-backend/internal/domain/pantry"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

// SnapshotOf grades an ingredient as of today. An ingredient with no stock
// record is OUT_OF_STOCK; one with no expiry dates carries no expiry status.
func SnapshotOf(ing pantry.Ingredient, today time.Time) ItemSnapshot {
	stock := StockOutOfStock
	if st, ok := ing.Stock.Get(); ok {
		stock = ClassifyStock(st.Quantity(), st.LowThreshold())
	}
	expiry := option.None[ExpiryStatus]()
	if ing.TracksExpiry() {
		expiry = option.Some(ClassifyExpiry(today, ing.BestBefore, ing.UseBy))
	}
	return ItemSnapshot{
		IngredientID:   ing.ID,
		IngredientName: ing.Name,
		Stock:          stock,
		Expiry:         expiry,
	}
}
