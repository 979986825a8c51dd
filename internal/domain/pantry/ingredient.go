package pantry

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

// Ingredient is a pantry item owned by one user together with its current stock.
// Stock is None when no stock record exists yet.
type Ingredient struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	Stock      option.Option[Stock]
	BestBefore option.Option[time.Time]
	UseBy      option.Option[time.Time]
}

func (i Ingredient) OwnedBy(userID uuid.UUID) bool {
	return i.UserID != uuid.Nil && i.UserID == userID
}

// TracksExpiry reports whether any expiry date is recorded.
func (i Ingredient) TracksExpiry() bool {
	return i.BestBefore.IsSome() || i.UseBy.IsSome()
}
