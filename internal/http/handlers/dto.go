package handlers

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceName *string `json:"place_name,omitempty"`
}

type CheckedItemDTO struct {
	IngredientID   uuid.UUID `json:"ingredient_id"`
	IngredientName string    `json:"ingredient_name"`
	StockStatus    string    `json:"stock_status"`
	ExpiryStatus   *string   `json:"expiry_status"`
	CheckedAt      time.Time `json:"checked_at"`
	NeedsAttention bool      `json:"needs_attention"`
}

type SessionDTO struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	Status           string           `json:"status"`
	StartedAt        time.Time        `json:"started_at"`
	CompletedAt      *time.Time       `json:"completed_at"`
	DeviceType       *string          `json:"device_type,omitempty"`
	Location         *LocationDTO     `json:"location,omitempty"`
	Items            []CheckedItemDTO `json:"items"`
	CheckedItemCount int              `json:"checked_item_count"`
	AttentionCount   int              `json:"attention_count"`
	DurationMS       int64            `json:"duration_ms"`
	Version          int              `json:"version"`
}

// SessionToDTO renders s; now is used for the running duration of an active
// session. prioritized orders items by urgency instead of check time.
func SessionToDTO(s shopping.Session, now time.Time, prioritized bool) SessionDTO {
	items := s.CheckedItems()
	if prioritized {
		items = s.PrioritizedItems()
	}
	dto := SessionDTO{
		ID:               s.ID(),
		UserID:           s.UserID(),
		Status:           string(s.Status()),
		StartedAt:        s.StartedAt(),
		CompletedAt:      s.CompletedAt().Ptr(),
		DeviceType:       s.DeviceType().Ptr(),
		Items:            make([]CheckedItemDTO, 0, len(items)),
		CheckedItemCount: s.CheckedItemCount(),
		AttentionCount:   len(s.AttentionItems()),
		DurationMS:       s.DurationMillis(now),
		Version:          s.Version(),
	}
	if loc, ok := s.Location().Get(); ok {
		dto.Location = &LocationDTO{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			PlaceName: loc.PlaceName.Ptr(),
		}
	}
	for _, it := range items {
		dto.Items = append(dto.Items, CheckedItemToDTO(it))
	}
	return dto
}

func CheckedItemToDTO(it shopping.CheckedItem) CheckedItemDTO {
	dto := CheckedItemDTO{
		IngredientID:   it.IngredientID(),
		IngredientName: it.IngredientName(),
		StockStatus:    string(it.StockStatus()),
		CheckedAt:      it.CheckedAt(),
		NeedsAttention: it.NeedsAttention(),
	}
	if e, ok := it.ExpiryStatus().Get(); ok {
		v := string(e)
		dto.ExpiryStatus = &v
	}
	return dto
}

// CheckedItemFromDTO parses a transported item back into the domain value.
func CheckedItemFromDTO(dto CheckedItemDTO) (shopping.CheckedItem, error) {
	stock, err := shopping.ParseStockStatus(dto.StockStatus)
	if err != nil {
		return shopping.CheckedItem{}, fmt.Errorf("stock_status: %w", err)
	}
	expiry := option.None[shopping.ExpiryStatus]()
	if dto.ExpiryStatus != nil {
		e, err := shopping.ParseExpiryStatus(*dto.ExpiryStatus)
		if err != nil {
			return shopping.CheckedItem{}, fmt.Errorf("expiry_status: %w", err)
		}
		expiry = option.Some(e)
	}
	return shopping.NewCheckedItem(dto.IngredientID, dto.IngredientName, stock, expiry, dto.CheckedAt)
}
