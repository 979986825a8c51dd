package shopping

import (
	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/data/models"
	domain "github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

func toSessionRecord(s domain.Session) models.ShoppingSession {
	st := s.State()
	rec := models.ShoppingSession{
		ID:          st.ID,
		UserID:      st.UserID,
		Status:      string(st.Status),
		StartedAt:   st.StartedAt,
		CompletedAt: st.CompletedAt.Ptr(),
		DeviceType:  st.DeviceType.Ptr(),
		Version:     st.Version,
	}
	if loc, ok := st.Location.Get(); ok {
		rec.Latitude = &loc.Latitude
		rec.Longitude = &loc.Longitude
		rec.PlaceName = loc.PlaceName.Ptr()
	}
	rec.Items = make([]models.ShoppingSessionItem, 0, len(st.Items))
	for i, it := range st.Items {
		rec.Items = append(rec.Items, toItemRecord(st.ID, i, it))
	}
	return rec
}

func toItemRecord(sessionID uuid.UUID, position int, it domain.CheckedItem) models.ShoppingSessionItem {
	rec := models.ShoppingSessionItem{
		ID:             uuid.New(),
		SessionID:      sessionID,
		IngredientID:   it.IngredientID(),
		IngredientName: it.IngredientName(),
		StockStatus:    string(it.StockStatus()),
		CheckedAt:      it.CheckedAt(),
		Position:       position,
	}
	if e, ok := it.ExpiryStatus().Get(); ok {
		s := string(e)
		rec.ExpiryStatus = &s
	}
	return rec
}

func fromSessionRecord(rec models.ShoppingSession, items []models.ShoppingSessionItem) (domain.Session, error) {
	st := domain.SessionState{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Status:      domain.SessionStatus(rec.Status),
		StartedAt:   rec.StartedAt,
		CompletedAt: option.FromPtr(rec.CompletedAt),
		DeviceType:  option.FromPtr(rec.DeviceType),
		Version:     rec.Version,
	}
	if rec.Latitude != nil && rec.Longitude != nil {
		st.Location = option.Some(domain.Location{
			Latitude:  *rec.Latitude,
			Longitude: *rec.Longitude,
			PlaceName: option.FromPtr(rec.PlaceName),
		})
	}
	for _, ir := range items {
		it, err := fromItemRecord(ir)
		if err != nil {
			return domain.Session{}, err
		}
		st.Items = append(st.Items, it)
	}
	return domain.Rehydrate(st)
}

func fromItemRecord(rec models.ShoppingSessionItem) (domain.CheckedItem, error) {
	stock, err := domain.ParseStockStatus(rec.StockStatus)
	if err != nil {
		return domain.CheckedItem{}, err
	}
	expiry := option.None[domain.ExpiryStatus]()
	if rec.ExpiryStatus != nil {
		e, err := domain.ParseExpiryStatus(*rec.ExpiryStatus)
		if err != nil {
			return domain.CheckedItem{}, err
		}
		expiry = option.Some(e)
	}
	return domain.NewCheckedItem(rec.IngredientID, rec.IngredientName, stock, expiry, rec.CheckedAt)
}
