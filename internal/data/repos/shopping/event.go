package shopping

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/pantry-backend/internal/data/models"
	domain "github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

type EventRepo interface {
	domain.EventLog
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*models.ShoppingSessionEvent, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (r *eventRepo) Append(dbc dbctx.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	rows := make([]models.ShoppingSessionEvent, 0, len(events))
	now := time.Now().UTC()
	for _, ev := range events {
		if ev == nil {
			continue
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", ev.EventName(), err)
		}
		meta := ev.EventMetadata()
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal %s metadata: %w", ev.EventName(), err)
		}
		userID, _ := uuid.Parse(meta[domain.MetaUserID])
		rows = append(rows, models.ShoppingSessionEvent{
			ID:         ev.EventID(),
			SessionID:  ev.SessionID(),
			UserID:     userID,
			Name:       ev.EventName(),
			OccurredAt: ev.OccurredAt().UTC(),
			Payload:    datatypes.JSON(payload),
			Metadata:   datatypes.JSON(metaJSON),
			CreatedAt:  now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.Create(&rows).Error
}

func (r *eventRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*models.ShoppingSessionEvent, error) {
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	var results []*models.ShoppingSessionEvent
	if sessionID == uuid.Nil {
		return results, nil
	}
	if err := transaction.
		Where("session_id = ?", sessionID).
		Order("occurred_at ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
