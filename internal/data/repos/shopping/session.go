package shopping

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/pantry-backend/internal/data/aggregates"
	"github.com/yungbote/pantry-backend/internal/data/models"
	domain "github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

const sessionTable = "shopping_session"

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) domain.SessionRepository {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (r *sessionRepo) FindActiveByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.Session, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	var rec models.ShoppingSession
	err := transaction.
		Where("user_id = ? AND status = ?", userID, string(domain.SessionActive)).
		Order("started_at DESC").
		Limit(1).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.hydrate(transaction, rec)
}

func (r *sessionRepo) FindByID(dbc dbctx.Context, id uuid.UUID) (*domain.Session, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	var rec models.ShoppingSession
	err := transaction.Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.hydrate(transaction, rec)
}

func (r *sessionRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Session, error) {
	if dbc.Tx == nil {
		return nil, aggregates.ValidationError("LockByID requires a transaction")
	}
	if id == uuid.Nil {
		return nil, nil
	}
	transaction := dbc.Tx.WithContext(dbc.Ctx)
	var rec models.ShoppingSession
	err := transaction.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.hydrate(transaction, rec)
}

func (r *sessionRepo) Save(dbc dbctx.Context, s domain.Session) (domain.Session, error) {
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	rec := toSessionRecord(s)
	rec.Version = 1
	items := rec.Items
	rec.Items = nil

	err := transaction.Transaction(func(txx *gorm.DB) error {
		if err := txx.Create(&rec).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return txx.Create(&items).Error
	})
	if err != nil {
		return domain.Session{}, err
	}
	return s.Persisted(rec.Version), nil
}

func (r *sessionRepo) Update(dbc dbctx.Context, s domain.Session) (domain.Session, bool, error) {
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	next := s.Version()
	ok := false

	err := transaction.Transaction(func(txx *gorm.DB) error {
		var err error
		next, ok, err = aggregates.AdvanceVersion(txx, aggregates.VersionedRow{
			Table:    sessionTable,
			ID:       s.ID(),
			Expected: s.Version(),
		}, map[string]any{
			"status":       string(s.Status()),
			"completed_at": s.CompletedAt().Ptr(),
			"updated_at":   time.Now().UTC(),
		})
		if err != nil || !ok {
			return err
		}

		var stored int64
		if err := txx.Model(&models.ShoppingSessionItem{}).Where("session_id = ?", s.ID()).Count(&stored).Error; err != nil {
			return err
		}
		items := s.CheckedItems()
		if int(stored) >= len(items) {
			return nil
		}
		fresh := make([]models.ShoppingSessionItem, 0, len(items)-int(stored))
		for i := int(stored); i < len(items); i++ {
			fresh = append(fresh, toItemRecord(s.ID(), i, items[i]))
		}
		return txx.Create(&fresh).Error
	})
	if err != nil {
		return domain.Session{}, false, err
	}
	if !ok {
		r.log.Debug("session version moved", "session_id", s.ID().String(), "expected_version", s.Version())
		return s, false, nil
	}
	return s.Persisted(next), true, nil
}

func (r *sessionRepo) ListStaleActive(dbc dbctx.Context, startedBefore time.Time, limit int) ([]uuid.UUID, error) {
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	if limit <= 0 {
		limit = 100
	}
	var ids []uuid.UUID
	err := transaction.Model(&models.ShoppingSession{}).
		Where("status = ? AND started_at < ?", string(domain.SessionActive), startedBefore.UTC()).
		Order("started_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sessionRepo) hydrate(transaction *gorm.DB, rec models.ShoppingSession) (*domain.Session, error) {
	var items []models.ShoppingSessionItem
	if err := transaction.
		Where("session_id = ?", rec.ID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	s, err := fromSessionRecord(rec, items)
	if err != nil {
		r.log.Error("stored session failed invariant checks", "session_id", rec.ID.String(), "error", err)
		return nil, err
	}
	return &s, nil
}
