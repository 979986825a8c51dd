package pantry

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/pantry-backend/internal/data/models"
	domain "github.com/yungbote/pantry-backend/internal/domain/pantry"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

type IngredientRepo interface {
	FindByID(dbc dbctx.Context, id uuid.UUID) (*domain.Ingredient, error)
	Create(dbc dbctx.Context, ing domain.Ingredient) (*domain.Ingredient, error)
	UpsertStock(dbc dbctx.Context, ingredientID uuid.UUID, stock domain.Stock) error
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	repoLog := baseLog.With("repo", "IngredientRepo")
	return &ingredientRepo{db: db, log: repoLog}
}

func (r *ingredientRepo) FindByID(dbc dbctx.Context, id uuid.UUID) (*domain.Ingredient, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	var rec models.PantryIngredient
	err := transaction.Preload("Stock").Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ing := fromIngredientRecord(rec)
	return &ing, nil
}

func (r *ingredientRepo) Create(dbc dbctx.Context, ing domain.Ingredient) (*domain.Ingredient, error) {
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	if ing.ID == uuid.Nil {
		ing.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec := models.PantryIngredient{
		ID:         ing.ID,
		UserID:     ing.UserID,
		Name:       ing.Name,
		BestBefore: ing.BestBefore.Ptr(),
		UseBy:      ing.UseBy.Ptr(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if stock, ok := ing.Stock.Get(); ok {
		rec.Stock = toStockRecord(ing.ID, stock, now)
	}
	if err := transaction.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *ingredientRepo) UpsertStock(dbc dbctx.Context, ingredientID uuid.UUID, stock domain.Stock) error {
	transaction := dbc.DB(r.db).WithContext(dbc.Ctx)
	rec := toStockRecord(ingredientID, stock, time.Now().UTC())
	return transaction.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ingredient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit", "low_threshold", "updated_at"}),
	}).Create(rec).Error
}

func toStockRecord(ingredientID uuid.UUID, stock domain.Stock, at time.Time) *models.PantryStock {
	rec := &models.PantryStock{
		ID:           uuid.New(),
		IngredientID: ingredientID,
		Quantity:     stock.Quantity(),
		Unit:         stock.Unit(),
		UpdatedAt:    at,
	}
	if t, ok := stock.LowThreshold().Get(); ok {
		rec.LowThreshold = decimal.NullDecimal{Decimal: t, Valid: true}
	}
	return rec
}

func fromIngredientRecord(rec models.PantryIngredient) domain.Ingredient {
	ing := domain.Ingredient{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Name:       rec.Name,
		BestBefore: option.FromPtr(rec.BestBefore),
		UseBy:      option.FromPtr(rec.UseBy),
		Stock:      option.None[domain.Stock](),
	}
	if rec.Stock != nil {
		threshold := option.None[decimal.Decimal]()
		if rec.Stock.LowThreshold.Valid {
			threshold = option.Some(rec.Stock.LowThreshold.Decimal)
		}
		ing.Stock = option.Some(domain.NewStock(rec.Stock.Quantity, rec.Stock.Unit, threshold))
	}
	return ing
}
