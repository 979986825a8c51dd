package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PantryIngredient struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	BestBefore *time.Time `json:"best_before,omitempty"`
	UseBy      *time.Time `json:"use_by,omitempty"`

	Stock *PantryStock `gorm:"foreignKey:IngredientID" json:"stock,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PantryIngredient) TableName() string { return "pantry_ingredient" }

type PantryStock struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	IngredientID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex" json:"ingredient_id"`
	Quantity     decimal.Decimal     `gorm:"type:numeric(14,3);not null" json:"quantity"`
	Unit         string              `gorm:"type:varchar(32)" json:"unit"`
	LowThreshold decimal.NullDecimal `gorm:"type:numeric(14,3)" json:"low_threshold"`

	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PantryStock) TableName() string { return "pantry_stock" }
