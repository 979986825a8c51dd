package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ShoppingSession struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Status      string     `gorm:"type:varchar(16);not null;index" json:"status"`
	StartedAt   time.Time  `gorm:"not null;index" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DeviceType  *string    `gorm:"type:varchar(64)" json:"device_type,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	PlaceName   *string    `gorm:"type:varchar(255)" json:"place_name,omitempty"`
	Version     int        `gorm:"not null;default:1" json:"version"`

	Items []ShoppingSessionItem `gorm:"foreignKey:SessionID" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ShoppingSession) TableName() string { return "shopping_session" }

type ShoppingSessionItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_shopping_session_item_ingredient,priority:1" json:"session_id"`
	IngredientID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_shopping_session_item_ingredient,priority:2" json:"ingredient_id"`
	IngredientName string    `gorm:"type:varchar(255);not null" json:"ingredient_name"`
	StockStatus    string    `gorm:"type:varchar(16);not null" json:"stock_status"`
	ExpiryStatus   *string   `gorm:"type:varchar(16)" json:"expiry_status,omitempty"`
	CheckedAt      time.Time `gorm:"not null" json:"checked_at"`
	Position       int       `gorm:"not null" json:"position"`
}

func (ShoppingSessionItem) TableName() string { return "shopping_session_item" }

// ShoppingSessionEvent is the append-only audit log of session events.
type ShoppingSessionEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string         `gorm:"type:varchar(64);not null;index" json:"name"`
	OccurredAt time.Time      `gorm:"not null;index" json:"occurred_at"`
	Payload    datatypes.JSON `json:"payload"`
	Metadata   datatypes.JSON `json:"metadata"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (ShoppingSessionEvent) TableName() string { return "shopping_session_event" }
