// Package models holds the GORM records backing the domain repositories.
package models

// All lists every record for AutoMigrate.
func All() []any {
	return []any{
		&PantryIngredient{},
		&PantryStock{},
		&ShoppingSession{},
		&ShoppingSessionItem{},
		&ShoppingSessionEvent{},
	}
}
