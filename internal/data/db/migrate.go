package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/pantry-backend/internal/data/models"
)

// partialIndexes cannot be expressed as struct tags. Both postgres and sqlite
// accept this syntax.
var partialIndexes = []string{
	// One ACTIVE shopping session per user.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_shopping_session_active_user ON shopping_session (user_id) WHERE status = 'ACTIVE'`,
	`CREATE INDEX IF NOT EXISTS ix_shopping_session_active_started ON shopping_session (started_at) WHERE status = 'ACTIVE'`,
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
