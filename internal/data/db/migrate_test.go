package db

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/pantry-backend/internal/data/models"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return gdb
}

func TestAutoMigrateEnforcesOneActiveSessionPerUser(t *testing.T) {
	gdb := openMemory(t)
	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	// Idempotent.
	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("second AutoMigrateAll: %v", err)
	}

	userID := uuid.New()
	mk := func(status string) *models.ShoppingSession {
		return &models.ShoppingSession{ID: uuid.New(), UserID: userID, Status: status, Version: 1}
	}
	if err := gdb.Create(mk("COMPLETED")).Error; err != nil {
		t.Fatalf("insert completed: %v", err)
	}
	if err := gdb.Create(mk("ACTIVE")).Error; err != nil {
		t.Fatalf("insert active: %v", err)
	}
	if err := gdb.Create(mk("ABANDONED")).Error; err != nil {
		t.Fatalf("terminal sessions must not collide: %v", err)
	}
	if err := gdb.Create(mk("ACTIVE")).Error; err == nil {
		t.Fatalf("expected unique violation for a second active session")
	}
}
