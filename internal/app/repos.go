package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/pantry-backend/internal/data/repos"
	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/platform/logger"
)

type Repos struct {
	Sessions    shopping.SessionRepository
	Ingredients repos.IngredientRepo
	Events      repos.EventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Sessions:    repos.NewSessionRepo(db, log),
		Ingredients: repos.NewIngredientRepo(db, log),
		Events:      repos.NewEventRepo(db, log),
	}
}
