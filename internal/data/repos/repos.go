package repos

import (
	"github.com/yungbote/pantry-backend/internal/data/repos/pantry"
	"github.com/yungbote/pantry-backend/internal/data/repos/shopping"
)

type IngredientRepo = pantry.IngredientRepo
type EventRepo = shopping.EventRepo

var (
	NewIngredientRepo = pantry.NewIngredientRepo
	NewSessionRepo    = shopping.NewSessionRepo
	NewEventRepo      = shopping.NewEventRepo
)
