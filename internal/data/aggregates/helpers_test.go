package aggregates_test

import (
	"context"

	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

func dbcNone() dbctx.Context {
	return dbctx.Of(context.Background())
}
