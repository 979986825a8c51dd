package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/pantry-backend/internal/domain/aggregates"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

// TxRunner opens the transaction an aggregate write runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type tracedTxRunner struct {
	db     *gorm.DB
	tracer trace.Tracer
}

// NewTxRunner returns a GORM-backed runner that records one span per transaction.
func NewTxRunner(db *gorm.DB) TxRunner {
	return &tracedTxRunner{db: db, tracer: otel.Tracer("pantry/aggregates")}
}

func (r *tracedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured", nil)
	}
	ctx, span := r.tracer.Start(ctx, "aggregate.tx")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rolled back")
	}
	return err
}

// VersionedRow addresses a row guarded by an integer version column.
type VersionedRow struct {
	Table    string
	ID       uuid.UUID
	Expected int
}

// AdvanceVersion applies set only while the row still sits at Expected and
// moves it to Expected+1. ok is false when another writer got there first or
// the row is gone.
func AdvanceVersion(tx *gorm.DB, row VersionedRow, set map[string]any) (next int, ok bool, err error) {
	if tx == nil {
		return 0, false, ValidationError("versioned update requires a transaction")
	}
	table := strings.TrimSpace(row.Table)
	if table == "" || row.ID == uuid.Nil {
		return 0, false, ValidationError("versioned update needs a table and an id")
	}
	if row.Expected < 0 {
		return 0, false, ValidationError(fmt.Sprintf("expected version %d is negative", row.Expected))
	}

	next = row.Expected + 1
	cols := make(map[string]any, len(set)+1)
	for k, v := range set {
		cols[k] = v
	}
	cols["version"] = next

	res := tx.Table(table).Where("id = ? AND version = ?", row.ID, row.Expected).Updates(cols)
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return row.Expected, false, nil
	}
	return next, true, nil
}
