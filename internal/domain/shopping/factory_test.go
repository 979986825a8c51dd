package shopping

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/pantry-backend/internal/domain/aggregates"
	"github.com/yungbote/pantry-backend/internal/domain/pantry"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

type activeFinderStub struct {
	active map[uuid.UUID]Session
	err    error
}

func (f *activeFinderStub) FindActiveByUserID(_ dbctx.Context, userID uuid.UUID) (*Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.active[userID]; ok {
		return &s, nil
	}
	return nil, nil
}

func TestFactoryCreate(t *testing.T) {
	clk := clock.NewManual(t0)
	finder := &activeFinderStub{active: map[uuid.UUID]Session{}}
	f := NewFactory(finder, clk)
	userID := uuid.New()

	s, events, err := f.Create(dbctx.Context{}, userID, StartOptions{DeviceType: option.Some("")}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID() == uuid.Nil || s.UserID() != userID || !s.StartedAt().Equal(t0) {
		t.Fatalf("unexpected session: id=%s user=%s started=%s", s.ID(), s.UserID(), s.StartedAt())
	}
	if s.DeviceType().IsSome() {
		t.Fatalf("empty device type should be dropped")
	}
	if len(events) != 1 || events[0].EventName() != EventSessionStarted {
		t.Fatalf("expected SessionStarted event, got %+v", events)
	}
}

func TestFactoryRejectsSecondActiveSession(t *testing.T) {
	userID := uuid.New()
	existing, _ := newSession(uuid.New(), userID, t0, StartOptions{}, nil)
	f := NewFactory(&activeFinderStub{active: map[uuid.UUID]Session{userID: existing}}, clock.NewManual(t0))

	_, events, err := f.Create(dbctx.Context{}, userID, StartOptions{}, nil)
	if !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("want ErrAlreadyActive got %v", err)
	}
	if !aggregates.IsCode(err, aggregates.CodeInvalidState) {
		t.Fatalf("code: want=invalid_state got=%s", aggregates.CodeOf(err))
	}
	if len(events) != 0 {
		t.Fatalf("no events on failure")
	}
}

func TestFactoryPropagatesRepositoryError(t *testing.T) {
	boom := errors.New("db down")
	f := NewFactory(&activeFinderStub{err: boom}, clock.NewManual(t0))
	if _, _, err := f.Create(dbctx.Context{}, uuid.New(), StartOptions{}, nil); !errors.Is(err, boom) {
		t.Fatalf("want repository error, got %v", err)
	}
	if _, _, err := f.Create(dbctx.Context{}, uuid.Nil, StartOptions{}, nil); !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("nil user should fail validation, got %v", err)
	}
}

func TestSnapshotOf(t *testing.T) {
	today := time.Date(2024, time.January, 10, 18, 0, 0, 0, time.UTC)
	ing := pantry.Ingredient{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Name:       "Milk",
		Stock:      option.Some(pantry.NewStock(decimal.Zero, "l", option.Some(decimal.NewFromInt(2)))),
		BestBefore: option.Some(time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)),
	}
	s := SnapshotOf(ing, today)
	if s.Stock != StockOutOfStock {
		t.Fatalf("stock: want=OUT_OF_STOCK got=%s", s.Stock)
	}
	if e, ok := s.Expiry.Get(); !ok || e != ExpiryCritical {
		t.Fatalf("expiry: want=CRITICAL got=%v", s.Expiry)
	}

	bare := pantry.Ingredient{ID: uuid.New(), Name: "Salt"}
	s = SnapshotOf(bare, today)
	if s.Stock != StockOutOfStock {
		t.Fatalf("missing stock record: want=OUT_OF_STOCK got=%s", s.Stock)
	}
	if s.Expiry.IsSome() {
		t.Fatalf("no dates tracked: expiry should be absent")
	}
}
