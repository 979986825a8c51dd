package shopping

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/domain/aggregates"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

var t0 = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)

func startedSession(t *testing.T) Session {
	t.Helper()
	s, events := newSession(uuid.New(), uuid.New(), t0, StartOptions{}, nil)
	if len(events) != 1 {
		t.Fatalf("start events: want=1 got=%d", len(events))
	}
	return s
}

func snap(name string, stock StockStatus) ItemSnapshot {
	return ItemSnapshot{IngredientID: uuid.New(), IngredientName: name, Stock: stock}
}

func TestNewSessionEmitsStarted(t *testing.T) {
	userID := uuid.New()
	s, events := newSession(uuid.New(), userID, t0, StartOptions{DeviceType: option.Some("ios")}, map[string]string{"request_id": "r1"})

	if !s.IsNew() || !s.IsActive() {
		t.Fatalf("new session should be new and active")
	}
	if s.CompletedAt().IsSome() {
		t.Fatalf("active session must not have completed_at")
	}
	started, ok := events[0].(SessionStarted)
	if !ok {
		t.Fatalf("event type: want=SessionStarted got=%T", events[0])
	}
	if started.UserID != userID || !started.StartedAt.Equal(t0) {
		t.Fatalf("unexpected started event: %+v", started)
	}
	if started.DeviceType == nil || *started.DeviceType != "ios" {
		t.Fatalf("device type not carried on event")
	}
	meta := started.EventMetadata()
	if meta[MetaUserID] != userID.String() || meta["request_id"] != "r1" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestCheckItemAppendsAndEmits(t *testing.T) {
	s := startedSession(t)
	at := t0.Add(time.Minute)

	next, events, err := s.CheckItem(snap("Milk", StockOutOfStock), at, nil)
	if err != nil {
		t.Fatalf("CheckItem: %v", err)
	}
	if s.CheckedItemCount() != 0 {
		t.Fatalf("receiver mutated: count=%d", s.CheckedItemCount())
	}
	if next.CheckedItemCount() != 1 {
		t.Fatalf("count: want=1 got=%d", next.CheckedItemCount())
	}
	item := next.CheckedItems()[0]
	if item.StockStatus() != StockOutOfStock || !item.CheckedAt().Equal(at) {
		t.Fatalf("unexpected item: %+v", item)
	}
	ev, ok := events[0].(ItemChecked)
	if !ok || ev.CheckedCount != 1 || ev.IngredientName != "Milk" {
		t.Fatalf("unexpected event: %#v", events[0])
	}
}

func TestCheckItemRejectsDuplicate(t *testing.T) {
	s := startedSession(t)
	first := snap("Eggs", StockInStock)
	s, _, err := s.CheckItem(first, t0.Add(time.Minute), nil)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}

	again, events, err := s.CheckItem(first, t0.Add(2*time.Minute), nil)
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	if !errors.Is(err, ErrAlreadyChecked) || !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("duplicate should match ErrAlreadyChecked: %v", err)
	}
	if !aggregates.IsCode(err, aggregates.CodeInvalidState) {
		t.Fatalf("code: want=invalid_state got=%s", aggregates.CodeOf(err))
	}
	if len(events) != 0 || again.CheckedItemCount() != 1 {
		t.Fatalf("duplicate must not change state: count=%d events=%d", again.CheckedItemCount(), len(events))
	}
}

func TestCheckedItemsIsDefensiveCopy(t *testing.T) {
	s := startedSession(t)
	s, _, _ = s.CheckItem(snap("Bread", StockLow), t0, nil)

	items := s.CheckedItems()
	items[0] = CheckedItem{}
	if s.CheckedItems()[0].IngredientName() != "Bread" {
		t.Fatalf("getter leaked internal slice")
	}
}

func TestCompleteScenario(t *testing.T) {
	s := startedSession(t)
	s, _, _ = s.CheckItem(snap("Milk", StockOutOfStock), t0.Add(time.Second), nil)
	at := t0.Add(600000 * time.Millisecond)

	done, events, err := s.Complete(at, nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status() != SessionCompleted {
		t.Fatalf("status: want=COMPLETED got=%s", done.Status())
	}
	if c, ok := done.CompletedAt().Get(); !ok || !c.Equal(at) {
		t.Fatalf("completed_at not set")
	}
	ev := events[0].(SessionCompletedEvent)
	if ev.DurationMS != 600000 {
		t.Fatalf("duration: want=600000 got=%d", ev.DurationMS)
	}
	if ev.CheckedItemCount != 1 || ev.AttentionCount != 1 {
		t.Fatalf("counts: %+v", ev)
	}
	if got := done.DurationMillis(at.Add(time.Hour)); got != 600000 {
		t.Fatalf("terminal duration must be frozen: got=%d", got)
	}
}

func TestTerminalTransitions(t *testing.T) {
	s := startedSession(t)
	done, _, err := s.Complete(t0.Add(time.Minute), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if _, _, err := done.Complete(t0.Add(2*time.Minute), nil); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("complete twice: want ErrAlreadyCompleted got %v", err)
	}
	if _, _, err := done.Abandon("", t0.Add(2*time.Minute), nil); !errors.Is(err, ErrNotActive) {
		t.Fatalf("abandon after complete: want ErrNotActive got %v", err)
	}
	if _, _, err := done.CheckItem(snap("Tea", StockInStock), t0, nil); !errors.Is(err, ErrNotActive) {
		t.Fatalf("check after complete: want ErrNotActive got %v", err)
	}

	abandoned, events, err := s.Abandon("  ", t0.Add(time.Minute), nil)
	if err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if ev := events[0].(SessionAbandonedEvent); ev.Reason != DefaultAbandonReason || ev.DurationMS != 60000 {
		t.Fatalf("unexpected abandon event: %+v", ev)
	}
	if _, _, err := abandoned.Complete(t0.Add(2*time.Minute), nil); !errors.Is(err, ErrNotActive) || errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("complete after abandon: want ErrNotActive got %v", err)
	}
	if _, _, err := abandoned.Abandon("again", t0, nil); !errors.Is(err, ErrNotActive) {
		t.Fatalf("abandon twice: want ErrNotActive got %v", err)
	}
}

func TestDurationWhileActive(t *testing.T) {
	s := startedSession(t)
	if got := s.DurationMillis(t0.Add(90 * time.Second)); got != 90000 {
		t.Fatalf("active duration: want=90000 got=%d", got)
	}
	if got := s.Duration(t0.Add(-time.Second)); got != 0 {
		t.Fatalf("clock skew should clamp to zero, got=%s", got)
	}
}

func TestPrioritizedItems(t *testing.T) {
	s := startedSession(t)
	soon := ItemSnapshot{IngredientID: uuid.New(), IngredientName: "Yogurt", Stock: StockInStock, Expiry: option.Some(ExpiryCritical)}
	s, _, _ = s.CheckItem(snap("Rice", StockInStock), t0.Add(1*time.Second), nil)
	s, _, _ = s.CheckItem(soon, t0.Add(2*time.Second), nil)
	s, _, _ = s.CheckItem(snap("Butter", StockLow), t0.Add(3*time.Second), nil)
	s, _, _ = s.CheckItem(snap("Flour", StockOutOfStock), t0.Add(4*time.Second), nil)

	var got []string
	for _, it := range s.PrioritizedItems() {
		got = append(got, it.IngredientName())
	}
	want := []string{"Flour", "Butter", "Yogurt", "Rice"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order: want=%v got=%v", want, got)
		}
	}
	if n := len(s.AttentionItems()); n != 3 {
		t.Fatalf("attention items: want=3 got=%d", n)
	}
}

func TestRehydrateValidatesInvariants(t *testing.T) {
	item, err := NewCheckedItem(uuid.New(), "Milk", StockInStock, option.None[ExpiryStatus](), t0)
	if err != nil {
		t.Fatalf("NewCheckedItem: %v", err)
	}
	base := SessionState{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Status:    SessionActive,
		StartedAt: t0,
		Items:     []CheckedItem{item},
		Version:   3,
	}
	s, err := Rehydrate(base)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if s.IsNew() || s.Version() != 3 || s.CheckedItemCount() != 1 {
		t.Fatalf("unexpected rehydrated session: new=%v version=%d", s.IsNew(), s.Version())
	}

	bad := base
	bad.Status = SessionCompleted
	if _, err := Rehydrate(bad); !errors.Is(err, ErrCorruptSession) {
		t.Fatalf("terminal without completed_at: want ErrCorruptSession got %v", err)
	}

	bad = base
	bad.CompletedAt = option.Some(t0)
	if _, err := Rehydrate(bad); !errors.Is(err, ErrCorruptSession) {
		t.Fatalf("active with completed_at: want ErrCorruptSession got %v", err)
	}

	bad = base
	bad.Items = []CheckedItem{item, item}
	if _, err := Rehydrate(bad); !errors.Is(err, ErrCorruptSession) {
		t.Fatalf("duplicate items: want ErrCorruptSession got %v", err)
	}
}

func TestNewLocation(t *testing.T) {
	loc, err := NewLocation(52.52, 13.405, option.Some(" "))
	if err != nil {
		t.Fatalf("NewLocation: %v", err)
	}
	if loc.PlaceName.IsSome() {
		t.Fatalf("blank place name should be dropped")
	}
	if _, err := NewLocation(91, 0, option.None[string]()); !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("latitude out of range should be a validation error, got %v", err)
	}
}
