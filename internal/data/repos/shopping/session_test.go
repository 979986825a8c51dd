package shopping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/data/repos/testutil"
	domain "github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/pkg/option"
	"github.com/yungbote/pantry-backend/internal/platform/clock"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

func startSession(t *testing.T, repo domain.SessionRepository, clk clock.Clock, userID uuid.UUID) domain.Session {
	t.Helper()
	dbc := dbctx.Context{Ctx: context.Background()}
	s, events, err := domain.NewFactory(repo, clk).Create(dbc, userID, domain.StartOptions{DeviceType: option.Some("ios")}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events: want=1 got=%d", len(events))
	}
	saved, err := repo.Save(dbc, s)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return saved
}

func TestSessionRepoSaveAndFind(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	repo := NewSessionRepo(gdb, testutil.Logger(t))
	clk := clock.NewManual(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	userID := uuid.New()

	saved := startSession(t, repo, clk, userID)
	if saved.Version() != 1 || saved.IsNew() {
		t.Fatalf("saved: want version=1 persisted, got version=%d new=%v", saved.Version(), saved.IsNew())
	}

	dbc := dbctx.Context{Ctx: ctx}
	active, err := repo.FindActiveByUserID(dbc, userID)
	if err != nil {
		t.Fatalf("FindActiveByUserID: %v", err)
	}
	if active == nil || active.ID() != saved.ID() {
		t.Fatalf("active: want=%s got=%v", saved.ID(), active)
	}
	if d, _ := active.DeviceType().Get(); d != "ios" {
		t.Fatalf("device: want=ios got=%q", d)
	}

	missing, err := repo.FindByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("FindByID(unknown): want nil,nil got %v,%v", missing, err)
	}
	none, err := repo.FindActiveByUserID(dbc, uuid.New())
	if err != nil || none != nil {
		t.Fatalf("FindActiveByUserID(other user): want nil,nil got %v,%v", none, err)
	}
}

func TestSessionRepoSecondActiveSessionConflicts(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewSessionRepo(gdb, testutil.Logger(t))
	clk := clock.NewManual(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	userID := uuid.New()
	first := startSession(t, repo, clk, userID)

	// Bypass the factory check to hit the partial unique index directly.
	st := first.State()
	st.ID = uuid.New()
	dup, err := domain.Rehydrate(st)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if _, err := repo.Save(dbctx.Context{Ctx: context.Background()}, dup); err == nil {
		t.Fatalf("expected unique violation for second active session")
	}
}

func TestSessionRepoUpdateAppendsItemsAndBumpsVersion(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	repo := NewSessionRepo(gdb, testutil.Logger(t))
	clk := clock.NewManual(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	userID := uuid.New()
	dbc := dbctx.Context{Ctx: ctx}
	s := startSession(t, repo, clk, userID)

	milk := domain.ItemSnapshot{IngredientID: uuid.New(), IngredientName: "Milk", Stock: domain.StockLow, Expiry: option.Some(domain.ExpiryCritical)}
	eggs := domain.ItemSnapshot{IngredientID: uuid.New(), IngredientName: "Eggs", Stock: domain.StockInStock}

	s, _, err := s.CheckItem(milk, clk.Advance(time.Minute), nil)
	if err != nil {
		t.Fatalf("CheckItem milk: %v", err)
	}
	s, ok, err := repo.Update(dbc, s)
	if err != nil || !ok {
		t.Fatalf("Update 1: ok=%v err=%v", ok, err)
	}
	stale := s

	s, _, err = s.CheckItem(eggs, clk.Advance(time.Minute), nil)
	if err != nil {
		t.Fatalf("CheckItem eggs: %v", err)
	}
	s, ok, err = repo.Update(dbc, s)
	if err != nil || !ok {
		t.Fatalf("Update 2: ok=%v err=%v", ok, err)
	}
	if s.Version() != 3 {
		t.Fatalf("version: want=3 got=%d", s.Version())
	}

	if _, ok, err := repo.Update(dbc, stale); err != nil || ok {
		t.Fatalf("stale update: want ok=false err=nil got ok=%v err=%v", ok, err)
	}

	loaded, err := repo.FindByID(dbc, s.ID())
	if err != nil || loaded == nil {
		t.Fatalf("FindByID: %v %v", loaded, err)
	}
	items := loaded.CheckedItems()
	if len(items) != 2 {
		t.Fatalf("items: want=2 got=%d", len(items))
	}
	if items[0].IngredientName() != "Milk" || items[1].IngredientName() != "Eggs" {
		t.Fatalf("item order: got %s,%s", items[0].IngredientName(), items[1].IngredientName())
	}
	if e, _ := items[0].ExpiryStatus().Get(); e != domain.ExpiryCritical {
		t.Fatalf("milk expiry: want=%s got=%s", domain.ExpiryCritical, e)
	}
	if items[1].ExpiryStatus().IsSome() {
		t.Fatalf("eggs expiry should be none")
	}
	if loaded.Version() != 3 {
		t.Fatalf("loaded version: want=3 got=%d", loaded.Version())
	}
}

func TestSessionRepoCompleteFreesActiveSlot(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	repo := NewSessionRepo(gdb, testutil.Logger(t))
	clk := clock.NewManual(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	userID := uuid.New()
	dbc := dbctx.Context{Ctx: ctx}
	s := startSession(t, repo, clk, userID)

	s, _, err := s.Complete(clk.Advance(10*time.Minute), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, ok, err := repo.Update(dbc, s); err != nil || !ok {
		t.Fatalf("Update: ok=%v err=%v", ok, err)
	}

	active, err := repo.FindActiveByUserID(dbc, userID)
	if err != nil || active != nil {
		t.Fatalf("no active session expected, got %v err=%v", active, err)
	}
	loaded, err := repo.FindByID(dbc, s.ID())
	if err != nil || loaded == nil {
		t.Fatalf("FindByID: %v %v", loaded, err)
	}
	if loaded.Status() != domain.SessionCompleted {
		t.Fatalf("status: want=%s got=%s", domain.SessionCompleted, loaded.Status())
	}
	if at, ok := loaded.CompletedAt().Get(); !ok || !at.Equal(clk.Now()) {
		t.Fatalf("completed_at: want=%s got=%s", clk.Now(), at)
	}

	startSession(t, repo, clk, userID)
}

func TestSessionRepoLockByIDRequiresTx(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	repo := NewSessionRepo(gdb, testutil.Logger(t))
	clk := clock.NewManual(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	s := startSession(t, repo, clk, uuid.New())

	if _, err := repo.LockByID(dbctx.Context{Ctx: ctx}, s.ID()); err == nil {
		t.Fatalf("expected error without tx")
	}

	tx := testutil.Tx(t, gdb)
	locked, err := repo.LockByID(dbctx.Context{Ctx: ctx, Tx: tx}, s.ID())
	if err != nil || locked == nil {
		t.Fatalf("LockByID: %v %v", locked, err)
	}
	if locked.ID() != s.ID() {
		t.Fatalf("locked id: want=%s got=%s", s.ID(), locked.ID())
	}
}

func TestSessionRepoListStaleActive(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	repo := NewSessionRepo(gdb, testutil.Logger(t))
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	clk := clock.NewManual(base)

	old := startSession(t, repo, clk, uuid.New())
	clk.Set(base.Add(20 * time.Hour))
	startSession(t, repo, clk, uuid.New())

	ids, err := repo.ListStaleActive(dbctx.Context{Ctx: ctx}, base.Add(12*time.Hour), 10)
	if err != nil {
		t.Fatalf("ListStaleActive: %v", err)
	}
	if len(ids) != 1 || ids[0] != old.ID() {
		t.Fatalf("stale ids: want=[%s] got=%v", old.ID(), ids)
	}
}
