// Package shoppingtest provides in-memory implementations of the shopping
// ports for tests.
package shoppingtest

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pantry-backend/internal/domain/pantry"
	"github.com/yungbote/pantry-backend/internal/domain/shopping"
	"github.com/yungbote/pantry-backend/internal/platform/dbctx"
)

// Sessions is an in-memory SessionRepository that enforces one active
// session per user on Save and version compare-and-set on Update.
type Sessions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]shopping.SessionState

	// StaleUpdates makes the next N Update calls report a version miss.
	StaleUpdates int
	// HideActive makes FindActiveByUserID report nothing, so Save has to
	// catch the duplicate itself.
	HideActive bool

	UpdateCalls int
}

var _ shopping.SessionRepository = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{rows: map[uuid.UUID]shopping.SessionState{}}
}

func (m *Sessions) FindByID(_ dbctx.Context, id uuid.UUID) (*shopping.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

func (m *Sessions) LockByID(dbc dbctx.Context, id uuid.UUID) (*shopping.Session, error) {
	return m.FindByID(dbc, id)
}

func (m *Sessions) FindActiveByUserID(_ dbctx.Context, userID uuid.UUID) (*shopping.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.HideActive {
		return nil, nil
	}
	for id, st := range m.rows {
		if st.UserID == userID && st.Status == shopping.SessionActive {
			return m.load(id)
		}
	}
	return nil, nil
}

func (m *Sessions) Save(_ dbctx.Context, s shopping.Session) (shopping.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rows[s.ID()]; exists {
		return s, gorm.ErrDuplicatedKey
	}
	for _, st := range m.rows {
		if st.UserID == s.UserID() && st.Status == shopping.SessionActive && s.IsActive() {
			return s, gorm.ErrDuplicatedKey
		}
	}
	saved := s.Persisted(1)
	m.rows[s.ID()] = saved.State()
	return saved, nil
}

func (m *Sessions) Update(_ dbctx.Context, s shopping.Session) (shopping.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.StaleUpdates > 0 {
		m.StaleUpdates--
		return s, false, nil
	}
	cur, ok := m.rows[s.ID()]
	if !ok || cur.Version != s.Version() {
		return s, false, nil
	}
	saved := s.Persisted(s.Version() + 1)
	m.rows[s.ID()] = saved.State()
	return saved, true, nil
}

func (m *Sessions) ListStaleActive(_ dbctx.Context, startedBefore time.Time, limit int) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []shopping.SessionState
	for _, st := range m.rows {
		if st.Status == shopping.SessionActive && st.StartedAt.Before(startedBefore) {
			stale = append(stale, st)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].StartedAt.Before(stale[j].StartedAt) })
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	ids := make([]uuid.UUID, 0, len(stale))
	for _, st := range stale {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

// Put stores a session as-is, bypassing the active-session check.
func (m *Sessions) Put(s shopping.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID()] = s.State()
}

func (m *Sessions) load(id uuid.UUID) (*shopping.Session, error) {
	st, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	s, err := shopping.Rehydrate(st)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Ingredients is an in-memory IngredientRepository.
type Ingredients struct {
	mu   sync.Mutex
	rows map[uuid.UUID]pantry.Ingredient
}

var _ shopping.IngredientRepository = (*Ingredients)(nil)

func NewIngredients(items ...pantry.Ingredient) *Ingredients {
	m := &Ingredients{rows: map[uuid.UUID]pantry.Ingredient{}}
	for _, it := range items {
		m.rows[it.ID] = it
	}
	return m
}

func (m *Ingredients) Put(it pantry.Ingredient) {
	m.mu.Lock()
	m.rows[it.ID] = it
	m.mu.Unlock()
}

func (m *Ingredients) FindByID(_ dbctx.Context, id uuid.UUID) (*pantry.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// EventLog records appended events.
type EventLog struct {
	mu     sync.Mutex
	Events []shopping.Event
	Err    error
}

var _ shopping.EventLog = (*EventLog)(nil)

func (l *EventLog) Append(_ dbctx.Context, events []shopping.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	l.Events = append(l.Events, events...)
	return nil
}

func (l *EventLog) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.Events))
	for _, e := range l.Events {
		out = append(out, e.EventName())
	}
	return out
}
