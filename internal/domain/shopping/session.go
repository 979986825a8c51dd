package shopping

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pantry-backend/internal/pkg/option"
)

// Location is where a trip was started.
type Location struct {
	Latitude  float64
	Longitude float64
	PlaceName option.Option[string]
}

func NewLocation(lat, lng float64, place option.Option[string]) (Location, error) {
	const op = "Shopping.Location.New"
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Location{}, validation(op, "latitude must be within [-90, 90]")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return Location{}, validation(op, "longitude must be within [-180, 180]")
	}
	if p, ok := place.Get(); ok && strings.TrimSpace(p) == "" {
		place = option.None[string]()
	}
	return Location{Latitude: lat, Longitude: lng, PlaceName: place}, nil
}

// SessionState is the persisted shape of a session.
type SessionState struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Status      SessionStatus
	StartedAt   time.Time
	CompletedAt option.Option[time.Time]
	Items       []CheckedItem
	DeviceType  option.Option[string]
	Location    option.Option[Location]
	Version     int
}

// Session is the shopping-trip aggregate. Transitions return a new Session
// plus the events they produced; the receiver is left untouched.
type Session struct {
	id          uuid.UUID
	userID      uuid.UUID
	status      SessionStatus
	startedAt   time.Time
	completedAt option.Option[time.Time]
	items       []CheckedItem
	deviceType  option.Option[string]
	location    option.Option[Location]
	version     int
	isNew       bool
}

func newSession(id, userID uuid.UUID, at time.Time, opts StartOptions, meta map[string]string) (Session, []Event) {
	s := Session{
		id:         id,
		userID:     userID,
		status:     SessionActive,
		startedAt:  at,
		deviceType: opts.DeviceType,
		location:   opts.Location,
		isNew:      true,
	}
	ev := SessionStarted{
		EventBase:  newEventBase(EventSessionStarted, id, userID, at, meta),
		UserID:     userID,
		StartedAt:  at,
		DeviceType: opts.DeviceType.Ptr(),
	}
	return s, []Event{ev}
}

// Rehydrate rebuilds a stored session and rejects states that break the
// session invariants.
func Rehydrate(st SessionState) (Session, error) {
	const op = "Shopping.Session.Rehydrate"
	switch {
	case st.ID == uuid.Nil:
		return Session{}, corrupt(op, "missing session id")
	case st.UserID == uuid.Nil:
		return Session{}, corrupt(op, "missing user id")
	case !st.Status.Valid():
		return Session{}, corrupt(op, fmt.Sprintf("unknown status %q", st.Status))
	case st.StartedAt.IsZero():
		return Session{}, corrupt(op, "missing started_at")
	}
	if st.CompletedAt.IsSome() == (st.Status == SessionActive) {
		return Session{}, corrupt(op, "completed_at must be set exactly when the session is terminal")
	}
	seen := make(map[uuid.UUID]struct{}, len(st.Items))
	for _, it := range st.Items {
		if _, dup := seen[it.IngredientID()]; dup {
			return Session{}, corrupt(op, fmt.Sprintf("ingredient %s checked twice", it.IngredientID()))
		}
		seen[it.IngredientID()] = struct{}{}
	}
	return Session{
		id:          st.ID,
		userID:      st.UserID,
		status:      st.Status,
		startedAt:   st.StartedAt,
		completedAt: st.CompletedAt,
		items:       append([]CheckedItem(nil), st.Items...),
		deviceType:  st.DeviceType,
		location:    st.Location,
		version:     st.Version,
	}, nil
}

func (s Session) ID() uuid.UUID                         { return s.id }
func (s Session) UserID() uuid.UUID                     { return s.userID }
func (s Session) Status() SessionStatus                 { return s.status }
func (s Session) StartedAt() time.Time                  { return s.startedAt }
func (s Session) CompletedAt() option.Option[time.Time] { return s.completedAt }
func (s Session) DeviceType() option.Option[string]     { return s.deviceType }
func (s Session) Location() option.Option[Location]     { return s.location }
func (s Session) Version() int                          { return s.version }
func (s Session) IsNew() bool                           { return s.isNew }
func (s Session) IsActive() bool                        { return s.status == SessionActive }
func (s Session) OwnedBy(userID uuid.UUID) bool         { return userID != uuid.Nil && s.userID == userID }
func (s Session) CheckedItemCount() int                 { return len(s.items) }

// CheckedItems returns a copy in check order.
func (s Session) CheckedItems() []CheckedItem {
	return append([]CheckedItem(nil), s.items...)
}

func (s Session) HasChecked(ingredientID uuid.UUID) bool {
	for _, it := range s.items {
		if it.ingredientID == ingredientID {
			return true
		}
	}
	return false
}

// Duration is time spent so far for an active session, or the final trip
// length for a terminal one.
func (s Session) Duration(now time.Time) time.Duration {
	end := s.completedAt.OrElse(now)
	if d := end.Sub(s.startedAt); d > 0 {
		return d
	}
	return 0
}

func (s Session) DurationMillis(now time.Time) int64 {
	return s.Duration(now).Milliseconds()
}

// AttentionItems returns checked items that need restocking or use soon.
func (s Session) AttentionItems() []CheckedItem {
	var out []CheckedItem
	for _, it := range s.items {
		if it.NeedsAttention() {
			out = append(out, it)
		}
	}
	return out
}

// PrioritizedItems orders checked items by stock urgency, then expiry urgency,
// then check time.
func (s Session) PrioritizedItems() []CheckedItem {
	out := s.CheckedItems()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if pa, pb := a.stockStatus.Priority(), b.stockStatus.Priority(); pa != pb {
			return pa > pb
		}
		if ea, eb := expiryPriority(a), expiryPriority(b); ea != eb {
			return ea > eb
		}
		return a.checkedAt.Before(b.checkedAt)
	})
	return out
}

func expiryPriority(c CheckedItem) int {
	if e, ok := c.expiryStatus.Get(); ok {
		return e.Priority()
	}
	return 0
}

// State returns the persisted shape of the session.
func (s Session) State() SessionState {
	return SessionState{
		ID:          s.id,
		UserID:      s.userID,
		Status:      s.status,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
		Items:       s.CheckedItems(),
		DeviceType:  s.deviceType,
		Location:    s.location,
		Version:     s.version,
	}
}

// Persisted marks the session as stored at the given version.
func (s Session) Persisted(version int) Session {
	s.version = version
	s.isNew = false
	return s
}

// ItemSnapshot is the ingredient data captured when an item is checked.
type ItemSnapshot struct {
	IngredientID   uuid.UUID
	IngredientName string
	Stock          StockStatus
	Expiry         option.Option[ExpiryStatus]
}

// CheckItem appends an item. A second check of the same ingredient is rejected.
func (s Session) CheckItem(snap ItemSnapshot, at time.Time, meta map[string]string) (Session, []Event, error) {
	const op = "Shopping.Session.CheckItem"
	if s.status != SessionActive {
		return s, nil, invalidState(op, ErrNotActive)
	}
	if s.HasChecked(snap.IngredientID) {
		return s, nil, invalidState(op, ErrDuplicateItem)
	}
	item, err := NewCheckedItem(snap.IngredientID, snap.IngredientName, snap.Stock, snap.Expiry, at)
	if err != nil {
		return s, nil, err
	}
	next := s
	next.items = append(s.CheckedItems(), item)
	ev := ItemChecked{
		EventBase:      newEventBase(EventItemChecked, s.id, s.userID, at, meta),
		UserID:         s.userID,
		IngredientID:   item.ingredientID,
		IngredientName: item.ingredientName,
		StockStatus:    item.stockStatus,
		ExpiryStatus:   item.expiryStatus.Ptr(),
		CheckedAt:      at,
		CheckedCount:   len(next.items),
	}
	return next, []Event{ev}, nil
}

// Complete ends an active trip as COMPLETED.
func (s Session) Complete(at time.Time, meta map[string]string) (Session, []Event, error) {
	const op = "Shopping.Session.Complete"
	switch s.status {
	case SessionCompleted:
		return s, nil, invalidState(op, ErrAlreadyCompleted)
	case SessionActive:
	default:
		return s, nil, invalidState(op, ErrNotActive)
	}
	next := s
	next.status = SessionCompleted
	next.completedAt = option.Some(at)
	ev := SessionCompletedEvent{
		EventBase:        newEventBase(EventSessionCompleted, s.id, s.userID, at, meta),
		UserID:           s.userID,
		CompletedAt:      at,
		DurationMS:       next.DurationMillis(at),
		CheckedItemCount: len(next.items),
		AttentionCount:   len(next.AttentionItems()),
	}
	return next, []Event{ev}, nil
}

// Abandon ends an active trip as ABANDONED. An empty reason becomes "user-action".
func (s Session) Abandon(reason string, at time.Time, meta map[string]string) (Session, []Event, error) {
	const op = "Shopping.Session.Abandon"
	if s.status != SessionActive {
		return s, nil, invalidState(op, ErrNotActive)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultAbandonReason
	}
	next := s
	next.status = SessionAbandoned
	next.completedAt = option.Some(at)
	ev := SessionAbandonedEvent{
		EventBase:        newEventBase(EventSessionAbandoned, s.id, s.userID, at, meta),
		UserID:           s.userID,
		AbandonedAt:      at,
		DurationMS:       next.DurationMillis(at),
		CheckedItemCount: len(next.items),
		Reason:           reason,
	}
	return next, []Event{ev}, nil
}
