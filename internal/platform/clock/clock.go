package clock

import (
	"sync"
	"time"
)

// Clock is the time source for domain transitions.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now is truncated to microseconds, the resolution Postgres keeps.
func (systemClock) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// System returns the wall clock in UTC.
func System() Clock { return systemClock{} }

// Manual is a settable clock for tests and replays.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(at time.Time) *Manual {
	return &Manual{now: at}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(at time.Time) {
	m.mu.Lock()
	m.now = at
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
