package aggregates

import "slices"

// Contract states how an aggregate owns its writes and what it announces.
type Contract struct {
	Name string
	// OwnsTx is set when write methods open and commit their own transaction.
	OwnsTx bool
	// LockedReads names the rows a write locks before deciding invariants.
	LockedReads []string
	// Emits lists every event name a committed write may produce.
	Emits []string
}

// Aggregate is implemented by every transactional write boundary.
type Aggregate interface {
	Contract() Contract
}

func (c Contract) CanEmit(name string) bool {
	return name != "" && slices.Contains(c.Emits, name)
}
