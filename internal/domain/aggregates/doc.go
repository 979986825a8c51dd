// Package aggregates defines domain-facing aggregate contracts and the shared
// error taxonomy used by every write boundary.
//
// Contracts avoid persistence and transport details. They describe the
// semantic write boundaries where invariants must be enforced atomically.
package aggregates
