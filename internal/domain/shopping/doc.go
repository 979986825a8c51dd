// Package shopping models a user's grocery trip: the Session aggregate, the
// items checked off during it, and the stock and expiry grading captured at
// check time.
//
// Everything here is free of I/O. Session transitions are value-in,
// value-out: they return the next Session and the events the transition
// produced, and the caller decides when those events are published.
package shopping
