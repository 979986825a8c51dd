// Package aggregates implements the transactional write boundaries declared
// by the domain packages. Every write runs inside one TxRunner transaction,
// has its failures mapped onto domain aggregate error codes, and reports to
// Hooks for metrics.
package aggregates
