package aggregates

import "testing"

func TestContractCanEmit(t *testing.T) {
	c := Contract{Name: "x", OwnsTx: true, Emits: []string{"x.created", "x.closed"}}
	if !c.CanEmit("x.closed") {
		t.Fatalf("declared event should be emittable")
	}
	if c.CanEmit("x.deleted") || c.CanEmit("") {
		t.Fatalf("undeclared or empty event names must be rejected")
	}
}
