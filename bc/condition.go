// Package bc defines displacement constraints and force loads on mesh
// nodes, geometric points, and geometric lines, and consolidates them into a
// single per-node table the solver consumes.
package bc

import "fmt"

// Kind tags the three states a displacement axis can be in.
type Kind uint8

const (
	KindFree Kind = iota
	KindFixed
	KindPrescribed
)

// Condition is the constraint state of one displacement axis: free, fixed at
// zero, or prescribed to a non-zero value.
type Condition struct {
	kind  Kind
	value float64
}

// Free leaves the axis unconstrained.
func Free() Condition { return Condition{kind: KindFree} }

// Fixed pins the axis to zero displacement.
func Fixed() Condition { return Condition{kind: KindFixed} }

// Prescribed sets the axis to a given displacement. A zero value collapses
// to Fixed so the merge policy treats it with zero's priority.
func Prescribed(v float64) Condition {
	if v == 0 {
		return Condition{kind: KindFixed}
	}
	return Condition{kind: KindPrescribed, value: v}
}

// Kind returns the condition tag.
func (c Condition) Kind() Kind { return c.kind }

// IsFree reports an unconstrained axis.
func (c Condition) IsFree() bool { return c.kind == KindFree }

// IsFixed reports an axis pinned to zero.
func (c Condition) IsFixed() bool { return c.kind == KindFixed }

// Value returns the displacement the axis is held at (zero for Fixed and
// Free).
func (c Condition) Value() float64 {
	if c.kind == KindPrescribed {
		return c.value
	}
	return 0
}

func (c Condition) String() string {
	switch c.kind {
	case KindFree:
		return "free"
	case KindFixed:
		return "fixed"
	}
	return fmt.Sprintf("prescribed(%g)", c.value)
}

// Merge resolves two conditions on the same axis. Fixed (zero) always wins;
// otherwise the first non-free definition wins; otherwise the axis stays
// free. The policy is applied independently per axis.
func Merge(a, b Condition) Condition {
	if a.IsFixed() || b.IsFixed() {
		return Fixed()
	}
	if !a.IsFree() {
		return a
	}
	return b
}
