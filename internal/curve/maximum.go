package curve

import (
	"github.com/rufaco/rufacod/internal/node"
	"github.com/rufaco/rufacod/internal/sensorvalue"
)

// Maximum reports the largest of its children's current values, under
// the canonical scaled-value ordering. Used to combine several
// temperature sources (or curves) into one "worst case" demand.
type Maximum struct {
	children []node.Readable
}

// NewMaximum returns a Maximum curve over children.
func NewMaximum(children []node.Readable) *Maximum {
	return &Maximum{children: children}
}

// Update is a no-op: Maximum has no state of its own to advance.
func (m *Maximum) Update() error { return nil }

// Get returns the maximum of the children's Get results, or 0 if there
// are no children.
func (m *Maximum) Get() sensorvalue.Value {
	if len(m.children) == 0 {
		return sensorvalue.NewPercentage(0)
	}

	best := m.children[0].Get()
	for _, c := range m.children[1:] {
		best = sensorvalue.Max(best, c.Get())
	}
	return best
}
