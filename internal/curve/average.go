package curve

import (
	"math"

	"github.com/rufaco/rufacod/internal/node"
	"github.com/rufaco/rufacod/internal/sensorvalue"
)

// Average reports the truncated (not rounded) integer mean of its
// children's current scaled values.
type Average struct {
	children []node.Readable
}

// NewAverage returns an Average curve over children.
func NewAverage(children []node.Readable) *Average {
	return &Average{children: children}
}

// Update is a no-op: Average has no state of its own to advance.
func (a *Average) Update() error { return nil }

// Get returns the truncated integer mean of the children's scaled
// values, or 0 if there are no children.
func (a *Average) Get() sensorvalue.Value {
	if len(a.children) == 0 {
		return sensorvalue.NewPercentage(0)
	}

	var sum float64
	for _, c := range a.children {
		sum += c.Get().Scaled()
	}
	return sensorvalue.NewPercentage(math.Trunc(sum / float64(len(a.children))))
}
