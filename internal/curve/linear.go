package curve

import (
	"math"
	"sort"

	"github.com/rufaco/rufacod/internal/node"
	"github.com/rufaco/rufacod/internal/sensorvalue"
)

// segment is one piece of a precomputed piecewise-linear curve: the line
// y = m*x + b covers [x0, next breakpoint).
type segment struct {
	x0 float64
	m  float64
	b  float64
}

// Linear maps a bound source's temperature through a monotone
// piecewise-linear function to a percent demand. The breakpoints are
// precomputed once, at construction, into slope/intercept segments so
// Get is an O(log n) lookup rather than a per-tick pass over the
// breakpoint map.
type Linear struct {
	source   node.Readable
	segments []segment
}

// NewLinear builds a Linear curve from breakpoints, an ordered map from
// input °C to output percent. Keys must already be strictly ascending and
// number at least two — the graph builder validates this before
// construction, per spec §3/§4.C.
func NewLinear(source node.Readable, breakpoints []Breakpoint) *Linear {
	segments := make([]segment, 0, len(breakpoints)-1)
	for i := 0; i < len(breakpoints)-1; i++ {
		x0, y0 := breakpoints[i].X, breakpoints[i].Y
		x1, y1 := breakpoints[i+1].X, breakpoints[i+1].Y
		m := (y1 - y0) / (x1 - x0)
		b := y0 - m*x0
		segments = append(segments, segment{x0: x0, m: m, b: b})
	}
	return &Linear{source: source, segments: segments}
}

// Breakpoint is one (input °C, output percent) pair of a linear curve's
// configuration.
type Breakpoint struct {
	X float64
	Y float64
}

// Update is a no-op: Linear has no state to advance between reads.
func (l *Linear) Update() error { return nil }

// Get truncates the bound source's scaled temperature to an integer
// degree, finds the segment whose x0 is the largest at or below it, and
// evaluates that segment's line. Input below the first breakpoint
// returns 0; input above the last breakpoint extrapolates along the
// final segment.
func (l *Linear) Get() sensorvalue.Value {
	input := math.Trunc(l.source.Get().Scaled())

	if len(l.segments) == 0 || input < l.segments[0].x0 {
		return sensorvalue.NewPercentage(0)
	}

	idx := sort.Search(len(l.segments), func(i int) bool {
		return l.segments[i].x0 > input
	}) - 1

	seg := l.segments[idx]
	return sensorvalue.NewPercentage(math.Trunc(seg.m*input + seg.b))
}
