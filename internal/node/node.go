// Package node defines the interfaces shared by every participant in the
// curve graph: temperature sources, curve nodes, and fan outputs. The
// scheduler drives the graph purely through these two interfaces, so it
// never needs to know whether it is touching a hwmon-backed source, a PID
// curve, or a physical fan.
package node

import "github.com/rufaco/rufacod/internal/sensorvalue"

// Updater refreshes a node's internal state for the current tick. Sources
// read their backing sysfs file or disk path; curves recompute from
// whatever they are bound to; fans translate their bound curve's demand
// into a PWM write. Update is called in strict phase order by the
// scheduler — sources, then curves, then fans — so an Updater may assume
// anything it reads from has already been refreshed this tick.
type Updater interface {
	Update() error
}

// Readable exposes a node's current value without recomputing it. Curve
// and fan nodes call Get on the nodes they are bound to; Get must be safe
// to call concurrently with another goroutine's Update of the same node.
type Readable interface {
	Get() sensorvalue.Value
}
