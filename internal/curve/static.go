package curve

import "github.com/rufaco/rufacod/internal/sensorvalue"

// Static always reports the same configured percent — a fixed-speed fan
// with no feedback.
type Static struct {
	value sensorvalue.Value
}

// NewStatic returns a Static curve emitting pct on every Get.
func NewStatic(pct float64) *Static {
	return &Static{value: sensorvalue.NewPercentage(pct)}
}

// Update is a no-op: Static has no state to advance.
func (s *Static) Update() error { return nil }

// Get returns the configured constant.
func (s *Static) Get() sensorvalue.Value {
	return s.value
}
