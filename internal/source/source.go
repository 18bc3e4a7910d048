// Package source implements the leaf nodes of the curve graph: readers
// that turn a hwmon temp*_input attribute or an arbitrary file into a
// sensorvalue.Value. Both backends share one policy on read failure — keep
// serving the last good value rather than propagating a transient sysfs
// glitch into the rest of the graph — because a single dropped read should
// never make a fan spike or a curve flatline.
package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/rufaco/rufacod/pkg/hwmon"

	"github.com/rufaco/rufacod/internal/sensorvalue"
)

// Temperature is a temperature-reporting node backed by either a hwmon
// attribute file or an arbitrary file containing a millidegree-Celsius
// integer. Both forms read the same way — hwmon's temp*_input and a
// plain file both hold a bare integer — so one implementation serves
// both configured sensor types.
type Temperature struct {
	path string

	mu      sync.Mutex
	value   sensorvalue.Value
	lastErr error
}

// NewTemperature returns a Temperature source reading from path on every
// Update. path is either a hwmon temp*_input attribute or any file holding
// a millidegree-Celsius integer — the two configured sensor kinds read
// identically.
func NewTemperature(path string) *Temperature {
	return &Temperature{
		path:  path,
		value: sensorvalue.NewTemperatureMilli(0),
	}
}

// Update re-reads the backing file. On failure it records the error for
// Err and leaves the previously observed value in place.
func (t *Temperature) Update() error {
	return t.UpdateCtx(context.Background())
}

// UpdateCtx is Update with an explicit context, honored by the underlying
// hwmon read so a stuck sysfs mount cannot hang the scheduler tick
// forever.
func (t *Temperature) UpdateCtx(ctx context.Context) error {
	val, err := hwmon.ReadValueCtx(ctx, t.path, hwmon.SensorTypeTemperature)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.lastErr = fmt.Errorf("reading temperature source %s: %w", t.path, err)
		return t.lastErr
	}

	t.lastErr = nil
	t.value = sensorvalue.NewTemperatureMilli(float64(val.AsTemperature().Raw()))
	return nil
}

// Get returns the most recently observed value. Safe to call
// concurrently with Update.
func (t *Temperature) Get() sensorvalue.Value {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Err returns the error from the most recent Update, or nil if it
// succeeded.
func (t *Temperature) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}
