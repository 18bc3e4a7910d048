// Package fan implements the leaf output of the curve graph: a physical
// fan whose speed is driven by its bound curve's demand, through a
// hysteresis policy that keeps the fan either above its stall floor or
// cleanly stopped.
package fan

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rufaco/rufacod/pkg/hwmon"

	"github.com/rufaco/rufacod/internal/node"
)

// defaultStartPercent is the demand threshold below which a stopped fan
// is not asked to spin back up into its start region.
const defaultStartPercent = 20.0

// stopLatch is how long demand must stay below 10% before a fan is
// allowed to be driven all the way to 0 PWM.
const stopLatch = 10 * time.Second

// Fan is one physical PWM-controlled fan: an RPM input, a PWM output,
// and the curve it reads demand from.
type Fan struct {
	id string

	rpmPath string
	pwmPath string
	curve   node.Readable

	mu              sync.Mutex
	minPWM          uint8
	startPWM        uint8
	startPercent    float64
	lastRPM         float64
	lastPWM         uint8
	zeroPercentTime time.Time
	zeroPercentSet  bool
	lastErr         error
}

// New returns a Fan reading RPM from rpmPath, writing PWM to pwmPath, and
// bound to curve for demand. minPWM/startPWM are the calibrated or
// configured floor bytes, stored as given: neither New nor config.Build
// checks that minPWM ≤ startPWM.
func New(id, rpmPath, pwmPath string, curve node.Readable, minPWM, startPWM uint8) *Fan {
	return &Fan{
		id:           id,
		rpmPath:      rpmPath,
		pwmPath:      pwmPath,
		curve:        curve,
		minPWM:       minPWM,
		startPWM:     startPWM,
		startPercent: defaultStartPercent,
	}
}

// IsSpinning reports whether the most recently read RPM value is at
// least 1.
func (f *Fan) IsSpinning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isSpinningLocked()
}

func (f *Fan) isSpinningLocked() bool {
	return f.lastRPM >= 1
}

// Update refreshes the RPM input, reads the bound curve's demand, and
// writes the resulting PWM byte, applying the stall-floor and stop-latch
// hysteresis described for this package.
func (f *Fan) Update() error {
	return f.UpdateCtx(context.Background())
}

// UpdateCtx is Update with an explicit context, honored by the
// underlying hwmon reads and writes.
func (f *Fan) UpdateCtx(ctx context.Context) error {
	rpmVal, rpmErr := hwmon.ReadValueCtx(ctx, f.rpmPath, hwmon.SensorTypeFan)

	demand := f.curve.Get().Scaled()
	p := clampPercent(demand)

	f.mu.Lock()
	if rpmErr != nil {
		f.lastErr = fmt.Errorf("reading fan %s rpm: %w", f.id, rpmErr)
	} else {
		f.lastErr = nil
		f.lastRPM = rpmVal.AsFan().Float()
	}

	min := f.startPWM
	if f.isSpinningLocked() {
		min = f.minPWM
	}

	if p < f.startPercent && !f.isSpinningLocked() {
		min = 0
	}

	now := nowFunc()
	if p < 10 {
		if !f.zeroPercentSet {
			f.zeroPercentTime = now
			f.zeroPercentSet = true
		} else if now.Sub(f.zeroPercentTime) > stopLatch {
			min = 0
		}
	} else {
		f.zeroPercentSet = false
	}

	pwmVal := pwmFromPercent(p, min)
	f.lastPWM = pwmVal
	pwmPath := f.pwmPath
	f.mu.Unlock()

	if err := hwmon.WriteIntCtx(ctx, pwmPath, int(pwmVal)); err != nil {
		wrapped := fmt.Errorf("writing fan %s pwm: %w", f.id, err)
		f.mu.Lock()
		f.lastErr = wrapped
		f.mu.Unlock()
		return wrapped
	}

	return nil
}

// nowFunc is overridden in tests to control the stop-latch clock.
var nowFunc = time.Now

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// pwmFromPercent computes round(p/100 * (255 - min) + min) saturated to
// uint8, the final step of the fan hysteresis policy.
func pwmFromPercent(p float64, min uint8) uint8 {
	val := math.Round(p/100*(255-float64(min)) + float64(min))
	if val < 0 {
		return 0
	}
	if val > 255 {
		return 255
	}
	return uint8(val)
}

// LastPWM returns the most recently written PWM byte.
func (f *Fan) LastPWM() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPWM
}

// Err returns the error recorded by the most recent Update — an RPM read
// failure (which Update itself does not return) or a PWM write failure —
// or nil if neither occurred.
func (f *Fan) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// SetCalibration updates the fan's min/start PWM floors, called by the
// scheduler's calibration pass once it has measured new values. Floors
// from the config file are passed to New instead.
func (f *Fan) SetCalibration(minPWM, startPWM uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minPWM = minPWM
	f.startPWM = startPWM
}

// Calibration returns the fan's current min/start PWM floors.
func (f *Fan) Calibration() (minPWM, startPWM uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.minPWM, f.startPWM
}

// ID returns the fan's configured identifier.
func (f *Fan) ID() string { return f.id }

// PWMPath returns the sysfs path the fan writes PWM values to, used
// directly by the calibration routine which drives the fan outside the
// normal curve-bound Update cycle.
func (f *Fan) PWMPath() string { return f.pwmPath }

// RPMPath returns the sysfs path the fan reads RPM from, used directly
// by the calibration routine.
func (f *Fan) RPMPath() string { return f.rpmPath }

var _ node.Updater = (*Fan)(nil)
