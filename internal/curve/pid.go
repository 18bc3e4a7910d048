package curve

import (
	"math"
	"sync"

	"github.com/rufaco/rufacod/internal/node"
	"github.com/rufaco/rufacod/internal/sensorvalue"
)

const pidTermLimit = 100

// PID is a stateful curve driving a bound temperature source toward a
// target via proportional/integral/derivative control. Update advances
// the integrator and computes the next output; Get only reads the last
// emitted value, so a read never mutates controller state — the split
// the scheduler's phased tick discipline wants (sources, then curves,
// then fans) instead of hiding the mutation behind a lock inside a
// nominally read-only getter.
type PID struct {
	source     node.Readable
	kp, ki, kd float64

	mu          sync.Mutex
	target      float64
	integral    float64
	prevError   float64
	hasPrev     bool
	lastEmitted float64
}

// NewPID returns a PID curve bound to source with gains kp, ki, kd and
// initial target (in °C).
func NewPID(source node.Readable, kp, ki, kd, target float64) *PID {
	return &PID{source: source, kp: kp, ki: ki, kd: kd, target: target}
}

// SetTarget mutates the controller's setpoint at runtime without
// resetting its integrator or derivative history.
func (p *PID) SetTarget(target float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.target = target
}

func clampTerm(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// Update reads the bound source's scaled temperature, advances the
// integrator and derivative history by one tick (dt = 1, matching the
// scheduler's fixed tick period), and recomputes the emitted demand.
// Each of the P, I, and D terms is clamped individually to ±100 before
// summing, and the sum is clamped to ±100 again. The proportional term
// goes negative when the measurement is above target — the case that
// drives fan speed up — so the emitted value is the negation of a
// negative total, truncated to a whole percent, and 0 otherwise.
func (p *PID) Update() error {
	input := p.source.Get().Scaled()

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.target - input
	p.integral += err

	pTerm := clampTerm(p.kp*err, pidTermLimit)
	iTerm := clampTerm(p.ki*p.integral, pidTermLimit)

	var dRaw float64
	if p.hasPrev {
		dRaw = err - p.prevError
	}
	dTerm := clampTerm(p.kd*dRaw, pidTermLimit)

	p.prevError = err
	p.hasPrev = true

	total := clampTerm(pTerm+iTerm+dTerm, pidTermLimit)

	if total < 0 {
		p.lastEmitted = math.Trunc(-total)
	} else {
		p.lastEmitted = 0
	}
	return nil
}

// Get returns the demand percent computed by the most recent Update.
func (p *PID) Get() sensorvalue.Value {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sensorvalue.NewPercentage(p.lastEmitted)
}
