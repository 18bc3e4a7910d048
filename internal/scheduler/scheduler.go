// Package scheduler owns the built curve graph and drives it: a fixed
// 100ms tick refreshing sources, then curves, then fans, plus the
// calibration pass that runs once before the loop starts for any fan
// missing both configured PWM parameters.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/rufaco/rufacod/internal/calibration"
	"github.com/rufaco/rufacod/internal/config"
	"github.com/rufaco/rufacod/internal/node"
)

// tickPeriod is how long the main loop sleeps between ticks.
const tickPeriod = 100 * time.Millisecond

// Hub owns the three node maps the graph builder produced and drives
// them through one tick at a time. Nodes are reached purely through the
// node.Updater/node.Readable interfaces — the Hub never needs to know
// it is driving a hwmon-backed temperature source versus a PID curve.
type Hub struct {
	graph *config.Graph
	log   *slog.Logger
}

// New returns a Hub driving graph, logging through logger (or
// slog.Default if nil).
func New(graph *config.Graph, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{graph: graph, log: logger}
}

// Tick runs exactly one scheduler pass: every source refreshed, then
// every curve, then every fan, each under its own node's lock. This
// order — never violated — is what lets a curve assume its inputs are
// current and a fan assume its bound curve is current.
func (h *Hub) Tick(ctx context.Context) {
	for id, s := range h.graph.Sources {
		if err := updateCtx(ctx, s); err != nil {
			h.log.Warn("temperature source read failed, keeping last value", "source", id, "error", err)
		}
	}

	for id, c := range h.graph.Curves {
		if u, ok := c.(node.Updater); ok {
			if err := u.Update(); err != nil {
				h.log.Warn("curve update failed", "curve", id, "error", err)
			}
		}
	}

	for _, f := range h.graph.Fans {
		if err := updateCtx(ctx, f); err != nil {
			h.log.Error("fan update failed", "fan", f.ID(), "error", err)
		}
	}
}

// ctxUpdater is implemented by nodes whose Update can honor a context,
// letting Tick pass cancellation through to the underlying sysfs call
// without widening the node.Updater interface every node must satisfy.
type ctxUpdater interface {
	UpdateCtx(ctx context.Context) error
}

func updateCtx(ctx context.Context, u interface{ Update() error }) error {
	if cu, ok := u.(ctxUpdater); ok {
		return cu.UpdateCtx(ctx)
	}
	return u.Update()
}

// Run ticks the Hub every tickPeriod until ctx is cancelled. Exactly one
// tick is ever in flight; the next tick's sleep starts only after the
// previous one returns.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(tickPeriod):
			h.Tick(ctx)
		}
	}
}

// Calibrate runs the calibration protocol, one fan at a time, for every
// fan in the graph missing both min_pwm and start_pwm, then persists the
// discovered values back to the config file at its original path. It
// returns early, leaving later fans unmeasured, if ctx is cancelled
// mid-measurement — calibration is cooperative, not atomic across fans.
func (h *Hub) Calibrate(ctx context.Context, measureDelay time.Duration, maxDiff float64) error {
	changed := false

	for _, f := range h.graph.Fans {
		minPWM, startPWM := f.Calibration()
		if minPWM != 0 || startPWM != 0 {
			continue
		}

		h.log.Info("calibrating fan", "fan", f.ID())
		result, err := calibration.MeasureFan(ctx, f.RPMPath(), f.PWMPath(), maxDiff, measureDelay)
		if err != nil {
			if ctx.Err() != nil {
				h.log.Info("calibration cancelled", "fan", f.ID())
				return nil
			}
			return err
		}

		f.SetCalibration(result.MinPWM, result.StartPWM)
		setFanYAMLCalibration(h.graph.File, f.ID(), result.MinPWM, result.StartPWM)
		changed = true

		h.log.Info("calibration complete", "fan", f.ID(), "min_pwm", result.MinPWM, "start_pwm", result.StartPWM)
	}

	if changed {
		if err := config.Save(h.graph.Path, h.graph.File); err != nil {
			return err
		}
	}
	return nil
}

func setFanYAMLCalibration(f *config.File, id string, minPWM, startPWM uint8) {
	for i := range f.Fans {
		if f.Fans[i].ID == id {
			f.Fans[i].MinPWM = &minPWM
			f.Fans[i].StartPWM = &startPWM
			return
		}
	}
}
