// Package calibration implements the auto-calibration protocol that
// discovers a fan's min_pwm and start_pwm floors by driving it directly
// and observing RPM settle behavior, bypassing the fan's bound curve
// entirely. Cancellation is expressed as a context.Context rather than a
// literal polled stop flag — idiomatic Go, and it composes with the same
// signal.NotifyContext the rest of the daemon uses for shutdown.
package calibration

import (
	"context"
	"errors"
	"time"

	"github.com/rufaco/rufacod/pkg/hwmon"
)

// ErrCancelled is returned by MeasurePWM and MeasureFan when ctx is
// cancelled before a measurement settles.
var ErrCancelled = errors.New("calibration cancelled")

const ringSize = 5

// MeasurePWM writes pwm to pwmPath, then samples rpmPath every wait
// until the last 5 samples' spread from their mean is at most maxDiff,
// and returns that mean. It returns ErrCancelled if ctx is done before
// the samples settle.
func MeasurePWM(ctx context.Context, rpmPath, pwmPath string, pwm uint8, maxDiff float64, wait time.Duration) (float64, error) {
	if err := hwmon.WriteIntCtx(ctx, pwmPath, int(pwm)); err != nil {
		if ctx.Err() != nil {
			return 0, ErrCancelled
		}
		return 0, err
	}

	var ring [ringSize]float64
	count := 0

	for {
		select {
		case <-ctx.Done():
			return 0, ErrCancelled
		case <-time.After(wait):
		}

		rpm, err := hwmon.ReadIntCtx(ctx, rpmPath)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ErrCancelled
			}
			return 0, err
		}

		ring[count%ringSize] = float64(rpm)
		count++

		if count >= ringSize {
			mean := 0.0
			for _, v := range ring {
				mean += v
			}
			mean /= ringSize

			maxObserved := 0.0
			for _, v := range ring {
				d := v - mean
				if d < 0 {
					d = -d
				}
				if d > maxObserved {
					maxObserved = d
				}
			}

			if maxObserved <= maxDiff {
				return mean, nil
			}
		}
	}
}

// Result is the outcome of MeasureFan: the discovered floor bytes for a
// fan's hysteresis policy.
type Result struct {
	MinPWM   uint8
	StartPWM uint8
}

// MeasureFan runs the full calibration protocol against a single fan's
// RPM input and PWM output: find start_pwm via binary search over a
// stopped/spinning fan, then find min_pwm by descending from start_pwm+2
// until the fan stops. It returns ErrCancelled if ctx is cancelled
// during any inner measurement, leaving the fan's own hysteresis floors
// untouched.
func MeasureFan(ctx context.Context, rpmPath, pwmPath string, maxDiff float64, wait time.Duration) (Result, error) {
	measure := func(pwm uint8) (float64, error) {
		return MeasurePWM(ctx, rpmPath, pwmPath, pwm, maxDiff, wait)
	}

	meanAtZero, err := measure(0)
	if err != nil {
		return Result{}, err
	}
	if meanAtZero != 0 {
		return Result{MinPWM: 0, StartPWM: 0}, nil
	}

	lo, hi := 0, 255
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		mean, err := measure(uint8(mid))
		if err != nil {
			return Result{}, err
		}
		if mean != 0 {
			hi = mid
			if _, err := measure(0); err != nil {
				return Result{}, err
			}
		} else {
			lo = mid
		}
	}
	startPWM := uint8(hi)

	if _, err := measure(255); err != nil {
		return Result{}, err
	}

	minPWM := uint8(0)
	descendFrom := int(startPWM) + 2
	if descendFrom > 255 {
		descendFrom = 255
	}
	for pwm := descendFrom; pwm >= 0; pwm-- {
		mean, err := measure(uint8(pwm))
		if err != nil {
			return Result{}, err
		}
		if mean == 0 {
			break
		}
		minPWM = uint8(pwm)
	}

	return Result{MinPWM: minPWM, StartPWM: startPWM}, nil
}
