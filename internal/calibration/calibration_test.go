package calibration

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFan simulates a fan whose RPM settles deterministically as a
// function of the last PWM written, modeling start_pwm=30, min_pwm=10:
// below 10 it never spins; at or above 10 while already spinning it
// holds; from a stopped state it needs at least 30 to start.
type fakeFan struct {
	rpmPath, pwmPath string
	spinning         bool
}

func newFakeFan(t *testing.T) *fakeFan {
	t.Helper()
	dir := t.TempDir()
	f := &fakeFan{rpmPath: filepath.Join(dir, "fan1_input"), pwmPath: filepath.Join(dir, "pwm1")}
	require.NoError(t, os.WriteFile(f.rpmPath, []byte("0"), 0o600))
	require.NoError(t, os.WriteFile(f.pwmPath, []byte("0"), 0o600))
	return f
}

// step runs in a background goroutine standing in for hardware settle
// time: it reads whatever PWM was last written and updates the
// simulated RPM file to match. Errors are swallowed rather than failing
// the test — t.Fatal is not safe to call outside the test's own
// goroutine — a stuck simulator shows up as the measurement call timing
// out instead.
func (f *fakeFan) step() {
	data, err := os.ReadFile(f.pwmPath)
	if err != nil {
		return
	}
	pwm, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return
	}

	switch {
	case pwm >= 30:
		f.spinning = true
	case pwm < 10:
		f.spinning = false
	}

	rpm := 0
	if f.spinning {
		rpm = 1000 + pwm*10
	}
	_ = os.WriteFile(f.rpmPath, []byte(strconv.Itoa(rpm)), 0o600)
}

func TestMeasurePWMSettles(t *testing.T) {
	fan := newFakeFan(t)
	fan.spinning = true

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				fan.step()
			}
		}
	}()

	mean, err := MeasurePWM(ctx, fan.rpmPath, fan.pwmPath, 100, 1, time.Millisecond)
	close(done)

	assert.NoError(t, err)
	assert.InDelta(t, 2000, mean, 50)
}

func TestMeasureFanSatisfiesMinLEStart(t *testing.T) {
	fan := newFakeFan(t)

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				fan.step()
			}
		}
	}()

	result, err := MeasureFan(ctx, fan.rpmPath, fan.pwmPath, 5, time.Millisecond)
	close(done)

	require.NoError(t, err)
	assert.LessOrEqual(t, result.MinPWM, result.StartPWM)
}

func TestMeasurePWMCancelled(t *testing.T) {
	fan := newFakeFan(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MeasurePWM(ctx, fan.rpmPath, fan.pwmPath, 1, 1, time.Second)
	assert.ErrorIs(t, err, ErrCancelled)
}
