package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rufaco/rufacod/internal/config"
	"github.com/rufaco/rufacod/internal/fan"
	"github.com/rufaco/rufacod/internal/node"
	"github.com/rufaco/rufacod/internal/sensorvalue"
	"github.com/rufaco/rufacod/internal/source"
)

// orderTrackingCurve records each Update call, letting the test assert
// the scheduler updated it during a tick without instrumenting real
// hardware.
type orderTrackingCurve struct {
	mu    sync.Mutex
	calls *[]string
	name  string
}

func (c *orderTrackingCurve) Update() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.calls = append(*c.calls, c.name)
	return nil
}

func (c *orderTrackingCurve) Get() sensorvalue.Value {
	return sensorvalue.NewPercentage(77)
}

var _ node.Updater = (*orderTrackingCurve)(nil)
var _ node.Readable = (*orderTrackingCurve)(nil)

func TestTickUpdatesSourcesCurvesAndFans(t *testing.T) {
	dir := t.TempDir()
	tempPath := filepath.Join(dir, "temp1_input")
	rpmPath := filepath.Join(dir, "fan1_input")
	pwmPath := filepath.Join(dir, "pwm1")
	require.NoError(t, os.WriteFile(tempPath, []byte("40000"), 0o600))
	require.NoError(t, os.WriteFile(rpmPath, []byte("0"), 0o600))
	require.NoError(t, os.WriteFile(pwmPath, []byte("0"), 0o600))

	var calls []string
	curve := &orderTrackingCurve{calls: &calls, name: "curve"}

	src := source.NewTemperature(tempPath)
	f := fan.New("fan1", rpmPath, pwmPath, curve, 10, 20)

	graph := &config.Graph{
		Sources: map[string]*source.Temperature{"cpu": src},
		Curves:  map[string]node.Readable{"demand": curve},
		Fans:    []*fan.Fan{f},
	}

	hub := New(graph, nil)
	hub.Tick(context.Background())

	assert.Contains(t, calls, "curve")
	assert.Equal(t, 40.0, src.Get().Scaled())

	data, err := os.ReadFile(pwmPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCalibratePersistsOnlyWhenFansChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &config.File{Fans: []config.FanYAML{{ID: "fan1", Curve: "c1"}}}
	require.NoError(t, config.Save(path, cfg))

	startPWM := uint8(5)
	minPWM := uint8(2)
	calibrated := &config.File{Fans: []config.FanYAML{{ID: "fan1", Curve: "c1", StartPWM: &startPWM, MinPWM: &minPWM}}}

	graph := &config.Graph{Path: path, File: calibrated, Fans: nil}
	hub := New(graph, nil)

	// No fans to calibrate: Calibrate must not touch the on-disk file.
	require.NoError(t, hub.Calibrate(context.Background(), 0, 1))

	reloaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Fans[0].StartPWM)
}
