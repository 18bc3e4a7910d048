package fan

import (
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rufaco/rufacod/internal/sensorvalue"
)

type fakeCurve struct {
	demand float64
}

func (c *fakeCurve) Get() sensorvalue.Value { return sensorvalue.NewPercentage(c.demand) }

func newTestFan(t *testing.T, curve *fakeCurve, minPWM, startPWM uint8) (*Fan, string, string) {
	t.Helper()
	dir := t.TempDir()
	rpmPath := dir + "/fan1_input"
	pwmPath := dir + "/pwm1"

	if err := writeFile(rpmPath, "0"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(pwmPath, "0"); err != nil {
		t.Fatal(err)
	}

	f := New("fan1", rpmPath, pwmPath, curve, minPWM, startPWM)
	return f, rpmPath, pwmPath
}

func TestFanHysteresis(t *testing.T) {
	curve := &fakeCurve{}
	f, rpmPath, pwmPath := newTestFan(t, curve, 21, 42)

	curve.demand = 100
	writeFile(rpmPath, "0")
	assert.NoError(t, f.Update())
	assert.Equal(t, uint8(255), readPWM(t, pwmPath))

	curve.demand = 0
	writeFile(rpmPath, "0")
	assert.NoError(t, f.Update())
	assert.Equal(t, uint8(0), readPWM(t, pwmPath))

	curve.demand = 1
	writeFile(rpmPath, "0")
	assert.NoError(t, f.Update())
	assert.LessOrEqual(t, readPWM(t, pwmPath), uint8(42))

	curve.demand = 1
	writeFile(rpmPath, "4242")
	assert.NoError(t, f.Update())
	got := readPWM(t, pwmPath)
	assert.GreaterOrEqual(t, got, uint8(21))
	assert.LessOrEqual(t, got, uint8(42))
}

func TestFanStopLatch(t *testing.T) {
	curve := &fakeCurve{demand: 0}
	f, rpmPath, pwmPath := newTestFan(t, curve, 21, 42)
	writeFile(rpmPath, "4242")

	restore := nowFunc
	defer func() { nowFunc = restore }()

	base := time.Now()
	nowFunc = func() time.Time { return base.Add(-100 * time.Second) }
	assert.NoError(t, f.Update())

	nowFunc = func() time.Time { return base }
	assert.NoError(t, f.Update())
	assert.Equal(t, uint8(0), readPWM(t, pwmPath))
}

func TestPWMFromPercent(t *testing.T) {
	assert.Equal(t, uint8(255), pwmFromPercent(100, 0))
	assert.Equal(t, uint8(0), pwmFromPercent(0, 0))
	assert.Equal(t, uint8(21), pwmFromPercent(0, 21))
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o600)
}

func readPWM(t *testing.T, path string) uint8 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	return uint8(v)
}
