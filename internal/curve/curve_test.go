package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rufaco/rufacod/internal/node"
	"github.com/rufaco/rufacod/internal/sensorvalue"
)

// fakeSource is a minimal node.Readable stub for feeding curves a fixed
// value in tests, without needing a real hwmon file.
type fakeSource struct {
	value sensorvalue.Value
}

func (f *fakeSource) Get() sensorvalue.Value { return f.value }

func milli(m float64) sensorvalue.Value { return sensorvalue.NewTemperatureMilli(m) }

func TestLinearInterpolation(t *testing.T) {
	steps := []Breakpoint{{X: 0, Y: 10}, {X: 100, Y: 110}, {X: 200, Y: 310}}

	src := &fakeSource{}
	l := NewLinear(src, steps)

	cases := []struct {
		input float64
		want  float64
	}{
		{0, 10},
		{100000, 110},
		{150000, 210},
		{-1000, 0},
	}
	for _, tc := range cases {
		src.value = milli(tc.input)
		assert.Equal(t, tc.want, l.Get().Scaled())
	}
}

func TestLinearFixedPointAtBreakpoints(t *testing.T) {
	steps := []Breakpoint{{X: 0, Y: 10}, {X: 50, Y: 60}, {X: 100, Y: 0}}
	src := &fakeSource{}
	l := NewLinear(src, steps)

	for _, bp := range steps {
		src.value = milli(bp.X * 1000)
		assert.Equal(t, bp.Y, l.Get().Scaled())
	}
}

func TestStatic(t *testing.T) {
	s := NewStatic(42)
	assert.NoError(t, s.Update())
	assert.Equal(t, 42.0, s.Get().Scaled())
}

func TestMaximumEmptyAndIdempotent(t *testing.T) {
	empty := NewMaximum(nil)
	assert.Equal(t, 0.0, empty.Get().Scaled())

	single := NewMaximum([]node.Readable{&fakeSource{value: sensorvalue.NewPercentage(7)}})
	assert.Equal(t, 7.0, single.Get().Scaled())
}

func TestMaximumPicksLargest(t *testing.T) {
	children := []node.Readable{
		&fakeSource{value: sensorvalue.NewPercentage(10)},
		&fakeSource{value: sensorvalue.NewPercentage(90)},
		&fakeSource{value: sensorvalue.NewPercentage(50)},
	}
	m := NewMaximum(children)
	assert.Equal(t, 90.0, m.Get().Scaled())
}

func TestAverageEmptyAndIdempotent(t *testing.T) {
	empty := NewAverage(nil)
	assert.Equal(t, 0.0, empty.Get().Scaled())

	single := NewAverage([]node.Readable{&fakeSource{value: sensorvalue.NewPercentage(7)}})
	assert.Equal(t, 7.0, single.Get().Scaled())
}

func TestAverageTruncates(t *testing.T) {
	children := []node.Readable{
		&fakeSource{value: sensorvalue.NewPercentage(10)},
		&fakeSource{value: sensorvalue.NewPercentage(11)},
	}
	a := NewAverage(children)
	assert.Equal(t, 10.0, a.Get().Scaled())
}

func TestPIDToTarget(t *testing.T) {
	src := &fakeSource{value: milli(10)}
	p := NewPID(src, 1, 1, 1, 0)

	check := func(want float64) {
		assert.NoError(t, p.Update())
		assert.Equal(t, want, p.Get().Scaled())
	}

	check(0) // 0.01 degC above target 0: total -0.02, negation truncates to 0

	src.value = milli(100000)
	check(100) // sign-inverted saturated output

	p.SetTarget(50)
	src.value = milli(10000)
	check(0)

	src.value = milli(49000)
	assert.NoError(t, p.Update())
	assert.Greater(t, p.Get().Scaled(), 0.0)

	src.value = milli(51000)
	assert.NoError(t, p.Update())
	assert.Greater(t, p.Get().Scaled(), 0.0)
}
