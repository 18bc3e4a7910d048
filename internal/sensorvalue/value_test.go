package sensorvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaled(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want float64
	}{
		{"temperature milli", NewTemperatureMilli(100000), 100},
		{"temperature milli fraction", NewTemperatureMilli(10), 0.01},
		{"percentage", NewPercentage(42), 42},
		{"rpm", NewRPM(4242), 4242},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.v.Scaled(), 1e-9)
		})
	}
}

func TestCompareOrdering(t *testing.T) {
	a := NewPercentage(10)
	b := NewPercentage(20)

	assert.Negative(t, Compare(a, b))
	assert.Positive(t, Compare(b, a))
	assert.Zero(t, Compare(a, a))
}

func TestCompareAntisymmetricAndTransitive(t *testing.T) {
	a := NewPercentage(1)
	b := NewPercentage(2)
	c := NewPercentage(3)

	assert.True(t, Compare(a, b) < 0 && Compare(b, a) > 0)
	assert.True(t, Compare(a, b) < 0 && Compare(b, c) < 0 && Compare(a, c) < 0)
}

func TestMax(t *testing.T) {
	a := NewPercentage(10)
	b := NewPercentage(20)

	assert.Equal(t, b, Max(a, b))
	assert.Equal(t, b, Max(b, a))
	assert.Equal(t, a, Max(a, a))
}
