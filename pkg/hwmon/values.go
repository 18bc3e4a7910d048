// SPDX-License-Identifier: BSD-3-Clause

package hwmon

import (
	"fmt"
	"strconv"
	"strings"
)

// Value represents a sensor value with type-safe conversion methods. The
// vocabulary is trimmed to the two sensor kinds this daemon actually
// reads through ReadValueCtx: temperature inputs and fan RPM inputs.
type Value interface {
	// Raw returns the raw integer value as read from sysfs
	Raw() int64
	// Float returns the value as a float64 in standard units
	Float() float64
	// String returns a human-readable representation
	String() string
	// Type returns the sensor type this value represents
	Type() SensorType
	// IsValid returns true if the value is within expected ranges
	IsValid() bool
	// AsTemperature converts to temperature (if applicable)
	AsTemperature() TemperatureValue
	// AsFan converts to fan speed (if applicable)
	AsFan() FanValue
}

// TemperatureValue represents a temperature sensor value.
type TemperatureValue struct {
	raw int64 // millidegree Celsius
}

// NewTemperatureValue creates a new temperature value from millidegree Celsius.
func NewTemperatureValue(millidegree int64) TemperatureValue {
	return TemperatureValue{raw: millidegree}
}

// Raw returns the raw millidegree Celsius value.
func (t TemperatureValue) Raw() int64 {
	return t.raw
}

// Float returns the temperature in degrees Celsius.
func (t TemperatureValue) Float() float64 {
	return float64(t.raw) / 1000.0
}

// Celsius returns the temperature in degrees Celsius.
func (t TemperatureValue) Celsius() float64 {
	return t.Float()
}

// Fahrenheit returns the temperature in degrees Fahrenheit.
func (t TemperatureValue) Fahrenheit() float64 {
	return t.Celsius()*9.0/5.0 + 32.0
}

// Kelvin returns the temperature in Kelvin.
func (t TemperatureValue) Kelvin() float64 {
	return t.Celsius() + 273.15
}

// String returns a human-readable temperature string.
func (t TemperatureValue) String() string {
	return fmt.Sprintf("%.1f°C", t.Celsius())
}

// Type returns the sensor type.
func (t TemperatureValue) Type() SensorType {
	return SensorTypeTemperature
}

// IsValid returns true if the temperature is within reasonable bounds.
func (t TemperatureValue) IsValid() bool {
	celsius := t.Celsius()
	return celsius >= -273.15 && celsius <= 200.0
}

// AsTemperature returns itself.
func (t TemperatureValue) AsTemperature() TemperatureValue { return t }
func (t TemperatureValue) AsFan() FanValue                 { return FanValue{} }

// FanValue represents a fan sensor value.
type FanValue struct {
	raw int64 // RPM
}

// NewFanValue creates a new fan value from RPM.
func NewFanValue(rpm int64) FanValue {
	return FanValue{raw: rpm}
}

// Raw returns the raw RPM value.
func (f FanValue) Raw() int64 {
	return f.raw
}

// Float returns the fan speed in RPM.
func (f FanValue) Float() float64 {
	return float64(f.raw)
}

// RPM returns the fan speed in RPM.
func (f FanValue) RPM() int64 {
	return f.raw
}

// String returns a human-readable fan speed string.
func (f FanValue) String() string {
	return fmt.Sprintf("%d RPM", f.raw)
}

// Type returns the sensor type.
func (f FanValue) Type() SensorType {
	return SensorTypeFan
}

// IsValid returns true if the fan speed is within reasonable bounds.
func (f FanValue) IsValid() bool {
	return f.raw >= 0 && f.raw <= 50000
}

func (f FanValue) AsTemperature() TemperatureValue { return TemperatureValue{} }
func (f FanValue) AsFan() FanValue                 { return f }

// ParseValue parses a string value from sysfs and returns the appropriate Value type.
func ParseValue(rawValue string, sensorType SensorType) (Value, error) {
	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return nil, fmt.Errorf("%w: empty value", ErrValueParseFailure)
	}

	value, err := strconv.ParseInt(rawValue, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValueParseFailure, err)
	}

	switch sensorType {
	case SensorTypeTemperature:
		return NewTemperatureValue(value), nil
	case SensorTypeFan:
		return NewFanValue(value), nil
	default:
		return nil, fmt.Errorf("%w: unsupported sensor type %v", ErrValueParseFailure, sensorType)
	}
}

// FormatValue formats a Value for writing to sysfs.
func FormatValue(value Value) string {
	return fmt.Sprintf("%d", value.Raw())
}
