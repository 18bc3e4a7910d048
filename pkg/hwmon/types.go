// SPDX-License-Identifier: BSD-3-Clause

package hwmon

// SensorType represents the type of hardware sensor, matching the hwmon
// sysfs class prefixes this daemon reads (temp*, fan*).
type SensorType int

const (
	// SensorTypeTemperature represents temperature sensors (temp*).
	SensorTypeTemperature SensorType = iota
	// SensorTypeFan represents fan speed sensors (fan*).
	SensorTypeFan
)

// String returns the string representation of the sensor type.
func (st SensorType) String() string {
	switch st {
	case SensorTypeTemperature:
		return "temperature"
	case SensorTypeFan:
		return "fan"
	default:
		return "unknown"
	}
}

// Prefix returns the hwmon sysfs attribute prefix for the sensor type
// (e.g. "temp" for temp1_input, "fan" for fan1_input).
func (st SensorType) Prefix() string {
	switch st {
	case SensorTypeTemperature:
		return "temp"
	case SensorTypeFan:
		return "fan"
	default:
		return ""
	}
}
