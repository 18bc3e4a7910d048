// SPDX-License-Identifier: BSD-3-Clause

// Package hwmon provides a minimal, context-aware interface to the Linux
// hwmon (hardware monitoring) subsystem through sysfs. It gives a fan
// control daemon exactly what it needs to discover chips, read sensor
// inputs, and write PWM outputs — nothing more.
//
// # Sysfs layout
//
// The kernel exposes each monitoring chip under /sys/class/hwmon/hwmonN,
// with individual sensor attributes as flat files inside that directory:
// temp1_input, fan1_input, pwm1, and so on. ListDevices and
// FindDeviceByName walk that directory; ReadInt/WriteInt read and write a
// single attribute file.
//
// # Typed values
//
// Raw sysfs integers carry an implicit unit (millidegree Celsius, RPM).
// The Value interface and its concrete types (TemperatureValue, FanValue)
// attach that unit to the raw integer so callers convert once, at the
// boundary, instead of scattering magic divisors through the rest of the
// codebase. PWM output bytes are written directly via WriteIntCtx since
// this daemon only ever writes them, never parses one back from sysfs.
//
// # Context and cancellation
//
// Every blocking call has a Ctx variant accepting a context.Context; the
// non-Ctx variants are a convenience for callers that never need to
// cancel a read or write (sysfs IO is local and fast, but not
// instantaneous, and a stuck mount should not hang a control loop
// forever).
package hwmon
