// Package sensorvalue implements the canonical scalar type shared across
// the curve graph: every temperature source, curve node, and fan demand is
// a Value, tagged with the kind of quantity it carries and a scale factor
// that converts its raw sysfs-native integer into the unit graph code
// actually reasons about.
package sensorvalue

// Kind tags what physical quantity a Value represents.
type Kind int

const (
	// Temperature values store millidegree Celsius raw, scaled to °C.
	Temperature Kind = iota
	// Percentage values store demand/output percent, raw == scaled.
	Percentage
	// RPM values store fan speed, raw == scaled.
	RPM
)

// String returns a human-readable name for the kind, used in log lines.
func (k Kind) String() string {
	switch k {
	case Temperature:
		return "temperature"
	case Percentage:
		return "percentage"
	case RPM:
		return "rpm"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar: a kind, a scale factor, and the raw number as
// read from (or computed for) its source. It never mutates after
// construction — callers replace a Value wholesale rather than editing one
// in place.
type Value struct {
	kind   Kind
	factor float64
	raw    float64
}

// New constructs a Value from its three fields directly.
func New(kind Kind, factor, raw float64) Value {
	return Value{kind: kind, factor: factor, raw: raw}
}

// NewTemperatureMilli builds a Temperature Value from millidegree Celsius,
// the unit hwmon temp*_input attributes use.
func NewTemperatureMilli(milli float64) Value {
	return Value{kind: Temperature, factor: 1.0 / 1000.0, raw: milli}
}

// NewPercentage builds a Percentage Value; raw and scaled are identical.
func NewPercentage(pct float64) Value {
	return Value{kind: Percentage, factor: 1, raw: pct}
}

// NewRPM builds an RPM Value; raw and scaled are identical.
func NewRPM(rpm float64) Value {
	return Value{kind: RPM, factor: 1, raw: rpm}
}

// Kind returns the tagged quantity kind.
func (v Value) Kind() Kind { return v.kind }

// Raw returns the unscaled raw number as stored.
func (v Value) Raw() float64 { return v.raw }

// Scaled returns raw × factor — the value in its natural unit (°C,
// percent, RPM).
func (v Value) Scaled() float64 { return v.raw * v.factor }

// Compare orders two Values by their scaled value: negative if a < b,
// zero if equal, positive if a > b. Comparison across different Kinds is
// permitted by this type (the graph never mixes kinds across a single
// comparison site) and is antisymmetric and transitive because it reduces
// to float64 comparison.
func Compare(a, b Value) int {
	as, bs := a.Scaled(), b.Scaled()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// Max returns whichever of a, b has the larger scaled value.
func Max(a, b Value) Value {
	if Compare(a, b) >= 0 {
		return a
	}
	return b
}
