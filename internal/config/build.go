package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rufaco/rufacod/pkg/hwmon"

	"github.com/rufaco/rufacod/internal/curve"
	"github.com/rufaco/rufacod/internal/fan"
	"github.com/rufaco/rufacod/internal/node"
	"github.com/rufaco/rufacod/internal/source"
)

// Graph is the fully built, ready-to-schedule curve graph: every
// temperature source, curve, and fan instantiated and wired to the
// nodes it references, plus the loaded file it was built from (so the
// scheduler can persist calibration results back to the same path).
type Graph struct {
	Path    string
	File    *File
	Sources map[string]*source.Temperature
	Curves  map[string]node.Readable
	Fans    []*fan.Fan
}

// Build validates cfg and instantiates the graph it describes: sources
// first, then curves in declaration order (each resolving its input ids
// against sources, then already-built curves), then fans bound to their
// named curve. Validation — id resolution, cycle detection, linear
// breakpoint well-formedness — runs before any node is instantiated, so
// a malformed config fails as a unit rather than partially building.
func Build(path string, cfg *File) (*Graph, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	sources := make(map[string]*source.Temperature, len(cfg.Sensors))
	for _, s := range cfg.Sensors {
		p, err := resolveSensorPath(s.Sensor, "temp")
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", s.ID, err)
		}
		sources[s.ID] = source.NewTemperature(p)
	}

	curves := make(map[string]node.Readable, len(cfg.Curves))
	for _, c := range cfg.Curves {
		lookup := func(id string) (node.Readable, bool) {
			if s, ok := sources[id]; ok {
				return s, true
			}
			if c, ok := curves[id]; ok {
				return c, true
			}
			return nil, false
		}

		built, err := buildCurve(c.Function, lookup)
		if err != nil {
			return nil, fmt.Errorf("curve %s: %w", c.ID, err)
		}
		curves[c.ID] = built
	}

	fans := make([]*fan.Fan, 0, len(cfg.Fans))
	for _, f := range cfg.Fans {
		rpmPath, err := resolveSensorPath(f.Sensor, "fan")
		if err != nil {
			return nil, fmt.Errorf("fan %s: %w", f.ID, err)
		}
		pwmPath, err := resolvePWMPath(f.Sensor)
		if err != nil {
			return nil, fmt.Errorf("fan %s: %w", f.ID, err)
		}

		boundCurve, ok := curves[f.Curve]
		if !ok {
			return nil, fmt.Errorf("fan %s: %w: curve %q", f.ID, ErrUnresolvedID, f.Curve)
		}

		var minPWM, startPWM uint8
		if f.MinPWM != nil {
			minPWM = *f.MinPWM
		}
		if f.StartPWM != nil {
			startPWM = *f.StartPWM
		}

		fans = append(fans, fan.New(f.ID, rpmPath, pwmPath, boundCurve, minPWM, startPWM))
	}

	return &Graph{Path: path, File: cfg, Sources: sources, Curves: curves, Fans: fans}, nil
}

// buildCurve instantiates a single curve node. lookup resolves an input
// id against sources and already-built curves.
func buildCurve(fn CurveFuncYAML, lookup func(string) (node.Readable, bool)) (node.Readable, error) {
	switch fn.Type {
	case curveTypeLinear:
		input, ok := lookup(fn.Sensor)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedID, fn.Sensor)
		}
		return curve.NewLinear(input, breakpointsFromSteps(fn.Steps)), nil

	case curveTypeStatic:
		return curve.NewStatic(fn.Value), nil

	case curveTypeMaximum:
		children, err := resolveAll(fn.Sensors, lookup)
		if err != nil {
			return nil, err
		}
		return curve.NewMaximum(children), nil

	case curveTypeAverage:
		children, err := resolveAll(fn.Sensors, lookup)
		if err != nil {
			return nil, err
		}
		return curve.NewAverage(children), nil

	case curveTypePID:
		input, ok := lookup(fn.Sensor)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedID, fn.Sensor)
		}
		return curve.NewPID(input, fn.P, fn.I, fn.D, fn.Target), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, fn.Type)
	}
}

func resolveAll(ids []string, lookup func(string) (node.Readable, bool)) ([]node.Readable, error) {
	out := make([]node.Readable, 0, len(ids))
	for _, id := range ids {
		n, ok := lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedID, id)
		}
		out = append(out, n)
	}
	return out, nil
}

// breakpointsFromSteps converts the YAML steps map into strictly
// ascending Breakpoints. validate has already confirmed the map is
// well-formed.
func breakpointsFromSteps(steps map[float64]float64) []curve.Breakpoint {
	xs := make([]float64, 0, len(steps))
	for x := range steps {
		xs = append(xs, x)
	}
	sort.Float64s(xs)

	out := make([]curve.Breakpoint, 0, len(xs))
	for _, x := range xs {
		out = append(out, curve.Breakpoint{X: x, Y: steps[x]})
	}
	return out
}

// resolveSensorPath returns the sysfs or plain-file path a sensor
// reference reads from. prefix is the hwmon attribute family ("temp" or
// "fan") used when the reference is a hwmon chip/name pair; the file
// backend ignores it.
func resolveSensorPath(ref SensorRefYAML, prefix string) (string, error) {
	switch ref.Type {
	case sensorTypeFile:
		return ref.Path, nil
	case sensorTypeHwmon:
		return hwmonAttributePath(ref, prefix, "_input")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, ref.Type)
	}
}

// resolvePWMPath returns the pwm<N> attribute path for a fan's hwmon
// sensor reference. File-backed fans are only meaningful in tests, where
// a sibling "pwm" file next to the RPM file stands in for pwm<N>.
func resolvePWMPath(ref SensorRefYAML) (string, error) {
	switch ref.Type {
	case sensorTypeFile:
		return filepath.Join(filepath.Dir(ref.Path), "pwm"), nil
	case sensorTypeHwmon:
		return hwmonAttributePath(ref, "pwm", "")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, ref.Type)
	}
}

func hwmonAttributePath(ref SensorRefYAML, family, suffix string) (string, error) {
	chipName := ref.Chip
	if chipName == "" {
		chipName = ref.Name
	}

	device, err := hwmon.FindDeviceByName(chipName)
	if err != nil {
		return "", fmt.Errorf("resolving hwmon device %s/%s: %w", ref.Chip, ref.Name, err)
	}

	index := ref.Index
	if index == 0 {
		index = 1
	}

	return filepath.Join(device, fmt.Sprintf("%s%d%s", family, index, suffix)), nil
}
