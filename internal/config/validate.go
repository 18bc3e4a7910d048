package config

import "fmt"

// validate runs every check §4.F requires before step 1 of the build
// order is allowed to proceed: every referenced id resolves, the
// declared curve graph has no cycle despite building in declaration
// order, and every linear curve's breakpoints are well-formed.
func validate(cfg *File) error {
	sensorIDs := make(map[string]bool, len(cfg.Sensors))
	for _, s := range cfg.Sensors {
		sensorIDs[s.ID] = true
	}

	curveIDs := make(map[string]bool, len(cfg.Curves))
	for _, c := range cfg.Curves {
		curveIDs[c.ID] = true
	}

	resolves := func(id string) bool {
		return sensorIDs[id] || curveIDs[id]
	}

	for _, c := range cfg.Curves {
		if err := validateCurveRefs(c, resolves); err != nil {
			return err
		}
		if c.Function.Type == curveTypeLinear {
			if err := validateBreakpoints(c.Function.Steps); err != nil {
				return fmt.Errorf("curve %s: %w", c.ID, err)
			}
		}
	}

	for _, f := range cfg.Fans {
		if !curveIDs[f.Curve] {
			return fmt.Errorf("fan %s: %w: curve %q", f.ID, ErrUnresolvedID, f.Curve)
		}
	}

	if err := checkAcyclic(cfg); err != nil {
		return err
	}

	return nil
}

func validateCurveRefs(c CurveYAML, resolves func(string) bool) error {
	switch c.Function.Type {
	case curveTypeLinear, curveTypePID:
		if !resolves(c.Function.Sensor) {
			return fmt.Errorf("curve %s: %w: %q", c.ID, ErrUnresolvedID, c.Function.Sensor)
		}
	case curveTypeMaximum, curveTypeAverage:
		for _, id := range c.Function.Sensors {
			if !resolves(id) {
				return fmt.Errorf("curve %s: %w: %q", c.ID, ErrUnresolvedID, id)
			}
		}
	case curveTypeStatic:
		// no references to check
	default:
		return fmt.Errorf("curve %s: %w: %q", c.ID, ErrUnknownType, c.Function.Type)
	}
	return nil
}

func validateBreakpoints(steps map[float64]float64) error {
	if len(steps) < 2 {
		return fmt.Errorf("%w: need at least 2 breakpoints, have %d", ErrInvalidBreakpoints, len(steps))
	}
	// map keys are inherently unique, so "strictly ascending" reduces to
	// having at least two distinct keys, which the length check above
	// already guarantees; no further check is needed.
	return nil
}

// checkAcyclic walks each curve's dependency edges (to other curves
// only — sources are always leaves) via depth-first search, even though
// declaration order already prevents a curve from referencing one built
// after it; declaration order is untrusted input, so the cycle check
// runs independently of build order.
func checkAcyclic(cfg *File) error {
	deps := make(map[string][]string, len(cfg.Curves))
	for _, c := range cfg.Curves {
		deps[c.ID] = curveDeps(c.Function)
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(deps))

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: at %q", ErrCycle, id)
		}
		state[id] = visiting
		for _, dep := range deps[id] {
			if _, isCurve := deps[dep]; !isCurve {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for _, c := range cfg.Curves {
		if err := visit(c.ID); err != nil {
			return err
		}
	}
	return nil
}

func curveDeps(fn CurveFuncYAML) []string {
	switch fn.Type {
	case curveTypeLinear, curveTypePID:
		return []string{fn.Sensor}
	case curveTypeMaximum, curveTypeAverage:
		return fn.Sensors
	default:
		return nil
	}
}
