package config

import "errors"

var (
	// ErrNotFound is returned by Locate when no config file exists at any
	// searched path.
	ErrNotFound = errors.New("config file not found")
	// ErrParse is returned when the YAML document cannot be unmarshalled.
	ErrParse = errors.New("config parse failure")
	// ErrUnresolvedID is returned when a curve or fan references a
	// sensor/curve id that was never declared.
	ErrUnresolvedID = errors.New("unresolved sensor or curve id")
	// ErrUnknownType is returned for an unrecognized sensor or curve
	// function tag.
	ErrUnknownType = errors.New("unknown sensor or curve type")
	// ErrInvalidBreakpoints is returned when a linear curve's steps are
	// empty, have fewer than two entries, or are not strictly ascending.
	ErrInvalidBreakpoints = errors.New("invalid linear curve breakpoints")
	// ErrCycle is returned when the curve graph contains a cycle.
	ErrCycle = errors.New("cyclic curve graph")
)
