package loglog

import "github.com/pkg/errors"

var (
	// ErrInvalidPrecision is returned when a sketch is configured with a
	// precision outside [MinPrecision, MaxPrecision].
	ErrInvalidPrecision = errors.New("loglog: invalid precision")

	// ErrPrecisionMismatch is returned when merging sketches built with
	// different precisions.
	ErrPrecisionMismatch = errors.New("loglog: precision mismatch")

	// ErrConfigMismatch is returned when merging sketches that agree on
	// precision but use a different variant or hash strategy.
	ErrConfigMismatch = errors.New("loglog: config mismatch")

	// ErrHashFailure is returned when a value has no canonical byte form.
	// Callers should treat it as a programming error.
	ErrHashFailure = errors.New("loglog: value cannot be hashed")

	// ErrInvalidRegisters is returned by FromRegisters for a register array
	// of the wrong length or with out-of-range values.
	ErrInvalidRegisters = errors.New("loglog: invalid registers")

	// ErrNoSketches is returned by Merge when called without arguments, and
	// by Merge and Combine when given a nil sketch.
	ErrNoSketches = errors.New("loglog: nothing to merge")
)
