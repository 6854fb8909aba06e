package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for configuration and host-side operations. The simulation
// core itself never returns these; it clamps or no-ops instead.
var (
	// ErrInvalidConfig indicates a configuration document that cannot be used.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates a tuning key the body does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownPreset indicates a preset name with no definition.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrUnstable indicates the simulation diverged (NaN or Inf energy).
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrRunNotFound indicates a stored run id with no data on disk.
	ErrRunNotFound = errors.New("dynamo: run not found")

	// ErrNoData indicates a stored run without frames.
	ErrNoData = errors.New("dynamo: no data")
)

// BoundsError reports which parameter failed validation and why.
type BoundsError struct {
	Param string
	Value float64
	Want  string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s = %g: want %s", e.Param, e.Value, e.Want)
}

func (e *BoundsError) Unwrap() error {
	return ErrParameterBounds
}
