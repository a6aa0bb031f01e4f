package hydro

import "errors"

// Domain errors for apparatus construction.
var (
	// ErrInvalidContainer indicates a container with non-positive width or
	// negative height.
	ErrInvalidContainer = errors.New("hydro: invalid container geometry")

	// ErrInvalidConstants indicates a non-positive or non-finite density or
	// gravity.
	ErrInvalidConstants = errors.New("hydro: density and gravity must be positive")

	// ErrInvalidTolerance indicates a negative equilibrium tolerance.
	ErrInvalidTolerance = errors.New("hydro: tolerance must not be negative")
)
