package motion

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfiguration indicates an invalid force model parameter. Bad
	// parameters fail at construction, never silently clamped.
	ErrConfiguration = errors.New("motion: invalid configuration")

	// ErrInvalidState indicates a body whose state contains NaN or Inf.
	ErrInvalidState = errors.New("motion: invalid state (NaN or Inf detected)")
)

// ConfigurationError reports which parameter was rejected and why.
type ConfigurationError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("motion: %s=%g %s", e.Param, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
