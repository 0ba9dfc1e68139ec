package sim

import (
	"errors"
	"fmt"
)

// Contract violations reported by the kernel. Callers match them with errors.Is.
var (
	ErrInvalidServerCount  = errors.New("server count must be positive")
	ErrInvalidHorizon      = errors.New("horizon must be positive and finite")
	ErrInvalidQueueLength  = errors.New("queue length must be non-negative")
	ErrTimeRegression      = errors.New("observation time precedes last observation")
	ErrNoElapsedTime       = errors.New("no simulated time has elapsed")
	ErrEmptyFutureEventSet = errors.New("future event set is empty")
	ErrInvalidVariate      = errors.New("sampled duration must be finite and non-negative")
	ErrNilSampler          = errors.New("sampler must not be nil")
	ErrStalledArrivals     = errors.New("inter-arrival times must have a positive mean")
)

// ConfigError reports a rejected configuration value at a simulation boundary.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InvariantError aborts a run whose model state became impossible.
// It always indicates a modeling bug, never bad input.
type InvariantError struct {
	Clock float64
	Err   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("model invariant violated at t=%g: %v", e.Clock, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }
