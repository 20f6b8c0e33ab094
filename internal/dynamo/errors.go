package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	// ErrParse indicates input that is not a valid number.
	ErrParse = errors.New("dynamo: not a valid number")

	// ErrRange indicates a numeric input that is not strictly positive, or a
	// scenario whose energy is not representable.
	ErrRange = errors.New("dynamo: value must be greater than 0 and finite")

	// ErrParameterBounds indicates a model parameter outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrTooFewSamples indicates a time grid that cannot span [0, t_max].
	ErrTooFewSamples = errors.New("dynamo: at least 2 samples required")

	// ErrUnknownIntegrator indicates a stepper name with no registration.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrInvalidState indicates a NaN or Inf in the state vector.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// InputError ties a rejected input to the field it was given for.
type InputError struct {
	Field string
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err is a parse or range rejection.
func IsInputError(err error) bool {
	return errors.Is(err, ErrParse) || errors.Is(err, ErrRange)
}

// SimError marks the step where the numeric simulator stopped.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
