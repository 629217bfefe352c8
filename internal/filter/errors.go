package filter

import (
	"errors"
	"fmt"
)

// Domain errors for filter operations.
var (
	// ErrTableShape indicates an input table whose length does not match the pad count.
	ErrTableShape = errors.New("filter: table does not match pad count")

	// ErrInvalidProbability indicates a probability that is NaN, Inf or outside [0,1].
	ErrInvalidProbability = errors.New("filter: probability must be finite and within [0,1]")

	// ErrInvalidLikelihood indicates a correction weight that is NaN, Inf or negative.
	ErrInvalidLikelihood = errors.New("filter: likelihood must be finite and non-negative")

	// ErrInvalidParams indicates filter parameters outside their valid range.
	ErrInvalidParams = errors.New("filter: invalid parameters")

	// ErrInvalidAngle indicates a NaN or infinite rotation angle.
	ErrInvalidAngle = errors.New("filter: angle must be finite")

	// ErrNotReady indicates a correction was requested before its table was loaded.
	ErrNotReady = errors.New("filter: correction table not loaded")

	// ErrNotNormalized indicates a distribution whose total drifted away from 1.
	ErrNotNormalized = errors.New("filter: probabilities do not sum to 1")
)

// StepError wraps a failure inside one predict-correct-select cycle.
type StepError struct {
	Subject string
	Angle   float64
	Stage   string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s at %.1f deg (%s): %v", e.Subject, e.Angle, e.Stage, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
