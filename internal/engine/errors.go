package engine

import (
	"errors"
	"fmt"
)

// Domain errors for run management.
var (
	// ErrInvalidInput indicates input that cannot be run, e.g. fewer points
	// than clusters. Runs with invalid input complete immediately with an
	// empty result.
	ErrInvalidInput = errors.New("engine: invalid input")

	// ErrUnknownAlgorithm indicates a kind with no registered driver.
	ErrUnknownAlgorithm = errors.New("engine: unknown algorithm")

	// ErrDriverPanic wraps a recovered panic from inside a driver step.
	ErrDriverPanic = errors.New("engine: driver panicked")
)

// StepError wraps a driver fault with run context.
type StepError struct {
	Run       string
	Algorithm string
	Step      int
	Wrapped   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step %d (run %s): %v", e.Algorithm, e.Step, e.Run, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }

// ErrStepAfterDone is returned by drivers stepped past their last step.
var ErrStepAfterDone = errors.New("engine: step requested after driver finished")
