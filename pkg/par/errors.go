package par

import (
	"errors"
	"fmt"

	"github.com/golangplus/errors"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrWorkerFailure        = errors.New("worker failure")
)

// Invalidf wraps ErrInvalidConfiguration with a formatted detail.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// WorkerError reports an Operation that failed while a worker was processing
// a chunk. Panics raised by the Operation are recovered into Err.
type WorkerError struct {
	Round  int
	Worker int
	Start  int
	End    int
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d failed on chunk [%d, %d) in round %d: %v",
		e.Worker, e.Start, e.End, e.Round, e.Err)
}

func (e *WorkerError) Unwrap() []error {
	return []error{ErrWorkerFailure, e.Err}
}

// PanicError holds the value recovered from a panicking Operation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("operation panicked: %v", e.Value)
}

// StackError is a failure annotated with the stack where it left the engine.
// Unwrap exposes the cause, so errors.Is and errors.As reach the sentinels
// and the WorkerError underneath.
type StackError struct {
	*errorsp.ErrorWithStacks
}

func (e *StackError) Unwrap() error {
	// a deeper caller gets a nested stack from errorsp
	if es, ok := e.Err.(*errorsp.ErrorWithStacks); ok {
		return &StackError{es}
	}
	return e.Err
}

// Wrapf adds the caller's stack and a message to err. A nil err stays nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	// extend the existing stack instead of nesting a second one
	if se, ok := err.(*StackError); ok {
		err = se.ErrorWithStacks
	}
	w := errorsp.WithStacksAndMessage(err, format, args...)
	if es, ok := w.(*errorsp.ErrorWithStacks); ok {
		return &StackError{es}
	}
	return w
}
