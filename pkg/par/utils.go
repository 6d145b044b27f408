package par

import (
	"context"
	"errors"
	"reflect"

	"github.com/golangplus/errors"
)

func IsNil(i interface{}) bool {
	if i == nil || (reflect.ValueOf(i).Kind() == reflect.Ptr && reflect.ValueOf(i).IsNil()) {
		return true
	}
	return false
}

func GetErrors(err error) []error {
	if IsNil(err) {
		return []error{}
	}

	e, ok := err.(interface{ Unwrap() []error })
	if ok {
		return e.Unwrap()
	}

	return []error{err}
}

// cause strips a bare errorsp stack. StackError is left for errors.Is and
// errors.As to unwrap.
func cause(err error) error {
	if err == nil {
		return nil
	}
	return errorsp.Cause(err)
}

func IsCancellationError(err error) bool {
	err = cause(err)
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func IsInvalidConfiguration(err error) bool {
	return errors.Is(cause(err), ErrInvalidConfiguration)
}

func IsWorkerFailure(err error) bool {
	return errors.Is(cause(err), ErrWorkerFailure)
}

// AsWorkerError returns the WorkerError behind err, if any.
func AsWorkerError(err error) (*WorkerError, bool) {
	var we *WorkerError
	if errors.As(cause(err), &we) {
		return we, true
	}
	return nil, false
}
