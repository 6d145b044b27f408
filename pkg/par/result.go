package par

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of one engine call: either a value with the time it
// took to compute, a failure, or a cancellation. A failed or cancelled Result
// never carries a value.
type Result[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	elapsed   time.Duration
	result    T
	err       error
	isSuccess bool
	isCancel  bool
	hasResult bool
}

var _ WithCancel[int32] = Result[int32]{}

func Success[T any](r T) Result[T] {
	return Result[T]{
		result:    r,
		err:       nil,
		isSuccess: true,
		isCancel:  false,
		createdAt: time.Now().UTC(),
		hasResult: true,
		id:        uuid.New(),
	}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{
		err:       err,
		isSuccess: false,
		isCancel:  false,
		createdAt: time.Now().UTC(),
		hasResult: false,
		id:        uuid.New(),
	}
}

func Cancel[T any](err error) Result[T] {
	return Result[T]{
		err:       err,
		isSuccess: false,
		isCancel:  true,
		createdAt: time.Now().UTC(),
		hasResult: false,
		id:        uuid.New(),
	}
}

// FromError builds a Fail or Cancel result depending on the kind of err.
func FromError[T any](err error) Result[T] {
	if IsCancellationError(err) {
		return Cancel[T](err)
	}
	return Fail[T](err)
}

// CancelFrom carries a non-successful result over to another value type.
func CancelFrom[In, Out any](from Result[In]) Result[Out] {
	return Result[Out]{
		err:       from.err,
		isSuccess: false,
		isCancel:  from.isCancel,
		createdAt: from.createdAt,
		elapsed:   from.elapsed,
		hasResult: false,
		id:        from.id,
	}
}

// Timed returns a copy of r that reports d as its elapsed time.
func (r Result[T]) Timed(d time.Duration) Result[T] {
	r.elapsed = d
	return r
}

func (r Result[T]) Result() T {
	return r.result
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

func (r Result[T]) IsFailure() bool {
	return !r.isSuccess && r.err != nil
}

func (r Result[T]) IsCancel() bool {
	return r.isCancel
}

func (r Result[T]) HasResult() bool {
	return r.hasResult
}

func (r Result[T]) CreatedAt() time.Time {
	return r.createdAt
}

// Elapsed is the wall-clock time of the computation that produced r.
func (r Result[T]) Elapsed() time.Duration {
	return r.elapsed
}

func (r Result[T]) IsEmpty() bool {
	return r.err == nil && !r.isCancel && !r.isSuccess
}

func (r Result[T]) Id() uuid.UUID {
	return r.id
}
