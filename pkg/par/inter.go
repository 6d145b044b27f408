package par

import "time"

// Integer is the set of fixed-width element types the engine works over.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Mapper transforms one element. It must be pure.
type Mapper[T Integer] func(x T) T

// TryMapper is a Mapper that can fail; a returned error fails the whole call.
type TryMapper[T Integer] func(x T) (T, error)

// Predicate decides whether an element is kept by Filter. It must be pure.
type Predicate[T Integer] func(x T) bool

// Folder combines an accumulator with the next element. Parallel reduction
// only matches a serial left fold when the Folder is associative.
type Folder[T Integer] func(acc, x T) T

type ResultProvider[T any] interface {
	// Result returns the successful result value
	Result() T
	// CreatedAt time creation (UTC)
	CreatedAt() time.Time
	// Elapsed time spent computing the result
	Elapsed() time.Duration
}

// WithError defines an interface for types that can return a result or an error
type WithError[T any] interface {
	ResultProvider[T]
	// Err returns the error if operation failed
	Err() error
	// IsSuccess returns true if the operation was successful
	IsSuccess() bool
}

// WithCancel extends WithError with cancellation support
type WithCancel[T any] interface {
	WithError[T]
	// IsCancel returns true if the operation was cancelled
	IsCancel() bool
}
