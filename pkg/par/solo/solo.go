package solo

import (
	"context"
	"time"

	"github.com/ib-77/chunkpool/pkg/par"
)

// Map applies op to a copy of values, left to right.
func Map[T par.Integer](ctx context.Context, values []T, op par.Mapper[T]) par.Result[[]T] {
	if err := ctx.Err(); err != nil {
		return par.Cancel[[]T](err)
	}

	start := time.Now()
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = op(v)
	}
	return par.Success(out).Timed(time.Since(start))
}

// TryMap is Map for operations that can fail.
func TryMap[T par.Integer](ctx context.Context, values []T, op par.TryMapper[T]) par.Result[[]T] {
	if err := ctx.Err(); err != nil {
		return par.Cancel[[]T](err)
	}

	start := time.Now()
	out := make([]T, len(values))
	for i, v := range values {
		r, err := op(v)
		if err != nil {
			return par.Fail[[]T](err).Timed(time.Since(start))
		}
		out[i] = r
	}
	return par.Success(out).Timed(time.Since(start))
}

// Filter keeps the values for which pred holds, in their original order.
func Filter[T par.Integer](ctx context.Context, values []T, pred par.Predicate[T]) par.Result[[]T] {
	if err := ctx.Err(); err != nil {
		return par.Cancel[[]T](err)
	}

	start := time.Now()
	out := make([]T, 0)
	for _, v := range values {
		if pred(v) {
			out = append(out, v)
		}
	}
	return par.Success(out).Timed(time.Since(start))
}

// Reduce left-folds values seeded with the first element. An empty input has
// no seed and fails with ErrInvalidConfiguration.
func Reduce[T par.Integer](ctx context.Context, values []T, op par.Folder[T]) par.Result[T] {
	if err := ctx.Err(); err != nil {
		return par.Cancel[T](err)
	}
	if len(values) == 0 {
		return par.Fail[T](par.Invalidf("cannot reduce an empty array"))
	}

	start := time.Now()
	acc := values[0]
	for _, v := range values[1:] {
		acc = op(acc, v)
	}
	return par.Success(acc).Timed(time.Since(start))
}

// Finally collapses a result into a concrete value.
func Finally[In, Out any](ctx context.Context, input par.Result[In],
	onSuccess func(ctx context.Context, r In) Out,
	onError func(ctx context.Context, err error) Out,
	onCancel func(ctx context.Context, err error) Out) Out {

	if input.IsSuccess() {
		return onSuccess(ctx, input.Result())
	} else if input.IsCancel() {
		return onCancel(ctx, input.Err())
	} else {
		return onError(ctx, input.Err())
	}
}
