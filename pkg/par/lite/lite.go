package lite

import (
	"context"

	"github.com/ib-77/chunkpool/pkg/par"
	"github.com/ib-77/chunkpool/pkg/par/core"
	"github.com/ib-77/chunkpool/pkg/par/custom"
)

func engine[T par.Integer](ctx context.Context, lines, blockSize int) (*custom.Engine[T], error) {
	opts := core.OptionsFrom(ctx, core.DefaultOptions())
	opts.Lines = lines
	opts.BlockSize = blockSize
	return custom.New[T](opts, custom.Handlers{}, nil)
}

// Map runs op over values with lines workers claiming chunks of blockSize.
func Map[T par.Integer](ctx context.Context, values []T, op par.Mapper[T],
	lines, blockSize int) par.Result[[]T] {

	e, err := engine[T](ctx, lines, blockSize)
	if err != nil {
		return par.Fail[[]T](err)
	}
	return e.Map(ctx, values, op)
}

func TryMap[T par.Integer](ctx context.Context, values []T, op par.TryMapper[T],
	lines, blockSize int) par.Result[[]T] {

	e, err := engine[T](ctx, lines, blockSize)
	if err != nil {
		return par.Fail[[]T](err)
	}
	return e.TryMap(ctx, values, op)
}

// Filter keeps the values for which pred holds, preserving order.
func Filter[T par.Integer](ctx context.Context, values []T, pred par.Predicate[T],
	lines, blockSize int) par.Result[[]T] {

	e, err := engine[T](ctx, lines, blockSize)
	if err != nil {
		return par.Fail[[]T](err)
	}
	return e.Filter(ctx, values, pred)
}

// Reduce folds values with op. The threshold and compaction come from the
// options on ctx, if any.
func Reduce[T par.Integer](ctx context.Context, values []T, op par.Folder[T],
	lines, blockSize int) par.Result[T] {

	e, err := engine[T](ctx, lines, blockSize)
	if err != nil {
		return par.Fail[T](err)
	}
	return e.Reduce(ctx, values, op)
}
