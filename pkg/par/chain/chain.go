package chain

import (
	"context"

	"github.com/ib-77/chunkpool/pkg/par"
	"github.com/ib-77/chunkpool/pkg/par/custom"
	"github.com/ib-77/chunkpool/pkg/par/solo"
)

// Chain wraps an array result with the context and engine that produce the
// next step. Elapsed times add up across steps.
type Chain[T par.Integer] struct {
	ctx    context.Context
	engine *custom.Engine[T]
	result par.Result[[]T]
}

// Start creates a new chain from a par.Result
func Start[T par.Integer](ctx context.Context, engine *custom.Engine[T], result par.Result[[]T]) *Chain[T] {
	return &Chain[T]{
		ctx:    ctx,
		engine: engine,
		result: result,
	}
}

// FromValues creates a new chain from an input array
func FromValues[T par.Integer](ctx context.Context, engine *custom.Engine[T], values []T) *Chain[T] {
	return Start(ctx, engine, par.Success(values))
}

// Result returns the underlying par.Result
func (c *Chain[T]) Result() par.Result[[]T] {
	return c.result
}

// Map runs a parallel map over the current array
func (c *Chain[T]) Map(op par.Mapper[T]) *Chain[T] {
	return c.then(func(values []T) par.Result[[]T] {
		return c.engine.Map(c.ctx, values, op)
	})
}

// TryMap runs a parallel fallible map over the current array
func (c *Chain[T]) TryMap(op par.TryMapper[T]) *Chain[T] {
	return c.then(func(values []T) par.Result[[]T] {
		return c.engine.TryMap(c.ctx, values, op)
	})
}

// Filter runs a parallel filter over the current array
func (c *Chain[T]) Filter(pred par.Predicate[T]) *Chain[T] {
	return c.then(func(values []T) par.Result[[]T] {
		return c.engine.Filter(c.ctx, values, pred)
	})
}

// Ensure performs a side effect without changing the result
func (c *Chain[T]) Ensure(onSuccess func(context.Context, []T)) *Chain[T] {
	if c.result.IsSuccess() {
		onSuccess(c.ctx, c.result.Result())
	}
	return c
}

// Reduce ends the chain with a parallel reduction
func (c *Chain[T]) Reduce(op par.Folder[T]) par.Result[T] {
	if !c.result.IsSuccess() {
		return par.CancelFrom[[]T, T](c.result)
	}
	res := c.engine.Reduce(c.ctx, c.result.Result(), op)
	return res.Timed(c.result.Elapsed() + res.Elapsed())
}

func (c *Chain[T]) then(step func(values []T) par.Result[[]T]) *Chain[T] {
	if !c.result.IsSuccess() {
		return c
	}
	res := step(c.result.Result())
	return &Chain[T]{
		ctx:    c.ctx,
		engine: c.engine,
		result: res.Timed(c.result.Elapsed() + res.Elapsed()),
	}
}

// Finally collapses the chain into a final value using solo.Finally
func Finally[T par.Integer, U any](c *Chain[T], onSuccess func(context.Context, []T) U,
	onFailure func(context.Context, error) U, onCancel func(context.Context, error) U) U {
	return solo.Finally[[]T, U](c.ctx, c.result, onSuccess, onFailure, onCancel)
}
