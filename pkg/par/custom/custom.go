package custom

import (
	"context"
	"log"
	"time"

	"github.com/ib-77/chunkpool/pkg/par"
	"github.com/ib-77/chunkpool/pkg/par/core"
	"github.com/ib-77/chunkpool/pkg/par/mass"
)

// Handlers observe an engine call. Every field is optional. OnChunk and
// OnWorkerDone are called from worker goroutines.
type Handlers struct {
	OnRoundStart func(ctx context.Context, info mass.RoundInfo)
	OnRoundDone  func(ctx context.Context, info mass.RoundInfo, err error)
	OnChunk      func(ctx context.Context, worker int, chunk core.Chunk)
	OnWorkerDone func(ctx context.Context, worker int, processed int)
	OnTransition func(ctx context.Context, from, to State)
}

// Engine runs parallel map, filter and reduce with a fixed configuration. A
// fresh worker pool is launched for every round of every call.
type Engine[T par.Integer] struct {
	opts     core.Options
	handlers Handlers
	logger   *log.Logger
}

// New validates opts and builds an engine. logger may be nil.
func New[T par.Integer](opts core.Options, handlers Handlers, logger *log.Logger) (*Engine[T], error) {
	if err := opts.Validate(); err != nil {
		if logger != nil {
			for _, e := range par.GetErrors(err) {
				logger.Printf("engine options: %v", e)
			}
		}
		return nil, par.Wrapf(err, "engine options")
	}
	return &Engine[T]{opts: opts, handlers: handlers, logger: logger}, nil
}

// FromContext builds an engine from the options carried on ctx.
func FromContext[T par.Integer](ctx context.Context, handlers Handlers, logger *log.Logger) (*Engine[T], error) {
	return New[T](core.OptionsFrom(ctx, core.DefaultOptions()), handlers, logger)
}

func (e *Engine[T]) Options() core.Options {
	return e.opts
}

// Map applies op to every element of a copy of values.
func (e *Engine[T]) Map(ctx context.Context, values []T, op par.Mapper[T]) par.Result[[]T] {
	if op == nil {
		return failed[[]T]("map", par.Invalidf("nil map operation"))
	}
	buf := core.BufferFrom(values)
	return e.transform(ctx, "map", buf, mass.Mapping(buf, op))
}

// TryMap is Map for operations that can fail. The first failure fails the
// call and no values are returned.
func (e *Engine[T]) TryMap(ctx context.Context, values []T, op par.TryMapper[T]) par.Result[[]T] {
	if op == nil {
		return failed[[]T]("try-map", par.Invalidf("nil map operation"))
	}
	buf := core.BufferFrom(values)
	return e.transform(ctx, "try-map", buf, mass.Trying(buf, op))
}

func (e *Engine[T]) transform(ctx context.Context, name string, buf *core.Buffer[T],
	station core.Station) par.Result[[]T] {

	ctx, cancel := e.begin(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return par.Cancel[[]T](err)
	}

	start := time.Now()
	chunks, err := core.Plan(buf.Len(), e.opts.BlockSize)
	if err != nil {
		return failed[[]T](name, err)
	}

	round := mass.NewRound(0, chunks)
	if err := mass.Dispatch(ctx, round, e.opts.Lines, station, e.roundHandlers(name)); err != nil {
		return failed[[]T](name, err)
	}
	return par.Success(buf.Values()).Timed(time.Since(start))
}

// Filter keeps the elements for which pred holds, in their original order.
// Marking runs in parallel; compaction follows Options.Compaction.
func (e *Engine[T]) Filter(ctx context.Context, values []T, pred par.Predicate[T]) par.Result[[]T] {
	if pred == nil {
		return failed[[]T]("filter", par.Invalidf("nil predicate"))
	}

	ctx, cancel := e.begin(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return par.Cancel[[]T](err)
	}

	src := core.BufferFrom(values)
	start := time.Now()

	chunks, err := core.Plan(src.Len(), e.opts.BlockSize)
	if err != nil {
		return failed[[]T]("filter", err)
	}

	marks := core.NewBuffer[uint8](src.Len())
	counts := core.NewBuffer[int64](len(chunks))
	handlers := e.roundHandlers("filter")

	marking := mass.Marking(src, marks, counts, pred)
	if err := mass.Dispatch(ctx, mass.NewRound(0, chunks), e.opts.Lines, marking, handlers); err != nil {
		return failed[[]T]("filter", err)
	}

	offsets, kept := mass.Offsets(counts)

	var out []T
	switch e.opts.Compaction {
	case core.CompactParallel:
		dst := core.NewBuffer[T](kept)
		scatter := mass.Scattering(src, marks, offsets, dst)
		if err := mass.Dispatch(ctx, mass.NewRound(1, chunks), e.opts.Lines, scatter, handlers); err != nil {
			return failed[[]T]("filter", err)
		}
		out = dst.Values()
	default:
		out = mass.Compact(src, marks, kept)
	}

	return par.Success(out).Timed(time.Since(start))
}

// Reduce folds values with op over shrinking rounds. values must not be
// empty. The result only matches a serial left fold when op is associative.
func (e *Engine[T]) Reduce(ctx context.Context, values []T, op par.Folder[T]) par.Result[T] {
	ctx, cancel := e.begin(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return par.Cancel[T](err)
	}

	s, err := NewScheduler(values, op, e.opts, e.roundHandlers("reduce"), e.onTransition)
	if err != nil {
		return failed[T]("reduce", err)
	}

	start := time.Now()
	res, err := s.Run(ctx)
	if err != nil {
		return failed[T]("reduce", err)
	}
	e.logf("reduce: done after %d rounds", s.Rounds())
	return par.Success(res).Timed(time.Since(start))
}

func (e *Engine[T]) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.Timeout > 0 {
		return context.WithTimeout(ctx, e.opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func (e *Engine[T]) roundHandlers(name string) mass.RoundHandlers {
	return mass.RoundHandlers{
		OnStart: func(ctx context.Context, info mass.RoundInfo) {
			e.logf("%s: round %d (%s) started, %d chunks on %d lines",
				name, info.Index, info.ID, info.Chunks, info.Lines)
			if e.handlers.OnRoundStart != nil {
				e.handlers.OnRoundStart(ctx, info)
			}
		},
		OnDone: func(ctx context.Context, info mass.RoundInfo, err error) {
			if err != nil {
				e.logf("%s: round %d failed after %s: %v", name, info.Index, info.Elapsed, err)
			} else {
				e.logf("%s: round %d finished in %s", name, info.Index, info.Elapsed)
			}
			if e.handlers.OnRoundDone != nil {
				e.handlers.OnRoundDone(ctx, info, err)
			}
		},
		Worker: core.WorkerHandlers{
			OnChunk: e.handlers.OnChunk,
			OnDone:  e.handlers.OnWorkerDone,
		},
	}
}

func (e *Engine[T]) onTransition(ctx context.Context, from, to State) {
	e.logf("reduce: %s -> %s", from, to)
	if e.handlers.OnTransition != nil {
		e.handlers.OnTransition(ctx, from, to)
	}
}

func (e *Engine[T]) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

func failed[R any](op string, err error) par.Result[R] {
	return par.FromError[R](par.Wrapf(err, "%s failed", op))
}
