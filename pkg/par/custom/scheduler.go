package custom

import (
	"context"

	"github.com/ib-77/chunkpool/pkg/par"
	"github.com/ib-77/chunkpool/pkg/par/core"
	"github.com/ib-77/chunkpool/pkg/par/mass"
)

type State int

const (
	StateInit State = iota
	StateActive
	StateTransition
	StateFinalize
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateActive:
		return "active"
	case StateTransition:
		return "transition"
	case StateFinalize:
		return "finalize"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Scheduler drives a reduction: each active round folds the residual down by
// the block size into a fresh buffer, until the residual is no longer than the
// threshold. The short residual is then folded on the calling goroutine.
type Scheduler[T par.Integer] struct {
	values    []T
	op        par.Folder[T]
	lines     int
	factor    int
	threshold int

	handlers     mass.RoundHandlers
	onTransition func(ctx context.Context, from, to State)

	state   State
	rounds  int
	input   *core.Buffer[T]
	output  *core.Buffer[T]
	current *mass.Round
	result  T
	err     error
}

// NewScheduler validates a reduction without starting it. values is only read.
func NewScheduler[T par.Integer](values []T, op par.Folder[T], opts core.Options,
	handlers mass.RoundHandlers, onTransition func(ctx context.Context, from, to State)) (*Scheduler[T], error) {

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if op == nil {
		return nil, par.Invalidf("nil fold operation")
	}
	if len(values) == 0 {
		return nil, par.Invalidf("cannot reduce an empty array")
	}

	return &Scheduler[T]{
		values: values,
		op:     op,
		lines:  opts.Lines,
		// a fold factor of 1 never shrinks the residual
		factor:       max(opts.BlockSize, 2),
		threshold:    opts.Threshold,
		handlers:     handlers,
		onTransition: onTransition,
		state:        StateInit,
	}, nil
}

func (s *Scheduler[T]) State() State {
	return s.state
}

// Rounds is the number of completed parallel rounds.
func (s *Scheduler[T]) Rounds() int {
	return s.rounds
}

// Residual is the length of the buffer the next step works on.
func (s *Scheduler[T]) Residual() int {
	if s.input == nil {
		return len(s.values)
	}
	return s.input.Len()
}

func (s *Scheduler[T]) Err() error {
	return s.err
}

// Step performs one state transition.
func (s *Scheduler[T]) Step(ctx context.Context) error {
	if s.state.Terminal() {
		return s.err
	}
	if err := ctx.Err(); err != nil {
		return s.fail(ctx, err)
	}

	switch s.state {
	case StateInit:
		s.input = core.BufferFrom(s.values)
		s.values = nil
		s.next(ctx)

	case StateActive:
		station := mass.Folding(s.input, s.output, s.op)
		if err := mass.Dispatch(ctx, s.current, s.lines, station, s.handlers); err != nil {
			return s.fail(ctx, err)
		}
		s.rounds++
		s.moveTo(ctx, StateTransition)

	case StateTransition:
		s.input, s.output, s.current = s.output, nil, nil
		s.next(ctx)

	case StateFinalize:
		s.result = mass.Fold(s.input.Values(), s.op)
		s.moveTo(ctx, StateDone)
	}
	return nil
}

// Run steps until the scheduler is done or failed.
func (s *Scheduler[T]) Run(ctx context.Context) (T, error) {
	for !s.state.Terminal() {
		if err := s.Step(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return s.result, s.err
}

func (s *Scheduler[T]) next(ctx context.Context) {
	if s.input.Len() <= s.threshold {
		s.moveTo(ctx, StateFinalize)
		return
	}

	// the residual length and factor are both validated, Plan cannot fail here
	chunks, _ := core.Plan(s.input.Len(), s.factor)
	s.output = core.NewBuffer[T](len(chunks))
	s.current = mass.NewRound(s.rounds, chunks)
	s.moveTo(ctx, StateActive)
}

func (s *Scheduler[T]) fail(ctx context.Context, err error) error {
	s.err = err
	s.input, s.output, s.current = nil, nil, nil
	s.moveTo(ctx, StateFailed)
	return err
}

func (s *Scheduler[T]) moveTo(ctx context.Context, to State) {
	from := s.state
	s.state = to
	if s.onTransition != nil {
		s.onTransition(ctx, from, to)
	}
}
