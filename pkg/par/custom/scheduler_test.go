package custom

import (
	"context"
	"testing"

	"github.com/ib-77/chunkpool/pkg/par"
	"github.com/ib-77/chunkpool/pkg/par/core"
	"github.com/ib-77/chunkpool/pkg/par/mass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(acc, x int64) int64 { return acc + x }

func sequence(n int) []int64 {
	values := make([]int64, n)
	for i := range values {
		values[i] = int64(i + 1)
	}
	return values
}

type transition struct{ from, to State }

func TestScheduler_Transitions(t *testing.T) {
	t.Parallel()

	var got []transition
	opts := core.Options{Lines: 2, BlockSize: 10, Threshold: 5}
	s, err := NewScheduler(sequence(100), add, opts, mass.RoundHandlers{},
		func(ctx context.Context, from, to State) {
			got = append(got, transition{from, to})
		})
	require.NoError(t, err)
	assert.Equal(t, StateInit, s.State())
	assert.Equal(t, 100, s.Residual())

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5050), res)
	assert.Equal(t, StateDone, s.State())
	assert.Equal(t, 2, s.Rounds())

	assert.Equal(t, []transition{
		{StateInit, StateActive},
		{StateActive, StateTransition},
		{StateTransition, StateActive},
		{StateActive, StateTransition},
		{StateTransition, StateFinalize},
		{StateFinalize, StateDone},
	}, got)
}

// Each step shrinks the residual by the block size until it fits the threshold
func TestScheduler_StepByStep(t *testing.T) {
	t.Parallel()

	opts := core.Options{Lines: 4, BlockSize: 10, Threshold: 5}
	s, err := NewScheduler(sequence(1000), add, opts, mass.RoundHandlers{}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Step(ctx))
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 1000, s.Residual())

	require.NoError(t, s.Step(ctx))
	assert.Equal(t, StateTransition, s.State())

	require.NoError(t, s.Step(ctx))
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 100, s.Residual())

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500500), res)
	assert.Equal(t, 3, s.Rounds())
}

func TestScheduler_ShortInputSkipsRounds(t *testing.T) {
	t.Parallel()

	started := 0
	handlers := mass.RoundHandlers{
		OnStart: func(ctx context.Context, info mass.RoundInfo) { started++ },
	}
	opts := core.Options{Lines: 4, BlockSize: 2, Threshold: 5}

	for _, n := range []int{1, 5} {
		s, err := NewScheduler(sequence(n), add, opts, handlers, nil)
		require.NoError(t, err)

		res, err := s.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(n*(n+1)/2), res)
		assert.Equal(t, 0, s.Rounds())
	}
	assert.Equal(t, 0, started)
}

// A block size of 1 would never shrink the residual
func TestScheduler_BlockSizeOneStillConverges(t *testing.T) {
	t.Parallel()

	opts := core.Options{Lines: 3, BlockSize: 1, Threshold: 1}
	s, err := NewScheduler(sequence(64), add, opts, mass.RoundHandlers{}, nil)
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2080), res)
	assert.Equal(t, 6, s.Rounds())
}

func TestScheduler_Rejects(t *testing.T) {
	t.Parallel()

	opts := core.Options{Lines: 1, BlockSize: 10, Threshold: 1}

	_, err := NewScheduler([]int64{}, add, opts, mass.RoundHandlers{}, nil)
	assert.True(t, par.IsInvalidConfiguration(err))

	_, err = NewScheduler(sequence(3), nil, opts, mass.RoundHandlers{}, nil)
	assert.True(t, par.IsInvalidConfiguration(err))

	_, err = NewScheduler(sequence(3), add, core.Options{Lines: 0, BlockSize: 10, Threshold: 1}, mass.RoundHandlers{}, nil)
	assert.True(t, par.IsInvalidConfiguration(err))
}

func TestScheduler_CancelledContextFails(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	opts := core.Options{Lines: 2, BlockSize: 10, Threshold: 5}
	s, err := NewScheduler(sequence(1000), add, opts, mass.RoundHandlers{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Step(ctx))
	cancel()

	err = s.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, s.State())
	assert.ErrorIs(t, s.Err(), context.Canceled)

	// terminal states do not move
	assert.ErrorIs(t, s.Step(context.Background()), context.Canceled)
	assert.Equal(t, StateFailed, s.State())
}

func TestScheduler_DoesNotTouchInput(t *testing.T) {
	t.Parallel()

	values := sequence(50)
	opts := core.Options{Lines: 2, BlockSize: 3, Threshold: 2}
	s, err := NewScheduler(values, add, opts, mass.RoundHandlers{}, nil)
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sequence(50), values)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "transition", StateTransition.String())
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateFinalize.Terminal())
}
