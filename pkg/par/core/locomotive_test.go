package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ib-77/chunkpool/pkg/par"
)

func TestLocomotive_ProcessesEveryChunk(t *testing.T) {
	t.Parallel()

	chunks, _ := Plan(100, 10)
	track := NewTrack(0, chunks)
	buf := NewBuffer[int32](100)

	var done atomic.Int32
	handlers := WorkerHandlers{
		OnDone: func(ctx context.Context, worker int, processed int) {
			done.Add(int32(processed))
		},
	}
	station := func(ctx context.Context, c Chunk) error {
		for i := c.Start; i < c.End; i++ {
			buf.Set(i, int32(i)+1)
		}
		return nil
	}

	errCh := make(chan error, 1)
	wg := &sync.WaitGroup{}
	wg.Add(1)
	Locomotive(context.Background(), 0, track, station, handlers, errCh, wg)
	wg.Wait()

	if got := done.Load(); got != 10 {
		t.Fatalf("expected 10 processed chunks, got %d", got)
	}
	for i, v := range buf.Values() {
		if v != int32(i)+1 {
			t.Fatalf("index %d not processed: %d", i, v)
		}
	}
	select {
	case err := <-errCh:
		t.Fatalf("unexpected error: %v", err)
	default:
	}
}

func TestLocomotive_StationErrorStopsWorker(t *testing.T) {
	t.Parallel()

	chunks, _ := Plan(50, 10)
	track := NewTrack(3, chunks)
	boom := errors.New("boom")

	calls := 0
	station := func(ctx context.Context, c Chunk) error {
		calls++
		if c.Start == 20 {
			return boom
		}
		return nil
	}

	errCh := make(chan error, 1)
	wg := &sync.WaitGroup{}
	wg.Add(1)
	Locomotive(context.Background(), 7, track, station, WorkerHandlers{}, errCh, wg)

	if calls != 3 {
		t.Fatalf("expected the worker to stop after the failing chunk, got %d calls", calls)
	}
	err := <-errCh
	we, ok := par.AsWorkerError(err)
	if !ok {
		t.Fatalf("expected WorkerError, got %T: %v", err, err)
	}
	if we.Round != 3 || we.Worker != 7 || we.Start != 20 || we.End != 30 {
		t.Fatalf("unexpected worker error fields: %+v", we)
	}
	if !errors.Is(err, boom) || !par.IsWorkerFailure(err) {
		t.Fatalf("expected error to wrap boom and ErrWorkerFailure: %v", err)
	}
}

func TestLocomotive_RecoversPanics(t *testing.T) {
	t.Parallel()

	chunks, _ := Plan(4, 4)
	track := NewTrack(0, chunks)
	station := func(ctx context.Context, c Chunk) error {
		panic("bad operation")
	}

	errCh := make(chan error, 1)
	wg := &sync.WaitGroup{}
	wg.Add(1)
	Locomotive(context.Background(), 0, track, station, WorkerHandlers{}, errCh, wg)

	err := <-errCh
	var pe *par.PanicError
	if !errors.As(err, &pe) || pe.Value != "bad operation" {
		t.Fatalf("expected PanicError with the panic value, got %v", err)
	}
}

func TestLocomotive_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	chunks, _ := Plan(10, 1)
	track := NewTrack(0, chunks)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	station := func(ctx context.Context, c Chunk) error {
		calls++
		return nil
	}

	errCh := make(chan error, 1)
	wg := &sync.WaitGroup{}
	wg.Add(1)
	Locomotive(ctx, 0, track, station, WorkerHandlers{}, errCh, wg)

	if calls != 0 || track.Control.Claimed() != 0 {
		t.Fatalf("cancelled worker must not claim, calls=%d claimed=%d", calls, track.Control.Claimed())
	}
}
