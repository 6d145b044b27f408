package mass

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ib-77/chunkpool/pkg/par"
	"github.com/ib-77/chunkpool/pkg/par/core"
)

// Round is one parallel pass over a buffer: a chunk list and the claim cursor
// its workers share.
type Round struct {
	ID uuid.UUID
	*core.Track
}

func NewRound(index int, chunks []core.Chunk) *Round {
	return &Round{
		ID:    uuid.New(),
		Track: core.NewTrack(index, chunks),
	}
}

// RoundInfo describes a round to handlers.
type RoundInfo struct {
	ID      uuid.UUID
	Index   int
	Chunks  int
	Lines   int
	Elapsed time.Duration
}

type RoundHandlers struct {
	OnStart func(ctx context.Context, info RoundInfo)
	OnDone  func(ctx context.Context, info RoundInfo, err error)
	Worker  core.WorkerHandlers
}

func (r *Round) Info(lines int) RoundInfo {
	return RoundInfo{
		ID:     r.ID,
		Index:  r.Round,
		Chunks: r.Control.Total(),
		Lines:  lines,
	}
}

// Dispatch launches exactly lines workers against the round and blocks until
// every one of them has stopped. The first worker error cancels the round for
// the others and is returned. A round with no chunks launches nothing.
func Dispatch(ctx context.Context, round *Round, lines int, station core.Station,
	handlers RoundHandlers) error {

	if lines < 1 {
		return par.Invalidf("worker count must be >= 1, got %d", lines)
	}
	if len(round.Chunks) == 0 {
		return nil
	}

	info := round.Info(lines)
	if handlers.OnStart != nil {
		handlers.OnStart(ctx, info)
	}

	roundCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	errCh := make(chan error, lines)
	wg := &sync.WaitGroup{}

	for w := range lines {
		wg.Add(1)
		go core.Locomotive(roundCtx, w, round.Track, station, handlers.Worker, errCh, wg)
	}

	go func() {
		wg.Wait()
		close(errCh)
	}()

	var first error
	for err := range errCh {
		if first == nil {
			first = err
			cancel()
		}
	}

	if first == nil && !round.Control.Exhausted() {
		first = ctx.Err()
	}

	info.Elapsed = time.Since(start)
	if handlers.OnDone != nil {
		handlers.OnDone(ctx, info, first)
	}
	return first
}
