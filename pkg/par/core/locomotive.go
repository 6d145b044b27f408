package core

import (
	"context"
	"sync"

	"github.com/ib-77/chunkpool/pkg/par"
)

// Station processes one claimed chunk.
type Station func(ctx context.Context, chunk Chunk) error

// Track is the state every worker of one round shares.
type Track struct {
	Round   int
	Chunks  []Chunk
	Control *ControlBlock
}

func NewTrack(round int, chunks []Chunk) *Track {
	return &Track{
		Round:   round,
		Chunks:  chunks,
		Control: NewControlBlock(len(chunks)),
	}
}

type WorkerHandlers struct {
	OnChunk func(ctx context.Context, worker int, chunk Chunk)
	OnDone  func(ctx context.Context, worker int, processed int)
}

// Locomotive is one worker: it claims chunks from the track's cursor and runs
// the station over each until the cursor is exhausted, ctx is done, or the
// station fails. At most one error is sent on errCh.
func Locomotive(ctx context.Context, worker int, track *Track, station Station,
	handlers WorkerHandlers, errCh chan<- error, wg *sync.WaitGroup) {
	defer wg.Done()

	processed := 0
	defer func() {
		if handlers.OnDone != nil {
			handlers.OnDone(ctx, worker, processed)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		i, ok := track.Control.Claim()
		if !ok {
			return
		}

		chunk := track.Chunks[i]
		if err := runStation(ctx, station, chunk); err != nil {
			errCh <- &par.WorkerError{
				Round:  track.Round,
				Worker: worker,
				Start:  chunk.Start,
				End:    chunk.End,
				Err:    err,
			}
			return
		}

		processed++
		if handlers.OnChunk != nil {
			handlers.OnChunk(ctx, worker, chunk)
		}
	}
}

func runStation(ctx context.Context, station Station, chunk Chunk) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &par.PanicError{Value: r}
		}
	}()
	return station(ctx, chunk)
}
