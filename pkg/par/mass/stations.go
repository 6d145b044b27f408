package mass

import (
	"context"

	"github.com/ib-77/chunkpool/pkg/par"
	"github.com/ib-77/chunkpool/pkg/par/core"
)

// Mapping applies op in place over each element of a chunk.
func Mapping[T par.Integer](buf *core.Buffer[T], op par.Mapper[T]) core.Station {
	return func(_ context.Context, chunk core.Chunk) error {
		values := buf.Slice(chunk.Start, chunk.End)
		for i, v := range values {
			values[i] = op(v)
		}
		return nil
	}
}

// Trying is Mapping for operations that can fail. The chunk stops at the
// first error; the round discards the buffer.
func Trying[T par.Integer](buf *core.Buffer[T], op par.TryMapper[T]) core.Station {
	return func(_ context.Context, chunk core.Chunk) error {
		values := buf.Slice(chunk.Start, chunk.End)
		for i, v := range values {
			out, err := op(v)
			if err != nil {
				return err
			}
			values[i] = out
		}
		return nil
	}
}

// Marking is the first filter phase: marks[i] is 1 when pred holds for src[i]
// and 0 otherwise, and counts[chunk.Dest] receives the number of 1s in the
// chunk. Nothing is moved.
func Marking[T par.Integer](src *core.Buffer[T], marks *core.Buffer[uint8],
	counts *core.Buffer[int64], pred par.Predicate[T]) core.Station {
	return func(_ context.Context, chunk core.Chunk) error {
		var kept int64
		for i := chunk.Start; i < chunk.End; i++ {
			if pred(src.At(i)) {
				marks.Set(i, 1)
				kept++
			} else {
				marks.Set(i, 0)
			}
		}
		counts.Set(chunk.Dest, kept)
		return nil
	}
}

// Offsets turns per-chunk counts into exclusive prefix offsets and returns
// them with the total.
func Offsets(counts *core.Buffer[int64]) (*core.Buffer[int64], int) {
	offsets := core.NewBuffer[int64](counts.Len())
	var total int64
	for i := range counts.Len() {
		offsets.Set(i, total)
		total += counts.At(i)
	}
	return offsets, int(total)
}

// Scattering is the parallel second filter phase: each chunk copies its marked
// elements to out starting at offsets[chunk.Dest], keeping their order.
func Scattering[T par.Integer](src *core.Buffer[T], marks *core.Buffer[uint8],
	offsets *core.Buffer[int64], out *core.Buffer[T]) core.Station {
	return func(_ context.Context, chunk core.Chunk) error {
		pos := int(offsets.At(chunk.Dest))
		for i := chunk.Start; i < chunk.End; i++ {
			if marks.At(i) == 1 {
				out.Set(pos, src.At(i))
				pos++
			}
		}
		return nil
	}
}

// Compact is the serial second filter phase.
func Compact[T par.Integer](src *core.Buffer[T], marks *core.Buffer[uint8], size int) []T {
	out := make([]T, 0, size)
	for i := range src.Len() {
		if marks.At(i) == 1 {
			out = append(out, src.At(i))
		}
	}
	return out
}

// Folding left-folds a chunk, seeded with its first element, and writes the
// partial result to dst[chunk.Dest].
func Folding[T par.Integer](src, dst *core.Buffer[T], op par.Folder[T]) core.Station {
	return func(_ context.Context, chunk core.Chunk) error {
		dst.Set(chunk.Dest, Fold(src.Slice(chunk.Start, chunk.End), op))
		return nil
	}
}

// Fold is a left fold seeded with values[0]. values must not be empty.
func Fold[T par.Integer](values []T, op par.Folder[T]) T {
	acc := values[0]
	for _, v := range values[1:] {
		acc = op(acc, v)
	}
	return acc
}
