package core

import "github.com/ib-77/chunkpool/pkg/par"

// Chunk is the half-open index range [Start, End) of one unit of work. Dest is
// where the chunk's partial result goes in the next round's buffer, and also
// the chunk's ordinal within its round.
type Chunk struct {
	Start int
	End   int
	Dest  int
}

func (c Chunk) Len() int {
	return c.End - c.Start
}

// ChunkCount is ceil(n / blockSize).
func ChunkCount(n, blockSize int) int {
	if n <= 0 || blockSize < 1 {
		return 0
	}
	return (n + blockSize - 1) / blockSize
}

// Plan splits [0, n) into ascending chunks of at most blockSize indexes.
func Plan(n, blockSize int) ([]Chunk, error) {
	if blockSize < 1 {
		return nil, par.Invalidf("block size must be >= 1, got %d", blockSize)
	}
	if n < 0 {
		return nil, par.Invalidf("buffer length must be >= 0, got %d", n)
	}

	chunks := make([]Chunk, 0, ChunkCount(n, blockSize))
	for start := 0; start < n; start += blockSize {
		chunks = append(chunks, Chunk{
			Start: start,
			End:   min(start+blockSize, n),
			Dest:  len(chunks),
		})
	}
	return chunks, nil
}
