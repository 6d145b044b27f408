package core

import "github.com/ib-77/chunkpool/pkg/par"

// Buffer is a fixed-length slice shared by every worker of a round. Workers
// write disjoint chunks, so it carries no lock.
type Buffer[T par.Integer] struct {
	data []T
}

func NewBuffer[T par.Integer](n int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, n)}
}

// BufferFrom copies src into a new buffer; the caller's slice is never
// written by the engine.
func BufferFrom[T par.Integer](src []T) *Buffer[T] {
	data := make([]T, len(src))
	copy(data, src)
	return &Buffer[T]{data: data}
}

func (b *Buffer[T]) Len() int {
	return len(b.data)
}

func (b *Buffer[T]) At(i int) T {
	return b.data[i]
}

func (b *Buffer[T]) Set(i int, v T) {
	b.data[i] = v
}

// Slice returns a view of [start, end) without copying.
func (b *Buffer[T]) Slice(start, end int) []T {
	return b.data[start:end:end]
}

// Values hands the backing slice over to the caller once a call is complete.
func (b *Buffer[T]) Values() []T {
	return b.data
}
