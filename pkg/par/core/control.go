package core

import "sync/atomic"

// ControlBlock is the claim cursor shared by all workers of one round.
// The cursor only moves forward; a claim at or past total fails.
type ControlBlock struct {
	next  atomic.Int64
	total int64
}

func NewControlBlock(total int) *ControlBlock {
	return &ControlBlock{total: int64(total)}
}

// Claim returns the index of the next unclaimed chunk.
func (c *ControlBlock) Claim() (int, bool) {
	i := c.next.Add(1) - 1
	if i >= c.total {
		return 0, false
	}
	return int(i), true
}

func (c *ControlBlock) Total() int {
	return int(c.total)
}

// Claimed is the number of chunks handed out so far.
func (c *ControlBlock) Claimed() int {
	return int(min(c.next.Load(), c.total))
}

func (c *ControlBlock) Exhausted() bool {
	return c.next.Load() >= c.total
}
