package store

import "sync/atomic"

// Clock stamps every dispatch with a strictly increasing logical sequence
// number. Wall time never orders the pipeline, so replaying a journal
// reproduces the original order exactly.
//
// Thread-safety: safe for concurrent use (atomic operations). In practice
// only the drain loop calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first dispatch is seq 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from a known position. Replay uses
// this to continue a journal without reissuing sequence numbers.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the latest issued sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
