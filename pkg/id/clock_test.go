package id

import "sync/atomic"

// fakeClock is a settable millisecond clock safe for concurrent use.
type fakeClock struct{ ms atomic.Int64 }

func newFakeClock(ms int64) *fakeClock {
	c := &fakeClock{}
	c.ms.Store(ms)
	return c
}

func (c *fakeClock) Now() int64   { return c.ms.Load() }
func (c *fakeClock) Set(ms int64) { c.ms.Store(ms) }
