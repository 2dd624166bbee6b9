package syncutil

import "sync/atomic"

// Counter is a monotonic counter that is safe for concurrent use.
// The zero value is ready to use and starts at zero.
type Counter struct {
	value atomic.Uint64
}

// Next increments the counter and returns the new value. The first call
// returns 1.
func (c *Counter) Next() uint64 {
	return c.value.Add(1)
}

// Load returns the last value handed out by Next.
func (c *Counter) Load() uint64 {
	return c.value.Load()
}
