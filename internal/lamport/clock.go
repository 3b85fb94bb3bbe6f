// Package lamport implements the logical clock that orders chat events.
package lamport

import "sync"

// Clock is a thread-safe Lamport clock.
//
// Only logical events (chat messages, election traffic) go through Tick or
// Observe. Heartbeats are liveness probes, not events: routing them through
// the clock would inflate the timestamps attached to chat messages, so the
// failure detector never touches the clock.
//
// The zero value is a clock at 0, ready to use.
type Clock struct {
	mu sync.Mutex
	ts uint64
}

// Time returns the current value without advancing the clock.
func (c *Clock) Time() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ts
}

// Tick advances the clock by one for a local event and returns the new value.
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ts++
	return c.ts
}

// Observe merges a remote timestamp: the clock becomes max(local, remote)+1.
// Returns the new value.
func (c *Clock) Observe(remote uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if remote > c.ts {
		c.ts = remote
	}
	c.ts++
	return c.ts
}
