package testing

import (
	"sync"
	"time"
)

// ManualClock provides a controllable clock for testing time-dependent behavior.
// It is safe for concurrent use.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
}

// DefaultTime is where a new ManualClock starts.
var DefaultTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func NewManualClock() *ManualClock {
	return NewManualClockAt(DefaultTime)
}

func NewManualClockAt(t time.Time) *ManualClock {
	return &ManualClock{current: t.Truncate(time.Second)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
