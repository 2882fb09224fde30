package testing

import (
	"sync"
	"time"
)

// GenesisTime is where every ManualClock starts.
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ManualClock is the block time source of a TestEnv. Auctions only move
// when a test advances it.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
}

func NewManualClock() *ManualClock {
	return &ManualClock{current: GenesisTime}
}

// Now returns the current time on the clock.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Unix returns the current block time in seconds, the unit commands see.
func (c *ManualClock) Unix() uint64 {
	return uint64(c.Now().Unix())
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set moves the clock to t, backwards included.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// SetUnix moves the clock to a block time in seconds, e.g. an auction's
// end time.
func (c *ManualClock) SetUnix(sec uint64) {
	c.Set(time.Unix(int64(sec), 0).UTC())
}
