package transition

import (
	"sync"
	"time"
)

// Clock provides frame time in seconds.
type Clock interface {
	Now() float64
}

type systemClock struct {
	start time.Time
}

// SystemClock counts seconds since its creation using monotonic time.
func SystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

// ManualClock is moved explicitly, used by tests and offline rendering.
type ManualClock struct {
	mu  sync.Mutex
	now float64
}

func NewManualClock(now float64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Set(now float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves clock forward and returns new time.
func (c *ManualClock) Advance(d float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}
