package quiz

import (
	"sync"
	"time"
)

// Countdown is an owned per-question timer handle. Start cancels and
// replaces any prior run, so concurrent ticker loops can never leak.
// Pause freezes the remaining value without resetting it; Resume continues
// from the frozen value.
type Countdown struct {
	interval time.Duration
	onTick   func(remaining int)
	onExpire func()

	mu        sync.Mutex
	remaining int
	quit      chan struct{}
}

// NewCountdown builds a countdown that decrements once per interval.
// onTick receives every new remaining value, including the initial one;
// onExpire fires once when the countdown reaches zero. Either callback may
// be nil. Callbacks run off the countdown's internal lock.
func NewCountdown(interval time.Duration, onTick func(remaining int), onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval, onTick: onTick, onExpire: onExpire}
}

// Start arms the countdown at seconds, cancelling any run in flight.
func (c *Countdown) Start(seconds int) {
	c.mu.Lock()
	c.haltLocked()
	c.remaining = seconds
	if seconds > 0 {
		c.spawnLocked()
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(seconds)
	}
	if seconds <= 0 && c.onExpire != nil {
		c.onExpire()
	}
}

// Pause stops the decrement, keeping the remaining value.
func (c *Countdown) Pause() {
	c.mu.Lock()
	c.haltLocked()
	c.mu.Unlock()
}

// Resume continues a paused countdown from its stored value. It is a no-op
// when the countdown is already running or has expired.
func (c *Countdown) Resume() {
	c.mu.Lock()
	if c.quit == nil && c.remaining > 0 {
		c.spawnLocked()
	}
	c.mu.Unlock()
}

// Stop halts the countdown and clears the remaining value.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.haltLocked()
	c.remaining = 0
	c.mu.Unlock()
}

// Remaining reports the seconds left on the countdown.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether a ticker loop is active.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quit != nil
}

func (c *Countdown) haltLocked() {
	if c.quit != nil {
		close(c.quit)
		c.quit = nil
	}
}

func (c *Countdown) spawnLocked() {
	quit := make(chan struct{})
	c.quit = quit
	go c.loop(quit)
}

func (c *Countdown) loop(quit chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.quit != quit {
				// Superseded by a newer Start.
				c.mu.Unlock()
				return
			}
			if c.remaining > 0 {
				c.remaining--
			}
			remaining := c.remaining
			if remaining == 0 {
				c.quit = nil
			}
			c.mu.Unlock()

			if c.onTick != nil {
				c.onTick(remaining)
			}
			if remaining == 0 {
				if c.onExpire != nil {
					c.onExpire()
				}
				return
			}
		}
	}
}
