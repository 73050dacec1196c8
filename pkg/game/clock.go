// Package game holds the clock manager and the game coordinator
package game

import (
	"sync"
	"time"

	"github.com/tecu23/duel-server/internal/color"
)

// TickFunc receives both remaining times after each decrement
type TickFunc func(white, black int)

// ExpiryFunc receives the side whose time ran out
type ExpiryFunc func(c color.Color)

// Clock counts down whole seconds for both players. At most one side is
// decrementing at any instant; the other is frozen. It is a pure
// scheduling primitive with no notion of move legality.
type Clock struct {
	mu sync.Mutex

	white int // remaining seconds
	black int

	initial  int
	interval time.Duration

	active  color.Color
	expired map[color.Color]bool

	// done identifies the current countdown run; closing it stops the
	// tick goroutine
	done chan struct{}

	onTick   TickFunc
	onExpiry ExpiryFunc
}

// NewClock creates a stopped clock with both sides at initial seconds.
// The tick interval is injectable so tests can run fast.
func NewClock(initial int, interval time.Duration, onTick TickFunc, onExpiry ExpiryFunc) *Clock {
	return &Clock{
		white:    initial,
		black:    initial,
		initial:  initial,
		interval: interval,
		expired:  make(map[color.Color]bool),
		onTick:   onTick,
		onExpiry: onExpiry,
	}
}

// Start stops any running countdown and begins decrementing the given
// side once per tick interval. Starting a side with no time left
// schedules nothing and fires the expiry callback instead.
func (c *Clock) Start(side color.Color) {
	c.mu.Lock()

	c.stopLocked()

	if c.remainingLocked(side) <= 0 {
		fire := !c.expired[side]
		c.expired[side] = true
		c.mu.Unlock()

		if fire && c.onExpiry != nil {
			// Asynchronous so a caller holding its own lock while
			// starting the clock cannot deadlock against the callback.
			go c.onExpiry(side)
		}
		return
	}

	c.active = side
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	go c.run(side, done)
}

// Stop halts all decrementing. Idempotent, safe when nothing is running.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
}

// Reset stops the clock and restores both sides to the initial time
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.white = c.initial
	c.black = c.initial
	c.expired = make(map[color.Color]bool)
}

// Remaining returns the current remaining time for both players
func (c *Clock) Remaining() (white, black int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.white, c.black
}

// Active returns the side currently counting down, or color.None
func (c *Clock) Active() color.Color {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active
}

func (c *Clock) stopLocked() {
	if c.done != nil {
		close(c.done)
		c.done = nil
	}

	c.active = color.None
}

func (c *Clock) remainingLocked(side color.Color) int {
	if side == color.White {
		return c.white
	}

	return c.black
}

func (c *Clock) run(side color.Color, done chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !c.tick(side, done) {
				return
			}
		}
	}
}

// tick decrements the running side once and reports whether the
// countdown should continue
func (c *Clock) tick(side color.Color, done chan struct{}) bool {
	c.mu.Lock()

	// A Stop or a newer Start raced this tick
	if c.done != done {
		c.mu.Unlock()
		return false
	}

	if side == color.White {
		c.white--
	} else {
		c.black--
	}

	white, black := c.white, c.black

	expired := c.remainingLocked(side) <= 0
	if expired {
		// The clock stops itself before notifying anyone
		c.stopLocked()
		c.expired[side] = true
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(white, black)
	}

	if expired && c.onExpiry != nil {
		c.onExpiry(side)
	}

	return !expired
}
