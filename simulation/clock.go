package simulation

import (
	"context"
	"sync"
	"time"
)

// Clock is a fixed-step cooperative scheduler. Ticks and posted work run one
// at a time on whichever goroutine drives the clock (Run or Poll), never
// concurrently. Late ticks are dropped, not replayed.
type Clock struct {
	period time.Duration
	tick   func()

	mu       sync.Mutex
	posts    []func()
	teardown []func()
	stopped  bool

	next  time.Time
	ticks uint64

	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewClock(period time.Duration, tick func()) *Clock {
	if period <= 0 {
		panic("simulation: clock period must be positive")
	}
	return &Clock{
		period: period,
		tick:   tick,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (c *Clock) Period() time.Duration { return c.period }

// Run drives the clock from a time.Ticker until ctx is done or Stop is
// called. A ticker drops ticks for slow receivers, so there is no catch-up.
// Run always stops the clock before returning.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()
	defer c.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case <-c.wake:
			c.runPosts()
		case <-ticker.C:
			c.runPosts()
			if c.Stopped() {
				return nil
			}
			c.step()
		}
	}
}

// Poll is for hosts that own their own loop, such as ebiten's Update. Posted
// work runs first, then at most one tick if one is due. A call up to a
// quarter period early still ticks; a late one resets the schedule to now.
func (c *Clock) Poll(now time.Time) bool {
	c.runPosts()
	if c.Stopped() {
		return false
	}
	if c.next.IsZero() {
		c.next = now
	}
	if now.Add(c.period / 4).Before(c.next) {
		return false
	}
	c.step()
	c.next = c.next.Add(c.period)
	if !c.next.After(now) {
		c.next = now.Add(c.period)
	}
	return true
}

func (c *Clock) step() {
	c.ticks++
	if c.tick != nil {
		c.tick()
	}
}

// Ticks is the number of ticks run so far. Read it from the driving goroutine.
func (c *Clock) Ticks() uint64 { return c.ticks }

// Post queues fn to run on the clock's goroutine before the next tick. It
// is safe to call from any goroutine and reports false once the clock is
// stopped.
func (c *Clock) Post(fn func()) bool {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return false
	}
	c.posts = append(c.posts, fn)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

func (c *Clock) runPosts() {
	c.mu.Lock()
	posts := c.posts
	c.posts = nil
	c.mu.Unlock()

	for _, fn := range posts {
		if c.Stopped() {
			return
		}
		fn()
	}
}

// OnStop registers fn to run when the clock stops, in reverse registration
// order. Registering on a stopped clock runs fn immediately.
func (c *Clock) OnStop(fn func()) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		fn()
		return
	}
	c.teardown = append(c.teardown, fn)
	c.mu.Unlock()
}

// Stop cancels the recurring tick, drops pending posts and runs the teardown
// hooks. Only the first call has any effect.
func (c *Clock) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.posts = nil
		hooks := c.teardown
		c.teardown = nil
		c.mu.Unlock()

		close(c.done)
		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}
	})
}

func (c *Clock) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Done is closed once the clock stops.
func (c *Clock) Done() <-chan struct{} { return c.done }
