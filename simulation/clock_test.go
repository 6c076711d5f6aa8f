package simulation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollDropsLateTicks(t *testing.T) {
	var n int
	c := NewClock(10*time.Millisecond, func() { n++ })
	start := time.Unix(100, 0)

	assert.True(t, c.Poll(start))
	assert.False(t, c.Poll(start.Add(5*time.Millisecond)))
	assert.True(t, c.Poll(start.Add(10*time.Millisecond)))

	// A long stall runs one tick, not the missed backlog.
	late := start.Add(time.Second)
	assert.True(t, c.Poll(late))
	assert.False(t, c.Poll(late.Add(5*time.Millisecond)))
	assert.True(t, c.Poll(late.Add(10*time.Millisecond)))
	assert.Equal(t, 4, n)
	assert.Equal(t, uint64(4), c.Ticks())
}

func TestPollToleratesSlightlyEarlyCalls(t *testing.T) {
	c := NewClock(16*time.Millisecond, nil)
	start := time.Unix(0, 0)
	require.True(t, c.Poll(start))
	assert.True(t, c.Poll(start.Add(15*time.Millisecond)))
}

func TestPostRunsBeforeTickOnDrivingGoroutine(t *testing.T) {
	var order []string
	c := NewClock(time.Millisecond, func() { order = append(order, "tick") })

	require.True(t, c.Post(func() { order = append(order, "post") }))
	c.Poll(time.Unix(0, 0))
	assert.Equal(t, []string{"post", "tick"}, order)
}

func TestStopIsIdempotentAndRunsTeardown(t *testing.T) {
	c := NewClock(time.Millisecond, nil)
	var order []int
	c.OnStop(func() { order = append(order, 1) })
	c.OnStop(func() { order = append(order, 2) })

	c.Stop()
	c.Stop()
	assert.Equal(t, []int{2, 1}, order)
	assert.True(t, c.Stopped())
	assert.False(t, c.Post(func() {}))
	assert.False(t, c.Poll(time.Now()))

	late := false
	c.OnStop(func() { late = true })
	assert.True(t, late)

	select {
	case <-c.Done():
	default:
		t.Fatal("done not closed")
	}
}

func TestRunTicksUntilCancelled(t *testing.T) {
	var ticks atomic.Int64
	c := NewClock(time.Millisecond, func() { ticks.Add(1) })
	var torn atomic.Bool
	c.OnStop(func() { torn.Store(true) })

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()

	ran := make(chan struct{})
	require.True(t, c.Post(func() { close(ran) }))
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("posted work never ran")
	}

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.True(t, torn.Load(), "leaving Run stops the clock")
}

func TestRunReturnsOnStop(t *testing.T) {
	c := NewClock(time.Millisecond, nil)
	errc := make(chan error, 1)
	go func() { errc <- c.Run(context.Background()) }()

	c.Stop()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
