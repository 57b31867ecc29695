package geocode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testClock drives a windowLimiter without real waiting.
type testClock struct {
	current time.Time
	slept   []time.Duration
}

func newTestClock() *testClock {
	return &testClock{current: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) now() time.Time { return c.current }

func (c *testClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
}

func limiterWithClock(ceiling int, window time.Duration) (*windowLimiter, *testClock) {
	clock := newTestClock()
	l := newWindowLimiter(ceiling, window)
	l.now = clock.now
	l.sleep = clock.sleep
	return l, clock
}

func TestWindowLimiter_UnderCeilingNeverBlocks(t *testing.T) {
	l, clock := limiterWithClock(3, time.Minute)
	for i := 0; i < 3; i++ {
		l.acquire()
	}
	assert.Empty(t, clock.slept)
}

func TestWindowLimiter_BlocksUntilWindowElapses(t *testing.T) {
	l, clock := limiterWithClock(3, time.Minute)
	for i := 0; i < 3; i++ {
		l.acquire()
	}
	clock.current = clock.current.Add(10 * time.Second)

	l.acquire()

	assert.Equal(t, []time.Duration{50 * time.Second}, clock.slept)
	assert.Equal(t, 1, l.calls, "budget restarts after the forced wait")
}

func TestWindowLimiter_ResetsAfterIdleWindow(t *testing.T) {
	l, clock := limiterWithClock(2, time.Minute)
	l.acquire()
	l.acquire()

	clock.current = clock.current.Add(time.Minute + time.Second)
	l.acquire()

	assert.Empty(t, clock.slept, "an elapsed window frees the budget without sleeping")
	assert.Equal(t, 1, l.calls)
}

func TestWindowLimiter_CeilingHoldsAcrossManyCalls(t *testing.T) {
	const ceiling = 5
	l, clock := limiterWithClock(ceiling, time.Minute)

	sleeps := 0
	for i := 0; i < 23; i++ {
		before := len(clock.slept)
		l.acquire()
		if len(clock.slept) > before {
			sleeps++
		}
		assert.LessOrEqual(t, l.calls, ceiling)
	}
	// 23 calls at 5 per window force a wait before calls 6, 11, 16 and 21.
	assert.Equal(t, 4, sleeps)
}
