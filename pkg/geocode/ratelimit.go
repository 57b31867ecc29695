package geocode

import (
	"time"

	"go.uber.org/zap"
)

// windowLimiter is a coarse fixed-window rate limiter: at most ceiling
// calls per window measured from the last reset. When the budget is spent
// it blocks until the window elapses, then resets the counter. Bursts at
// window boundaries are tolerated; candidate vocabulary is small and the
// caller is single-threaded, so precision is not worth a token bucket here.
type windowLimiter struct {
	ceiling   int
	window    time.Duration
	calls     int
	lastReset time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(time.Duration)
}

func newWindowLimiter(ceiling int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		ceiling: ceiling,
		window:  window,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// acquire blocks until one call of budget is available, then consumes it.
func (l *windowLimiter) acquire() {
	now := l.now()
	if l.lastReset.IsZero() {
		l.lastReset = now
	}
	if now.Sub(l.lastReset) > l.window {
		l.calls = 0
		l.lastReset = now
	}

	if l.calls >= l.ceiling {
		wait := l.window - now.Sub(l.lastReset)
		if wait > 0 {
			zap.L().Info("geocode: rate limit reached",
				zap.Duration("sleep", wait),
			)
			l.sleep(wait)
		}
		l.calls = 0
		l.lastReset = l.now()
	}

	l.calls++
}
