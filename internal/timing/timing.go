// Package timing has small helpers for delaying and rate shaping callbacks.
package timing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Debounce returns a trigger that runs fn once d has passed without another
// trigger, and a stop function that cancels any pending run.
func Debounce(fn func(), d time.Duration) (trigger func(), stop func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fn)
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	return trigger, stop
}

// Throttle runs a callback at most once per interval. Calls inside the interval are dropped.
type Throttle struct {
	s rate.Sometimes
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{s: rate.Sometimes{Interval: interval}}
}

// Do runs fn if the interval since the last run has elapsed and reports whether it ran.
func (t *Throttle) Do(fn func()) bool {
	ran := false
	t.s.Do(func() {
		ran = true
		fn()
	})
	return ran
}

// Delay sleeps for d or until ctx is done.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
