package ratelimit

import "time"

func (t *Throttler[T]) SetClock(now func() time.Time) {
	t.now = now
}
