package store

import (
	"sync"
	"time"
)

// TimestampLayout is RFC 3339 with a fixed nanosecond width so that string
// timestamps sort lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// Clock hands out UTC times that never go backwards.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock returns a clock driven by source, or time.Now when source is nil.
func NewClock(source func() time.Time) *Clock {
	if source == nil {
		source = time.Now
	}
	return &Clock{now: source}
}

// Now returns the current time, or the last returned time if the source
// moved backwards.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
