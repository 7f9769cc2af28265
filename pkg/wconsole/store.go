package wconsole

import (
	"sync"
	"time"
)

const defaultLabel = "default"

func labelOr(label string) string {
	if label == "" {
		return defaultLabel
	}
	return label
}

// counters holds the Count state. A reset deletes the label, so the next
// Count starts over at 1.
type counters struct {
	mu sync.Mutex
	m  map[string]int
}

func newCounters() *counters { return &counters{m: map[string]int{}} }

func (c *counters) inc(label string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[label]++
	return c.m[label]
}

func (c *counters) reset(label string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[label]; !ok {
		return false
	}
	delete(c.m, label)
	return true
}

// timers holds the start instant of every running timer.
type timers struct {
	mu sync.Mutex
	m  map[string]time.Time
}

func newTimers() *timers { return &timers{m: map[string]time.Time{}} }

// start records now for label unless a timer with that label is running.
func (t *timers) start(label string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.m[label]; ok {
		return false
	}
	t.m[label] = now
	return true
}

func (t *timers) elapsed(label string, now time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	started, ok := t.m[label]
	if !ok {
		return 0, false
	}
	return now.Sub(started), true
}

func (t *timers) end(label string, now time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	started, ok := t.m[label]
	if !ok {
		return 0, false
	}
	delete(t.m, label)
	return now.Sub(started), true
}
