package ratelimiter

import (
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow is a per-key fixed-window rate limiter for the HTTP surface.
// A mutex over a map is plenty here: the limiter guards two snapshot
// endpoints, not the signaling path.
type FixedWindow struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

func NewFixedWindow(limit int, period time.Duration) *FixedWindow {
	fw := &FixedWindow{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		stop:    make(chan struct{}),
	}
	go fw.cleanupLoop()
	return fw
}

// Allow reports whether key may proceed, and how long until its window
// resets when it may not.
func (fw *FixedWindow) Allow(key string) (bool, time.Duration) {
	now := time.Now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	w, ok := fw.windows[key]
	if !ok || now.After(w.resetAt) {
		fw.windows[key] = &window{count: 1, resetAt: now.Add(fw.period)}
		return true, 0
	}

	if w.count >= fw.limit {
		return false, time.Until(w.resetAt)
	}
	w.count++
	return true, 0
}

func (fw *FixedWindow) Limit() int {
	return fw.limit
}

// Remaining reports how many requests key has left in its current window.
func (fw *FixedWindow) Remaining(key string) int {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	w, ok := fw.windows[key]
	if !ok || time.Now().After(w.resetAt) {
		return fw.limit
	}
	if w.count >= fw.limit {
		return 0
	}
	return fw.limit - w.count
}

func (fw *FixedWindow) cleanupLoop() {
	ticker := time.NewTicker(fw.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			fw.mu.Lock()
			for key, w := range fw.windows {
				if now.After(w.resetAt) {
					delete(fw.windows, key)
				}
			}
			fw.mu.Unlock()
		case <-fw.stop:
			return
		}
	}
}

func (fw *FixedWindow) Close() {
	fw.stopOnce.Do(func() { close(fw.stop) })
}
