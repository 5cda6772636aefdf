package remote

import (
	"context"
	"sync"
)

// SessionLimiter caps the number of sessions open at once. Callers beyond
// the cap wait for a slot; waiting ends only when a slot frees or the
// caller's context is done.
type SessionLimiter struct {
	sem chan struct{}

	mu        sync.Mutex
	active    int
	maxActive int
	waited    uint64
}

// LimiterStats reports limiter activity.
type LimiterStats struct {
	Active    int
	MaxActive int
	Capacity  int
	Waited    uint64
}

// NewSessionLimiter creates a limiter allowing n concurrent sessions.
// An n below one yields nil, which imposes no limit.
func NewSessionLimiter(n int) *SessionLimiter {
	if n < 1 {
		return nil
	}
	return &SessionLimiter{sem: make(chan struct{}, n)}
}

// Acquire takes a slot, blocking until one is free or ctx is done.
func (l *SessionLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case l.sem <- struct{}{}:
		l.track()
		return nil
	default:
	}

	l.mu.Lock()
	l.waited++
	l.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
		l.track()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *SessionLimiter) track() {
	l.mu.Lock()
	l.active++
	if l.active > l.maxActive {
		l.maxActive = l.active
	}
	l.mu.Unlock()
}

// Release frees a slot taken by Acquire.
func (l *SessionLimiter) Release() {
	if l == nil {
		return
	}
	select {
	case <-l.sem:
		l.mu.Lock()
		l.active--
		l.mu.Unlock()
	default:
	}
}

// Stats returns a snapshot of limiter activity.
func (l *SessionLimiter) Stats() LimiterStats {
	if l == nil {
		return LimiterStats{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return LimiterStats{
		Active:    l.active,
		MaxActive: l.maxActive,
		Capacity:  cap(l.sem),
		Waited:    l.waited,
	}
}
