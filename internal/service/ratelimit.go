package service

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts   = 3
	DefaultAttemptWindow = 15 * time.Minute
)

type attemptRecord struct {
	count     int
	resetTime time.Time
}

// AttemptLimiter is a process-local fixed-window attempt counter keyed by an
// arbitrary string (callers compose keys like "ip|phone"). State lives in
// single-process memory only; horizontal scaling needs an external store.
type AttemptLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*attemptRecord
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

func NewAttemptLimiter(maxAttempts int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		attempts:    make(map[string]*attemptRecord),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// CanAttempt records an attempt for key and reports whether it is allowed.
// The lockout window is fixed from the first attempt of the window; refused
// calls do not increment the counter, so polling never extends the lockout.
func (l *AttemptLimiter) CanAttempt(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	record, ok := l.attempts[key]
	if !ok || now.After(record.resetTime) {
		l.attempts[key] = &attemptRecord{count: 1, resetTime: now.Add(l.window)}
		return true
	}

	if record.count >= l.maxAttempts {
		return false
	}

	record.count++

	return true
}

// RemainingMinutes reports the ceiling of minutes until the window for key
// resets, or 0 when there is no active window.
func (l *AttemptLimiter) RemainingMinutes(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.attempts[key]
	if !ok {
		return 0
	}

	now := l.now()
	if now.After(record.resetTime) {
		return 0
	}

	return int(math.Ceil(record.resetTime.Sub(now).Minutes()))
}
