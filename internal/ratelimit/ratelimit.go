// Package ratelimit provides a fixed-window, in-memory request limiter for
// the public form endpoints. Counters are process-local and reset on
// restart; this is advisory abuse protection, not a security boundary.
package ratelimit

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

type Policy struct {
	Window time.Duration
	Max    int
}

// Per-endpoint admission policies.
var (
	ContactPolicy = Policy{Window: 15 * time.Minute, Max: 10}
	LeadPolicy    = Policy{Window: 15 * time.Minute, Max: 20}
	RSVPPolicy    = Policy{Window: 15 * time.Minute, Max: 5}
	VitalsPolicy  = Policy{Window: 15 * time.Minute, Max: 60}
)

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
	// RetryAfter is non-zero only on denial, rounded up to whole seconds.
	RetryAfter time.Duration
}

type entry struct {
	count     int
	resetTime time.Time
}

// sweepProbability makes Check occasionally evict expired entries so the map
// stays bounded. Timing is approximate and never load-bearing.
const sweepProbability = 0.001

type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	now  func() time.Time
	rand func() float64
}

func New() *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
		rand:    rand.Float64,
	}
}

// Check records one request for identifier against the policy and returns
// the admission decision. It never fails.
func (l *Limiter) Check(identifier string, policy Policy) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[identifier]
	if !ok || !now.Before(e.resetTime) {
		e = &entry{resetTime: now.Add(policy.Window)}
		l.entries[identifier] = e
	}
	e.count++

	if l.rand() < sweepProbability {
		l.sweep(now)
	}

	if e.count > policy.Max {
		secs := int64(math.Ceil(e.resetTime.Sub(now).Seconds()))
		if secs < 1 {
			secs = 1
		}
		return Decision{
			Limit:      policy.Max,
			ResetTime:  e.resetTime,
			RetryAfter: time.Duration(secs) * time.Second,
		}
	}

	return Decision{
		Allowed:   true,
		Limit:     policy.Max,
		Remaining: policy.Max - e.count,
		ResetTime: e.resetTime,
	}
}

func (l *Limiter) sweep(now time.Time) {
	for id, e := range l.entries {
		if !now.Before(e.resetTime) {
			delete(l.entries, id)
		}
	}
}
