package admin

import (
	"sync"
	"time"
)

// Rate limited admin actions
const (
	ActionReorderServers       = "reorder_servers"
	ActionAddServer            = "add_server"
	ActionEditServer           = "edit_server"
	ActionDeleteServer         = "delete_server"
	ActionAddRecommendation    = "add_recommendation"
	ActionDeleteRecommendation = "delete_recommendation"
)

// Limit is the number of calls allowed per window
type Limit struct {
	Max    int
	Window time.Duration
}

// DefaultLimits returns the per-minute limits of the server management actions
func DefaultLimits() map[string]Limit {
	return map[string]Limit{
		ActionReorderServers: {Max: 5, Window: time.Minute},
		ActionAddServer:      {Max: 3, Window: time.Minute},
		ActionEditServer:     {Max: 5, Window: time.Minute},
		ActionDeleteServer:   {Max: 2, Window: time.Minute},
	}
}

const defaultActionLimit = 10

type windowKey struct {
	actor  string
	action string
	start  int64
}

// RateLimiter counts calls per (actor, action) in fixed windows aligned to
// the window length. Windows that have ended are evicted on the next call.
type RateLimiter struct {
	mu      sync.Mutex
	limits  map[string]Limit
	counts  map[windowKey]int
	expires map[windowKey]time.Time
	now     func() time.Time
}

// NewRateLimiter creates a limiter. Actions missing from limits get ten calls
// per minute.
func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	return &RateLimiter{
		limits:  limits,
		counts:  make(map[windowKey]int),
		expires: make(map[windowKey]time.Time),
		now:     time.Now,
	}
}

func (rl *RateLimiter) limitFor(action string) Limit {
	if l, ok := rl.limits[action]; ok && l.Max > 0 && l.Window > 0 {
		return l
	}
	return Limit{Max: defaultActionLimit, Window: time.Minute}
}

// Allow records one call and reports whether it is within the limit
func (rl *RateLimiter) Allow(actor, action string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evict(now)

	limit := rl.limitFor(action)
	windowNanos := limit.Window.Nanoseconds()
	start := now.UnixNano() - now.UnixNano()%windowNanos
	key := windowKey{actor: actor, action: action, start: start}

	if rl.counts[key] >= limit.Max {
		return false
	}
	rl.counts[key]++
	rl.expires[key] = time.Unix(0, start).Add(limit.Window)
	return true
}

func (rl *RateLimiter) evict(now time.Time) {
	for key, exp := range rl.expires {
		if !now.Before(exp) {
			delete(rl.expires, key)
			delete(rl.counts, key)
		}
	}
}

// Len returns the number of live windows
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.counts)
}
