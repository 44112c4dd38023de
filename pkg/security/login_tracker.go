package security

import (
	"context"
	"sync"
	"time"

	"alumnet-backend/pkg/redis"
)

// LoginTrackerConfig holds configuration for failed-login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before block
	AttemptWindow time.Duration // window for counting attempts
	BlockDuration time.Duration // how long a block lasts
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed login attempts per subject (hashed email or
// client IP) and blocks further attempts once the threshold is reached.
// State lives in Redis when available so blocks survive restarts and are
// shared across instances; otherwise an in-memory fallback is used.
type LoginTracker struct {
	config LoginTrackerConfig
	logger *SecurityLogger

	mu       sync.Mutex
	attempts map[string]*attemptEntry
	blocked  map[string]time.Time
}

type attemptEntry struct {
	count   int
	resetAt time.Time
}

// Redis key patterns
const (
	failLoginPrefix    = "fail:login:"
	blockedLoginPrefix = "blocked:login:"
)

// Lua script for atomic increment with TTL on first set
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// NewLoginTracker creates a new login tracker with the given config
func NewLoginTracker(config LoginTrackerConfig) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config = DefaultLoginTrackerConfig()
	}
	return &LoginTracker{
		config:   config,
		logger:   DefaultLogger(),
		attempts: make(map[string]*attemptEntry),
		blocked:  make(map[string]time.Time),
	}
}

// IsBlocked reports whether the subject is currently blocked.
func (t *LoginTracker) IsBlocked(ctx context.Context, email, ip string) bool {
	for _, subject := range t.subjects(email, ip) {
		if t.isSubjectBlocked(ctx, subject) {
			return true
		}
	}
	return false
}

// RecordFailure counts a failed attempt for both the email and the client
// IP, creating a block when either crosses the threshold.
func (t *LoginTracker) RecordFailure(ctx context.Context, email, ip, requestID string) {
	t.logger.LogLoginFailed(ctx, email, ip, requestID)

	for _, subject := range t.subjects(email, ip) {
		count := t.incrAttempts(ctx, subject)
		if count >= t.config.MaxAttempts {
			t.createBlock(ctx, subject)
			// One event per blocked subject; the subject (hashed email or
			// IP) disambiguates the pair emitted for a single attempt.
			t.logger.Log(ctx, SecurityEvent{
				Event:     EventBlockCreated,
				IP:        ip,
				RequestID: requestID,
				Details:   map[string]interface{}{"subject": subject, "attempts": count},
			})
		}
	}
}

// Reset clears counters after a successful login.
func (t *LoginTracker) Reset(ctx context.Context, email, ip string) {
	for _, subject := range t.subjects(email, ip) {
		if client := redis.Client(); client != nil {
			_ = client.Del(ctx, failLoginPrefix+subject).Err()
			continue
		}
		t.mu.Lock()
		delete(t.attempts, subject)
		t.mu.Unlock()
	}
}

func (t *LoginTracker) subjects(email, ip string) []string {
	subjects := make([]string, 0, 2)
	if email != "" {
		subjects = append(subjects, "email:"+HashSubject(email))
	}
	if ip != "" {
		subjects = append(subjects, "ip:"+ip)
	}
	return subjects
}

func (t *LoginTracker) isSubjectBlocked(ctx context.Context, subject string) bool {
	if client := redis.Client(); client != nil {
		exists, err := client.Exists(ctx, blockedLoginPrefix+subject).Result()
		if err == nil {
			return exists > 0
		}
		// Redis error: fall through to the in-memory view
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	until, ok := t.blocked[subject]
	if !ok {
		return false
	}
	if time.Now().After(until) {
		delete(t.blocked, subject)
		return false
	}
	return true
}

func (t *LoginTracker) incrAttempts(ctx context.Context, subject string) int {
	if client := redis.Client(); client != nil {
		ttl := int(t.config.AttemptWindow.Seconds())
		count, err := client.Eval(ctx, incrWithTTLScript, []string{failLoginPrefix + subject}, ttl).Int()
		if err == nil {
			return count
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	entry, ok := t.attempts[subject]
	if !ok || now.After(entry.resetAt) {
		entry = &attemptEntry{resetAt: now.Add(t.config.AttemptWindow)}
		t.attempts[subject] = entry
	}
	entry.count++
	return entry.count
}

func (t *LoginTracker) createBlock(ctx context.Context, subject string) {
	if client := redis.Client(); client != nil {
		err := client.Set(ctx, blockedLoginPrefix+subject, "1", t.config.BlockDuration).Err()
		if err == nil {
			return
		}
	}

	t.mu.Lock()
	t.blocked[subject] = time.Now().Add(t.config.BlockDuration)
	t.mu.Unlock()
}
