package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTracker(window, block time.Duration) *LoginTracker {
	return NewLoginTracker(LoginTrackerConfig{
		MaxAttempts:   3,
		AttemptWindow: window,
		BlockDuration: block,
	})
}

func TestLoginTrackerBlocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(time.Minute, time.Minute)

	assert.False(t, tracker.IsBlocked(ctx, "user@example.com", "10.0.0.1"))

	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-1")
	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-2")
	assert.False(t, tracker.IsBlocked(ctx, "user@example.com", "10.0.0.1"))

	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-3")
	assert.True(t, tracker.IsBlocked(ctx, "user@example.com", "10.0.0.1"))

	// The block applies per subject: same email from another address, and
	// another email from the same address, are both caught.
	assert.True(t, tracker.IsBlocked(ctx, "user@example.com", "10.0.0.2"))
	assert.True(t, tracker.IsBlocked(ctx, "other@example.com", "10.0.0.1"))

	// An untouched pair stays clean.
	assert.False(t, tracker.IsBlocked(ctx, "other@example.com", "10.0.0.2"))
}

func TestLoginTrackerResetClearsCounters(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(time.Minute, time.Minute)

	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-1")
	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-2")
	tracker.Reset(ctx, "user@example.com", "10.0.0.1")

	// Two more failures after the reset stay under the threshold of three.
	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-3")
	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-4")
	assert.False(t, tracker.IsBlocked(ctx, "user@example.com", "10.0.0.1"))
}

func TestLoginTrackerAttemptWindowExpiry(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(30*time.Millisecond, time.Minute)

	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-1")
	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-2")

	time.Sleep(50 * time.Millisecond)

	// The window elapsed, so this failure starts a fresh count.
	tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req-3")
	assert.False(t, tracker.IsBlocked(ctx, "user@example.com", "10.0.0.1"))
}

func TestLoginTrackerBlockExpiry(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(time.Minute, 30*time.Millisecond)

	for i := 0; i < 3; i++ {
		tracker.RecordFailure(ctx, "user@example.com", "10.0.0.1", "req")
	}
	assert.True(t, tracker.IsBlocked(ctx, "user@example.com", "10.0.0.1"))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, tracker.IsBlocked(ctx, "user@example.com", "10.0.0.1"))
}
