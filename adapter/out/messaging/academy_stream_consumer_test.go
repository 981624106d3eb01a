package messaging

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestNewConsumerDefaults verifies zero-value tuning fields fall back to
// working defaults instead of a non-blocking zero-count read loop.
func TestNewConsumerDefaults(t *testing.T) {
	c := NewConsumer(nil, &ConsumerConfig{
		Group:    "academy-workers",
		Consumer: "worker-1",
		Streams:  []string{StreamFeedbackAnalyze},
		Logger:   zerolog.Nop(),
	})

	if c.batchSize != 10 {
		t.Errorf("batchSize = %v, want 10", c.batchSize)
	}
	if c.blockTime != 5*time.Second {
		t.Errorf("blockTime = %v, want 5s", c.blockTime)
	}
	if c.pendingCheckInterval != 30*time.Second {
		t.Errorf("pendingCheckInterval = %v, want 30s", c.pendingCheckInterval)
	}
	if c.pendingIdleTime != 2*time.Minute {
		t.Errorf("pendingIdleTime = %v, want 2m", c.pendingIdleTime)
	}
	if c.maxRetries != 3 {
		t.Errorf("maxRetries = %v, want 3", c.maxRetries)
	}
}

// TestNewConsumerTuning verifies configured tuning values are carried into
// the consumer rather than silently replaced by the defaults.
func TestNewConsumerTuning(t *testing.T) {
	c := NewConsumer(nil, &ConsumerConfig{
		Group:                "academy-workers",
		Consumer:             "worker-1",
		Streams:              []string{StreamFeedbackAnalyze},
		Logger:               zerolog.Nop(),
		BatchSize:            25,
		BlockTime:            2 * time.Second,
		MaxRetries:           5,
		PendingCheckInterval: time.Minute,
		PendingIdleTime:      10 * time.Minute,
	})

	if c.batchSize != 25 {
		t.Errorf("batchSize = %v, want 25", c.batchSize)
	}
	if c.blockTime != 2*time.Second {
		t.Errorf("blockTime = %v, want 2s", c.blockTime)
	}
	if c.maxRetries != 5 {
		t.Errorf("maxRetries = %v, want 5", c.maxRetries)
	}
	if c.pendingCheckInterval != time.Minute {
		t.Errorf("pendingCheckInterval = %v, want 1m", c.pendingCheckInterval)
	}
	if c.pendingIdleTime != 10*time.Minute {
		t.Errorf("pendingIdleTime = %v, want 10m", c.pendingIdleTime)
	}
}
