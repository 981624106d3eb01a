// Package messaging provides Redis Streams adapters for async job flow.
package messaging

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"academy_server/core/port/out"

	"github.com/redis/go-redis/v9"
)

// Stream names
const (
	StreamFeedbackAnalyze = "feedback:analyze"
)

// RedisProducer implements out.MessageProducer using Redis Streams.
type RedisProducer struct {
	client *redis.Client
}

// NewRedisProducer creates a new RedisProducer.
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{client: client}
}

// PublishFeedbackAnalyze publishes a feedback classification job.
func (p *RedisProducer) PublishFeedbackAnalyze(ctx context.Context, job *out.FeedbackAnalyzeJob) error {
	return p.publish(ctx, StreamFeedbackAnalyze, job)
}

// publish appends a job to a stream as a single JSON data field.
func (p *RedisProducer) publish(ctx context.Context, stream string, job interface{}) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", stream, err)
	}

	return nil
}

// Ensure RedisProducer implements out.MessageProducer
var _ out.MessageProducer = (*RedisProducer)(nil)
