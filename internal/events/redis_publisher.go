package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

// RedisPublisher appends one stream entry per outcome, with the JSON message
// under the "event" field.
// It implements domain.ResultSink.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisPublisher creates a publisher writing to stream.
func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: stream,
	}
}

// Name identifies the sink in logs.
func (p *RedisPublisher) Name() string {
	return "redis"
}

// Export appends every outcome of the run in a single pipeline.
func (p *RedisPublisher) Export(ctx context.Context, result *domain.BatchResult) error {
	bodies, err := marshalEvents(result)
	if err != nil {
		return err
	}
	if len(bodies) == 0 {
		return nil
	}

	_, err = p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, body := range bodies {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: p.stream,
				Values: map[string]any{
					"event": body,
				},
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish events to stream %s: %w", p.stream, err)
	}

	return nil
}
