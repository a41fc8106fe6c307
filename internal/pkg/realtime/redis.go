package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel shared by all API instances.
const DefaultChannel = "attendance:realtime"

const publishTimeout = 2 * time.Second

// envelope is the wire format on the Redis channel.
type envelope struct {
	RecipientID string          `json:"recipient_id"`
	Event       string          `json:"event"`
	Payload     json.RawMessage `json:"payload"`
}

// RedisRelay publishes events through Redis so that every instance can
// forward them to its own SSE subscribers.
type RedisRelay struct {
	client  redis.UniversalClient
	hub     *sse.Hub
	channel string
}

func NewRedisRelay(client redis.UniversalClient, hub *sse.Hub, channel string) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{client: client, hub: hub, channel: channel}
}

// Publish encodes the event and pushes it to the shared channel.
func (r *RedisRelay) Publish(ctx context.Context, recipientID string, event string, payload interface{}) error {
	data, err := encode(recipientID, event, payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish realtime event: %w", err)
	}
	return nil
}

// Run subscribes to the shared channel and forwards every message into the
// local hub until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	slog.Info("Realtime relay subscribed", "channel", r.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Realtime relay stopping", "channel", r.channel)
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := r.deliver(msg.Payload); err != nil {
				slog.Error("Realtime relay dropped message", "error", err)
			}
		}
	}
}

func (r *RedisRelay) deliver(raw string) error {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("failed to decode realtime envelope: %w", err)
	}
	if env.RecipientID == "" {
		return fmt.Errorf("realtime envelope without recipient")
	}

	r.hub.Publish(env.RecipientID, sse.Event{
		UserID: env.RecipientID,
		Event:  env.Event,
		Data:   env.Payload,
	})
	return nil
}

func encode(recipientID, event string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode realtime payload: %w", err)
	}
	data, err := json.Marshal(envelope{RecipientID: recipientID, Event: event, Payload: body})
	if err != nil {
		return "", fmt.Errorf("failed to encode realtime envelope: %w", err)
	}
	return string(data), nil
}

// NewRedisClient connects to Redis, retrying the initial ping.
func NewRedisClient(ctx context.Context, opts *redis.Options, maxRetries int, wait time.Duration) (*redis.Client, error) {
	rdb := redis.NewClient(opts)

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			slog.Info("Connected to Redis", "addr", opts.Addr)
			return rdb, nil
		}

		slog.Warn("Redis ping failed", "attempt", i, "max_retries", maxRetries, "error", lastErr)
		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect redis after %d retries: %w", maxRetries, lastErr)
}
