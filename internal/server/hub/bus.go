package hub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Bus fans document frames out to other relay instances.
type Bus interface {
	// Publish sends msg to every instance subscribed to locator
	Publish(ctx context.Context, locator string, msg []byte) error

	// Subscribe delivers messages published for locator until the returned function is called
	Subscribe(ctx context.Context, locator string, fn func(msg []byte)) (func(), error)

	// Close releases the bus
	Close() error
}

// RedisBus is a Bus on Redis pub/sub with one channel per document.
type RedisBus struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

// NewRedisBus connects to Redis at addr.
func NewRedisBus(ctx context.Context, addr string, logger *slog.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBus{
		client: client,
		logger: logger,
		prefix: "txtpresence:doc:",
	}, nil
}

// Publish implements Bus.
func (b *RedisBus) Publish(ctx context.Context, locator string, msg []byte) error {
	if err := b.client.Publish(ctx, b.prefix+locator, msg).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Subscribe implements Bus.
func (b *RedisBus) Subscribe(ctx context.Context, locator string, fn func(msg []byte)) (func(), error) {
	pubsub := b.client.Subscribe(ctx, b.prefix+locator)

	// Дожидаемся подтверждения подписки, иначе первые сообщения могут потеряться
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to redis: %w", err)
	}

	ch := pubsub.Channel()
	go func() {
		for msg := range ch {
			fn([]byte(msg.Payload))
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			b.logger.Debug("Failed to close redis subscription", "locator", locator, "error", err)
		}
	}, nil
}

// Close implements Bus.
func (b *RedisBus) Close() error {
	return b.client.Close()
}
