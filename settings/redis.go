package settings

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration

	// Key is the hash holding one field per tool id.
	// Default: "toolgate:tools:enabled"
	Key string

	// Channel is the pub/sub channel changes are announced on.
	// Default: "toolgate:tools:changes"
	Channel string
}

// RedisStore keeps flags in a Redis hash and announces changes on a pub/sub
// channel, so every process sharing the Redis instance follows the same
// settings.
type RedisStore struct {
	client  *redis.Client
	key     string
	channel string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}

	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	if opts.Key == "" {
		opts.Key = "toolgate:tools:enabled"
	}

	if opts.Channel == "" {
		opts.Channel = "toolgate:tools:changes"
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if opts.TLS != nil {
		redisOpts.TLSConfig = opts.TLS
	}
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, key: opts.Key, channel: opts.Channel}, nil
}

// Load returns every flag in the hash.
func (s *RedisStore) Load(ctx context.Context) (map[string]bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load tool flags from %s: %w", s.key, err)
	}

	flags := make(map[string]bool, len(fields))
	var errs []error
	for id, raw := range fields {
		enabled, err := parseFlag(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid flag for %s: %q", id, raw))
			continue
		}
		flags[id] = enabled
	}
	if len(errs) > 0 {
		return flags, errors.Join(errs...)
	}
	return flags, nil
}

// SetEnabled writes the flag and publishes the change.
func (s *RedisStore) SetEnabled(ctx context.Context, toolID string, enabled bool) error {
	if err := s.client.HSet(ctx, s.key, toolID, formatFlag(enabled)).Err(); err != nil {
		return fmt.Errorf("failed to set flag for %s: %w", toolID, err)
	}

	data, err := json.Marshal(Change{ToolID: toolID, Enabled: enabled})
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}

	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", s.channel, err)
	}

	return nil
}

// Watch subscribes to the change channel. Malformed messages are skipped.
func (s *RedisStore) Watch(ctx context.Context) (<-chan Change, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", s.channel, err)
	}

	changes := make(chan Change)

	go func() {
		defer close(changes)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil || change.ToolID == "" {
					continue
				}

				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return changes, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
