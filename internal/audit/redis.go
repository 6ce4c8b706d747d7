package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tkingovr/body-guard/api"
)

// DefaultRedisChannel is the pub/sub channel records are published on.
const DefaultRedisChannel = "bodyguard_audit"

// redisTimeout bounds every network step of a publish. Writes happen on
// the request path, so an unreachable server must fail quickly.
const redisTimeout = 500 * time.Millisecond

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	Channel  string
}

// RedisStore publishes every audit record as JSON on a Redis pub/sub
// channel. Records are not retained in Redis; subscribers that are not
// connected miss them.
type RedisStore struct {
	client  *redis.Client
	channel string

	mu     sync.Mutex
	closed bool
	stats  *counter
}

// NewRedisStore creates a store publishing to opts.Channel, or
// DefaultRedisChannel when empty. It does not connect until the first
// write.
func NewRedisStore(opts RedisOptions) *RedisStore {
	channel := opts.Channel
	if channel == "" {
		channel = DefaultRedisChannel
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,

		DialTimeout:  redisTimeout,
		ReadTimeout:  redisTimeout,
		WriteTimeout: redisTimeout,
		MaxRetries:   -1,
	})
	return &RedisStore{
		client:  rdb,
		channel: channel,
		stats:   newCounter(),
	}
}

// Ping checks that the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Write(ctx context.Context, record *api.AuditRecord) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return os.ErrClosed
	}
	stamp(record)
	s.stats.add(record)
	s.mu.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling audit record: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("publishing audit record: %w", err)
	}
	return nil
}

// Stats counts every record handed to Write, published or not.
func (s *RedisStore) Stats(_ context.Context) (*api.AuditStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.snapshot(), nil
}

func (s *RedisStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.client.Close()
}
