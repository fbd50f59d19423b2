package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/diagnosis/luxury-stays/pkg/logger"
)

const (
	guardPrefix = "booking:submit:"
	opTimeout   = 3 * time.Second
)

// Store backs the payment submission guard and the idempotency cache.
type Store struct {
	client   *goredis.Client
	guardTTL time.Duration
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string, guardTTL time.Duration) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis connection established", "addr", opts.Addr, "db", opts.DB)
	return NewStore(client, guardTTL), nil
}

func NewStore(client *goredis.Client, guardTTL time.Duration) *Store {
	return &Store{client: client, guardTTL: guardTTL}
}

// Acquire takes the submission guard for quoteID. It returns false while
// another submission holds it. The guard expires on its own after guardTTL
// so a crashed request cannot lock a quote forever.
func (s *Store) Acquire(ctx context.Context, quoteID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ok, err := s.client.SetNX(ctx, guardPrefix+quoteID, time.Now().UTC().Format(time.RFC3339), s.guardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submission guard: %w", err)
	}
	return ok, nil
}

func (s *Store) Release(ctx context.Context, quoteID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Del(ctx, guardPrefix+quoteID).Err()
}

// Get returns the cached value for key, or "" when there is none.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
