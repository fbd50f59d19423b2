package postgres

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdempotencyRepo keeps replayable responses and submission guards in
// Postgres for deployments without Redis.
type IdempotencyRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Acquire(ctx context.Context, quoteID string) (bool, error)
	Release(ctx context.Context, quoteID string) error
	// CleanupExpired removes expired records
	CleanupExpired(ctx context.Context) (int64, error)
}

type IdempotencyRepoImpl struct {
	pool     *pgxpool.Pool
	guardTTL time.Duration
}

func NewIdempotencyRepo(pool *pgxpool.Pool, guardTTL time.Duration) *IdempotencyRepoImpl {
	return &IdempotencyRepoImpl{pool: pool, guardTTL: guardTTL}
}

const idempotencySchema = `
CREATE TABLE IF NOT EXISTS idempotency_records (
  key_hash   TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idempotency_records_expires_idx ON idempotency_records (expires_at);`

func (r *IdempotencyRepoImpl) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx, idempotencySchema)
	return err
}

// Hash the key for privacy and consistent length
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum)
}

func (r *IdempotencyRepoImpl) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM idempotency_records WHERE key_hash = $1 AND expires_at > now()`,
		hashKey(key),
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (r *IdempotencyRepoImpl) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_records (key_hash, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key_hash) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		hashKey(key), value, time.Now().Add(ttl),
	)
	return err
}

// Acquire claims the submission guard for quoteID. An expired claim is
// taken over.
func (r *IdempotencyRepoImpl) Acquire(ctx context.Context, quoteID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_records (key_hash, value, expires_at)
		VALUES ($1, 'submitting', $2)
		ON CONFLICT (key_hash) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
		WHERE idempotency_records.expires_at <= now()`,
		hashKey("booking:submit:"+quoteID), time.Now().Add(r.guardTTL),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepoImpl) Release(ctx context.Context, quoteID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, `DELETE FROM idempotency_records WHERE key_hash = $1`, hashKey("booking:submit:"+quoteID))
	return err
}

func (r *IdempotencyRepoImpl) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, `DELETE FROM idempotency_records WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *IdempotencyRepoImpl) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close is a no-op; the pool is owned by the caller.
func (r *IdempotencyRepoImpl) Close() error { return nil }

var _ IdempotencyRepo = (*IdempotencyRepoImpl)(nil)
