// Package redis implements the storage backend over a Redis key, for
// server-side deployments that keep settings centrally instead of on local
// disk.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	st "github.com/lolokcat/cypherconf/storage"
)

var ErrNilClient = errors.New("redis backend: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	ttl         time.Duration
	closeClient bool
}

var _ st.Backend = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool          // set true only if this backend exclusively owns the client
	TTL         time.Duration // 0 => entries never expire (the sane default for settings)
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	ttl := cfg.TTL
	if ttl < 0 {
		ttl = 0
	}
	return &Redis{rdb: cfg.Client, ttl: ttl, closeClient: cfg.CloseClient}, nil
}

func (r *Redis) Exists(ctx context.Context, name string) (bool, error) {
	n, err := r.rdb.Exists(ctx, name).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Read(ctx context.Context, name string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, name).Bytes()
	if err == goredis.Nil {
		return nil, fmt.Errorf("%w: %s", st.ErrNotExist, name)
	}
	if err != nil {
		return nil, err // transport/server error
	}
	return b, nil
}

func (r *Redis) Write(ctx context.Context, name string, data []byte) error {
	return r.rdb.Set(ctx, name, data, r.ttl).Err()
}

// Close releases the underlying redis client only when this backend owns
// it. Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close(context.Context) error {
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
