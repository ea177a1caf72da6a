// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/redis/go-redis/v9"
)

// RedisAPI is the slice of the go-redis client the store needs.
type RedisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps one string value per key. Redis expires the key after ttl
// so stale payloads do not pile up; Get still applies maxAge itself.
type RedisStore struct {
	base
	client RedisAPI
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client RedisAPI, prefix string, ttl time.Duration, opts ...Option) *RedisStore {
	return &RedisStore{
		base:   newBase(opts),
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// DialRedis connects and pings so a bad address fails before any fetch.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	log.Debugf("connected to redis at %s", addr)
	return rdb, nil
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string, maxAge time.Duration) (json.RawMessage, bool) {
	b, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warnf("failed to read redis key %s", s.redisKey(key))
		}
		return nil, false
	}
	return s.decode(key, b, maxAge)
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key string, data json.RawMessage) error {
	doc, err := s.encode(data)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.redisKey(key), doc, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write redis key %s: %w", s.redisKey(key), err)
	}
	return nil
}
