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
	"github.com/dustin/go-humanize"
)

// DefaultTTL is how long a fetched payload stays fresh.
const DefaultTTL = 24 * time.Hour

var ErrCorruptEntry = errors.New("corrupt cache entry")

// Entry is the persisted form of a cached payload.
type Entry struct {
	CreationTime int64           `json:"creation_time"`
	Data         json.RawMessage `json:"data"`
}

// Created returns the creation stamp as a time.
func (e Entry) Created() time.Time {
	return time.Unix(e.CreationTime, 0)
}

// Fresh reports whether the entry is younger than maxAge at now. An entry
// exactly maxAge old is stale.
func (e Entry) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Unix()-e.CreationTime < int64(maxAge/time.Second)
}

// Store is a key/value cache of raw JSON. Get reports false for missing and
// stale entries alike. Put always overwrites and stamps the current time.
type Store interface {
	Get(ctx context.Context, key string, maxAge time.Duration) (json.RawMessage, bool)
	Put(ctx context.Context, key string, data json.RawMessage) error
}

// Option customizes a store.
type Option func(*base)

// WithClock replaces time.Now, mostly so tests can backdate entries.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// base carries what every store implementation shares.
type base struct {
	now func() time.Time
}

func newBase(opts []Option) base {
	b := base{now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b base) encode(data json.RawMessage) ([]byte, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("refusing to cache invalid JSON: %w", ErrCorruptEntry)
	}
	return json.Marshal(Entry{CreationTime: b.now().Unix(), Data: data})
}

// decode parses raw and applies the age check. It logs why an entry was
// rejected so a cache miss can be explained at debug level.
func (b base) decode(key string, raw []byte, maxAge time.Duration) (json.RawMessage, bool) {
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil || e.CreationTime == 0 || len(e.Data) == 0 {
		log.WithError(fmt.Errorf("%s: %w", key, ErrCorruptEntry)).Warn("ignoring cache entry")
		return nil, false
	}
	if !e.Fresh(b.now(), maxAge) {
		log.Debugf("cache expired: %s (written %s)", key, humanize.Time(e.Created()))
		return nil, false
	}
	log.Debugf("cache hit: %s (written %s)", key, humanize.Time(e.Created()))
	return e.Data, true
}

// Load decodes a cached value into T.
func Load[T any](ctx context.Context, s Store, key string, maxAge time.Duration) (T, bool) {
	var v T
	raw, ok := s.Get(ctx, key, maxAge)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		log.WithError(err).Warnf("cached %s does not decode", key)
		var zero T
		return zero, false
	}
	return v, true
}

// Save encodes v and stores it under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}

// Through returns the cached value for key when it is fresh, otherwise it
// calls fetch and caches the result. A failed write is logged and the fetched
// value is still returned.
func Through[T any](
	ctx context.Context,
	s Store,
	key string,
	maxAge time.Duration,
	fetch func(context.Context) (T, error),
) (T, error) {
	if v, ok := Load[T](ctx, s, key, maxAge); ok {
		return v, nil
	}

	log.Debugf("cache miss: %s", key)
	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := Save(ctx, s, key, v); err != nil {
		log.WithError(err).Warnf("failed to write %s to cache", key)
	}
	return v, nil
}
