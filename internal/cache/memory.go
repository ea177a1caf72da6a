// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is an in-process Store. Entries are evicted by the LRU once
// they outlive ttl or the size bound is hit; the maxAge passed to Get is
// still checked against the entry's own stamp.
type MemoryStore struct {
	base
	lru *expirable.LRU[string, []byte]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store holding at most size entries. A ttl of zero
// disables LRU-side expiry.
func NewMemoryStore(size int, ttl time.Duration, opts ...Option) *MemoryStore {
	if size <= 0 {
		size = 64
	}
	return &MemoryStore{
		base: newBase(opts),
		lru:  expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string, maxAge time.Duration) (json.RawMessage, bool) {
	doc, ok := s.lru.Get(key)
	if !ok {
		return nil, false
	}
	return s.decode(key, doc, maxAge)
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, key string, data json.RawMessage) error {
	doc, err := s.encode(data)
	if err != nil {
		return err
	}
	s.lru.Add(key, doc)
	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}
