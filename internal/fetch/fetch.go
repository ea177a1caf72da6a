// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/apex/log"

	"github.com/staranto/cfladder/internal/cache"
	cf "github.com/staranto/cfladder/internal/codeforces"
)

const (
	ContestsKey = "contests.list"
	ProblemsKey = "problems.list"
)

// anyAge accepts a cached entry no matter how old it is.
const anyAge = time.Duration(math.MaxInt64)

// SubmissionsKey is the cache key of a handle's submission history.
func SubmissionsKey(handle string) string {
	return handle + ".submissions"
}

// API is the part of *codeforces.Client a Source needs.
type API interface {
	Contests(ctx context.Context) ([]cf.Contest, error)
	Problemset(ctx context.Context) (cf.Problemset, error)
	cf.SubmissionLister
}

// Source serves Codeforces data from the store while it is fresh and from
// the API otherwise.
type Source struct {
	api      API
	store    cache.Store
	maxAge   time.Duration
	maxPages int
}

type Option func(*Source)

func WithMaxAge(d time.Duration) Option {
	return func(s *Source) { s.maxAge = d }
}

func WithMaxPages(n int) Option {
	return func(s *Source) { s.maxPages = n }
}

func New(api API, store cache.Store, opts ...Option) *Source {
	s := &Source{
		api:      api,
		store:    store,
		maxAge:   cache.DefaultTTL,
		maxPages: cf.DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Contests returns the full contest list.
func (s *Source) Contests(ctx context.Context) ([]cf.Contest, error) {
	contests, err := cache.Through(ctx, s.store, ContestsKey, s.maxAge, s.api.Contests)
	if err != nil {
		return nil, fmt.Errorf("failed to load contests: %w", err)
	}
	log.Infof("loaded %d contests", len(contests))
	return contests, nil
}

// Problemset returns every problem with its statistic.
func (s *Source) Problemset(ctx context.Context) (cf.Problemset, error) {
	ps, err := cache.Through(ctx, s.store, ProblemsKey, s.maxAge, s.api.Problemset)
	if err != nil {
		return cf.Problemset{}, fmt.Errorf("failed to load problems: %w", err)
	}
	log.Infof("loaded %d problems", len(ps.Problems))
	return ps, nil
}

// Submissions returns the handle's history, newest first. The known list
// comes from a fresh cache entry or, failing that, the bulk listing. Either
// way it is topped up by paging and cached again. When the bulk listing
// fails, a stale cached history is returned along with the error so the
// caller can decide whether to carry on.
func (s *Source) Submissions(ctx context.Context, handle string) ([]cf.Submission, error) {
	key := SubmissionsKey(handle)
	known, ok := cache.Load[[]cf.Submission](ctx, s.store, key, s.maxAge)
	if !ok {
		log.Infof("loading submissions for %s", handle)
		bulk, err := s.api.UserStatus(ctx, handle, 0, 0)
		if err != nil {
			return s.stale(ctx, key, fmt.Errorf("failed to load submissions for %s: %w", handle, err))
		}
		known = bulk
	}

	subs, err := cf.History(ctx, s.api, handle, known, s.maxPages)
	if err != nil {
		log.WithError(err).Warnf("keeping %d known submissions", len(known))
		subs = known
	}

	if err := cache.Save(ctx, s.store, key, subs); err != nil {
		log.WithError(err).Warnf("failed to write %s to cache", key)
	}
	log.Infof("loaded %d submissions for %s", len(subs), handle)
	return subs, nil
}

func (s *Source) stale(ctx context.Context, key string, cause error) ([]cf.Submission, error) {
	if subs, ok := cache.Load[[]cf.Submission](ctx, s.store, key, anyAge); ok {
		log.WithError(cause).Warnf("using %d stale submissions", len(subs))
		return subs, cause
	}
	return nil, cause
}
