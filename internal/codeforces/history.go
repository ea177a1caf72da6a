// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package codeforces

import (
	"context"
	"fmt"

	"github.com/apex/log"
)

// SubmissionLister is the part of Client that History needs.
type SubmissionLister interface {
	UserStatus(ctx context.Context, handle string, from, count int) ([]Submission, error)
}

// DefaultMaxPages bounds the History walk.
const DefaultMaxPages = 1000

// History brings a known submission list (newest first) up to date. It reads
// single submissions at offsets 1, 2, 3, ... until it meets known[0], and
// returns the unseen ones ahead of known, newest first.
//
// The walk relies on user.status agreeing with the earlier bulk fetch. If it
// does not reach known[0] within maxPages calls, or runs out of submissions,
// it gives up with ErrNoConvergence. An empty known list has nothing to anchor
// on and is returned as is.
func History(ctx context.Context, l SubmissionLister, handle string, known []Submission, maxPages int) ([]Submission, error) {
	if len(known) == 0 {
		return known, nil
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	anchor := known[0].ID
	seen := make(map[int64]struct{}, len(known))
	for _, s := range known {
		seen[s.ID] = struct{}{}
	}

	var newer []Submission
	for from := 1; ; from++ {
		if from > maxPages {
			return nil, fmt.Errorf("%w: %s: anchor %d not reached after %d calls", ErrNoConvergence, handle, anchor, maxPages)
		}

		page, err := l.UserStatus(ctx, handle, from, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to read submission %d of %s: %w", from, handle, err)
		}
		if len(page) == 0 {
			return nil, fmt.Errorf("%w: %s: ran out of submissions at offset %d", ErrNoConvergence, handle, from)
		}

		s := page[0]
		if s.ID == anchor {
			break
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		newer = append(newer, s)
	}

	if len(newer) > 0 {
		log.Infof("found %d new submissions for %s", len(newer), handle)
	}

	out := make([]Submission, 0, len(newer)+len(known))
	out = append(out, newer...)
	return append(out, known...), nil
}
