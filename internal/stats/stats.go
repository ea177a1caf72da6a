// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stats

import (
	"sort"

	"github.com/staranto/cfladder/internal/ladder"
)

// Row is one rating bucket.
type Row struct {
	Rating int `json:"rating" yaml:"rating"`
	Total  int `json:"total" yaml:"total"`
	Solved int `json:"solved" yaml:"solved"`
}

// Division holds the buckets for one division, ordered by rating.
type Division struct {
	Division int   `json:"division" yaml:"division"`
	Rows     []Row `json:"rows" yaml:"rows"`
}

// Totals sums the rows.
func (d Division) Totals() (total, solved int) {
	for _, r := range d.Rows {
		total += r.Total
		solved += r.Solved
	}
	return total, solved
}

// Summarize folds every group of l into its division. A problem counts as
// solved only when its status is Solved; attempted but unsolved problems
// count toward the total like unattempted ones.
func Summarize(l ladder.Ladder) []Division {
	buckets := make(map[int]map[int]*Row)

	for key, entries := range l.Groups {
		div, ok := buckets[key.Division]
		if !ok {
			div = make(map[int]*Row)
			buckets[key.Division] = div
		}

		for _, e := range entries {
			r, ok := div[e.Rating()]
			if !ok {
				r = &Row{Rating: e.Rating()}
				div[e.Rating()] = r
			}
			r.Total++
			if s, _ := l.Status(e); s == ladder.Solved {
				r.Solved++
			}
		}
	}

	out := make([]Division, 0, len(buckets))
	for d, rows := range buckets {
		div := Division{Division: d, Rows: make([]Row, 0, len(rows))}
		for _, r := range rows {
			div.Rows = append(div.Rows, *r)
		}
		sort.Slice(div.Rows, func(i, j int) bool { return div.Rows[i].Rating < div.Rows[j].Rating })
		out = append(out, div)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Division < out[j].Division })

	return out
}

// Only returns the named division, or all of them when d is 0.
func Only(divs []Division, d int) []Division {
	if d == 0 {
		return divs
	}
	for _, div := range divs {
		if div.Division == d {
			return []Division{div}
		}
	}
	return nil
}
