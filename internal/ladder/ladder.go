// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ladder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/staranto/cfladder/internal/codeforces"
)

// MaxLetter is the last problem letter that makes it into a ladder.
const MaxLetter = "E"

// ProblemKey identifies a problem independent of sub-parts: contest id
// followed by the normalized letter, e.g. "1900D" for both D1 and D2.
type ProblemKey string

// KeyOf builds the ProblemKey for a contest and raw index.
func KeyOf(contestID int, index string) ProblemKey {
	return ProblemKey(strconv.Itoa(contestID) + NormalizeIndex(index))
}

// NormalizeIndex strips the digit of a two part index ("D1" -> "D"). Any
// other index is returned unchanged.
func NormalizeIndex(index string) string {
	if len(index) == 2 {
		return index[:1]
	}
	return index
}

// Division maps a contest name to its tier. Anything without a recognizable
// division is 4.
func Division(name string) int {
	switch {
	case strings.Contains(name, "Div. 1"):
		return 1
	case strings.Contains(name, "Div. 2"):
		return 2
	case strings.Contains(name, "Div. 3"):
		return 3
	default:
		return 4
	}
}

// GroupKey names one ladder table.
type GroupKey struct {
	Division int
	Letter   string
}

func (k GroupKey) String() string {
	return fmt.Sprintf("Div. %d/%s", k.Division, k.Letter)
}

// Entry is a problem paired with its statistic.
type Entry struct {
	Problem   codeforces.Problem
	Statistic codeforces.ProblemStatistic
}

// Key returns the entry's ProblemKey.
func (e Entry) Key() ProblemKey {
	return KeyOf(e.Problem.ContestID, e.Problem.Index)
}

// Letter returns the normalized problem letter.
func (e Entry) Letter() string {
	return NormalizeIndex(e.Problem.Index)
}

// Rating returns the problem rating, 0 when unrated.
func (e Entry) Rating() int {
	if e.Problem.Rating == nil {
		return 0
	}
	return *e.Problem.Rating
}

// Diagnostic records a record that was skipped and why.
type Diagnostic struct {
	Subject string
	Reason  string
}

func (d Diagnostic) String() string {
	return d.Subject + ": " + d.Reason
}

// Input is everything Build needs.
type Input struct {
	Contests    []codeforces.Contest
	Problemset  codeforces.Problemset
	Submissions []codeforces.Submission
	Cutoff      int
}

// Ladder is the joined view.
type Ladder struct {
	Groups   map[GroupKey][]Entry
	Statuses map[ProblemKey]Status
}

// Keys returns the group keys in lexical order of their names.
func (l Ladder) Keys() []GroupKey {
	keys := make([]GroupKey, 0, len(l.Groups))
	for k := range l.Groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Status looks up the solve status of e. ok is false for problems the user
// never submitted.
func (l Ladder) Status(e Entry) (Status, bool) {
	s, ok := l.Statuses[e.Key()]
	return s, ok
}

// Size is the number of problems across all groups.
func (l Ladder) Size() int {
	n := 0
	for _, g := range l.Groups {
		n += len(g)
	}
	return n
}

// Build filters, groups and sorts the problem set and derives statuses from
// the submissions. Diagnostics from both steps are returned together.
func Build(in Input) (Ladder, []Diagnostic) {
	groups, diags := Group(FilterContests(in.Contests, in.Cutoff), in.Problemset)
	statuses, sdiags := Statuses(in.Submissions)
	return Ladder{Groups: groups, Statuses: statuses}, append(diags, sdiags...)
}

// FilterContests keeps finished contests above cutoff that are either CF
// rounds of division 1 or 2, or ICPC style division 3 rounds.
func FilterContests(contests []codeforces.Contest, cutoff int) []codeforces.Contest {
	var out []codeforces.Contest
	for _, c := range contests {
		if c.ID <= cutoff || c.Phase != codeforces.PhaseFinished {
			continue
		}
		cf := c.Type == codeforces.TypeCF && (strings.Contains(c.Name, "Div. 1") || strings.Contains(c.Name, "Div. 2"))
		icpc := c.Type == codeforces.TypeICPC && strings.Contains(c.Name, "Div. 3")
		if cf || icpc {
			out = append(out, c)
		}
	}
	return out
}

// Group buckets the rated problems of contests by division and letter, and
// sorts each bucket. A problem that cannot be processed is skipped with a
// diagnostic; the rest carry on.
func Group(contests []codeforces.Contest, ps codeforces.Problemset) (map[GroupKey][]Entry, []Diagnostic) {
	names := make(map[int]string, len(contests))
	for _, c := range contests {
		names[c.ID] = c.Name
	}

	groups := make(map[GroupKey][]Entry)
	var diags []Diagnostic

	for i, p := range ps.Problems {
		name, ok := names[p.ContestID]
		if !ok || p.Rating == nil {
			continue
		}

		entry, err := pair(i, p, ps.Statistics)
		if err != nil {
			diags = append(diags, Diagnostic{
				Subject: fmt.Sprintf("problem %d%s", p.ContestID, p.Index),
				Reason:  err.Error(),
			})
			continue
		}

		letter := entry.Letter()
		if letter > MaxLetter {
			continue
		}

		key := GroupKey{Division: Division(name), Letter: letter}
		groups[key] = append(groups[key], entry)
	}

	for _, entries := range groups {
		Sort(entries)
	}

	return groups, diags
}

// pair matches problem i with its statistic, which must describe the same
// problem.
func pair(i int, p codeforces.Problem, stats []codeforces.ProblemStatistic) (Entry, error) {
	if p.Index == "" {
		return Entry{}, fmt.Errorf("missing index")
	}
	if i >= len(stats) {
		return Entry{}, fmt.Errorf("no statistic at position %d", i)
	}
	st := stats[i]
	if st.ContestID != p.ContestID || st.Index != p.Index {
		return Entry{}, fmt.Errorf("statistic at position %d is for %d%s", i, st.ContestID, st.Index)
	}
	return Entry{Problem: p, Statistic: st}, nil
}

// Sort orders entries by rating, then by solve count descending so that the
// more popular of two equally rated problems comes first.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := entries[i].Rating(), entries[j].Rating()
		if ri != rj {
			return ri < rj
		}
		return entries[i].Statistic.SolvedCount > entries[j].Statistic.SolvedCount
	})
}
