// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package ladder

import (
	"fmt"

	"github.com/staranto/cfladder/internal/codeforces"
)

// Status is the outcome of a user's attempts at a problem. A problem with no
// submissions has no Status at all.
type Status int

const (
	Unsolved Status = iota + 1
	Solved
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Unsolved:
		return "unsolved"
	default:
		return "unknown"
	}
}

// Statuses folds submissions into one Status per ProblemKey. A key is Solved
// as soon as any of its submissions has an OK verdict.
func Statuses(submissions []codeforces.Submission) (map[ProblemKey]Status, []Diagnostic) {
	out := make(map[ProblemKey]Status)
	var diags []Diagnostic

	for _, s := range submissions {
		p := s.Problem
		if p.ContestID == 0 || p.Index == "" {
			diags = append(diags, Diagnostic{
				Subject: fmt.Sprintf("submission %d", s.ID),
				Reason:  "problem reference has no contest or index",
			})
			continue
		}

		key := KeyOf(p.ContestID, p.Index)
		if s.Verdict == codeforces.VerdictOK {
			out[key] = Solved
		} else if _, seen := out[key]; !seen {
			out[key] = Unsolved
		}
	}

	return out, diags
}
