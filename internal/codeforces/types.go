// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package codeforces

import "fmt"

const siteURL = "https://codeforces.com"

// Contest is one entry of contest.list.
type Contest struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	Type                string `json:"type"`
	Phase               string `json:"phase"`
	Frozen              bool   `json:"frozen,omitempty"`
	DurationSeconds     int64  `json:"durationSeconds,omitempty"`
	StartTimeSeconds    int64  `json:"startTimeSeconds,omitempty"`
	RelativeTimeSeconds int64  `json:"relativeTimeSeconds,omitempty"`
}

// Problem is a problemset problem or the problem reference of a submission.
// Rating is nil for problems that have not been rated yet.
type Problem struct {
	ContestID      int      `json:"contestId,omitempty"`
	ProblemsetName string   `json:"problemsetName,omitempty"`
	Index          string   `json:"index"`
	Name           string   `json:"name"`
	Type           string   `json:"type,omitempty"`
	Points         float64  `json:"points,omitempty"`
	Rating         *int     `json:"rating,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// ProblemStatistic carries the aggregate solve count for a problem.
type ProblemStatistic struct {
	ContestID   int    `json:"contestId,omitempty"`
	Index       string `json:"index"`
	SolvedCount int    `json:"solvedCount"`
}

// Problemset is the result of problemset.problems. The two slices are
// parallel: Statistics[i] describes Problems[i].
type Problemset struct {
	Problems   []Problem          `json:"problems"`
	Statistics []ProblemStatistic `json:"problemStatistics"`
}

// Submission is one entry of user.status. Verdict is empty while the
// submission is still being judged.
type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId,omitempty"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds,omitempty"`
	Problem             Problem `json:"problem"`
	ProgrammingLanguage string  `json:"programmingLanguage,omitempty"`
	Verdict             string  `json:"verdict,omitempty"`
}

// Verdict and phase values the ladder cares about.
const (
	VerdictOK     = "OK"
	PhaseFinished = "FINISHED"
	TypeCF        = "CF"
	TypeICPC      = "ICPC"
)

// ProblemURL links to the problem statement in the problemset.
func ProblemURL(contestID int, index string) string {
	return fmt.Sprintf("%s/problemset/problem/%d/%s", siteURL, contestID, index)
}

// StatusURL links to the public submission list for the problem.
func StatusURL(contestID int, index string) string {
	return fmt.Sprintf("%s/problemset/status/%d/problem/%s", siteURL, contestID, index)
}
