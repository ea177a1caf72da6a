// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package codeforces is a small client for the read-only Codeforces API
// methods cfladder uses: contest.list, problemset.problems and user.status.
package codeforces
