// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package stats summarizes a ladder into per-division rating buckets of total
// and solved problems.
package stats
