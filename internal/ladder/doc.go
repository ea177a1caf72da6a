// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package ladder joins contests, problems and a user's submissions into
// rating-ordered groups keyed by division and problem letter. Everything here
// is a pure function of its arguments.
package ladder
