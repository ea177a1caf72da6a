// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package report writes ladder groups as markdown tables, one file per group.
package report
