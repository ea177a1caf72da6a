// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output filters and emits result sets as text tables, JSON or YAML.
package output
