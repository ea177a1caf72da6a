// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package fetch puts a cache.Store in front of the Codeforces client.
package fetch
