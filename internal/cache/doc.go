// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache stores JSON payloads stamped with their creation time and
// reports them absent once they reach a caller supplied age. The backing store
// is swappable: local files, an in-process LRU, S3 or Redis.
package cache
