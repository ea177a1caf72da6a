// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/apex/log"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. CFLADDER_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/cfladder
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("CFLADDER_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "cfladder"), true
	}
	return "", false
}

// Enabled returns true unless CFLADDER_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("CFLADDER_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// FileStore keeps one file per key beneath a directory.
type FileStore struct {
	base
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir. An empty dir resolves through
// Dir().
func NewFileStore(dir string, opts ...Option) *FileStore {
	if dir == "" {
		dir, _ = Dir()
	}
	return &FileStore{base: newBase(opts), dir: dir}
}

// Root is the directory entries are written to.
func (s *FileStore) Root() string {
	return s.dir
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// EntryPath returns where key lives on disk and whether a file is there now.
// Keys are used as file names with anything outside [A-Za-z0-9._-] replaced.
func (s *FileStore) EntryPath(key string) (string, bool) {
	p := filepath.Join(s.dir, unsafeKeyChars.ReplaceAllString(key, "_"))
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

func (s *FileStore) usable() bool {
	return Enabled() && s.dir != ""
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string, maxAge time.Duration) (json.RawMessage, bool) {
	if !s.usable() {
		return nil, false
	}
	p, ok := s.EntryPath(key)
	if !ok {
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		log.WithError(err).Warnf("failed to read cache file %s", p)
		return nil, false
	}
	return s.decode(key, bytes.TrimSpace(b), maxAge)
}

// Put implements Store. Directories are created as needed.
func (s *FileStore) Put(_ context.Context, key string, data json.RawMessage) error {
	if !s.usable() {
		return nil // treat as disabled.
	}
	doc, err := s.encode(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	p, _ := s.EntryPath(key)
	if err := os.WriteFile(p, doc, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: %s", p)
	return nil
}

// Purge removes files older than maxAge and returns how many went. If maxAge
// <= 0 or the directory does not exist, it is a no-op.
func (s *FileStore) Purge(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}
	if s.dir == "" {
		return 0, nil
	}

	now := s.now()
	removed := 0
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
				removed++
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}
	return removed, nil
}
