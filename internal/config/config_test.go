// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points CFLADDER_CFG at a testdata file and resets the
// global Config.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("CFLADDER_CFG", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "tourist", cfg.Data["handle"])
				assert.Equal(t, "file", cfg.Data["store"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				gen, ok := cfg.Data["gen"].(map[string]interface{})
				assert.True(t, ok, "gen should be a map")
				assert.Equal(t, "petr", gen["handle"])
				assert.Equal(t, 1000, gen["cutoff"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, 600, cfg.Data["cutoff"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 24.5, cfg.Data["ttl_hours"])
				assert.Len(t, cfg.Data["divisions"], 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source, "should have a source path")
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("CFLADDER_CFG", "/nonexistent/path/cfladder.yaml")
	Config = Type{}

	_, err := Load()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_IsDirectory(t *testing.T) {
	t.Setenv("CFLADDER_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.ErrorIs(t, err, ErrIsDirectory)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestLoad_StandardLocations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("handle: jiangly\n"), 0o600))

	t.Setenv("CFLADDER_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Source)
	assert.Equal(t, "jiangly", cfg.Data["handle"])
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		namespace    string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple string value",
			testFile: "simple.yaml",
			key:      "handle",
			want:     "tourist",
		},
		{
			name:     "dotted key",
			testFile: "nested.yaml",
			key:      "gen.out",
			want:     "./ladders",
		},
		{
			name:      "namespace wins over bare key",
			testFile:  "nested.yaml",
			namespace: "gen",
			key:       "handle",
			want:      "petr",
		},
		{
			name:      "namespace falls back to bare key",
			testFile:  "nested.yaml",
			namespace: "stats",
			key:       "handle",
			want:      "tourist",
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []string{"default-value"},
			want:         "default-value",
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "mixed-types.yaml",
			key:      "cutoff",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)
			_, err := Load(tt.namespace)
			require.NoError(t, err)

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{
			name:     "int value",
			testFile: "mixed-types.yaml",
			key:      "cutoff",
			want:     600,
		},
		{
			name:     "float value converted to int",
			testFile: "mixed-types.yaml",
			key:      "ttl_hours",
			want:     24,
		},
		{
			name:     "nested int value",
			testFile: "nested.yaml",
			key:      "gen.cutoff",
			want:     1000,
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []int{60},
			want:         60,
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-int value",
			testFile: "simple.yaml",
			key:      "handle",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)
			_, err := Load()
			require.NoError(t, err)

			got, err := GetInt(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "sets.yaml")
	_, err := Load()
	require.NoError(t, err)

	got, err := GetStringSlice("gen.defaults")
	assert.NoError(t, err)
	assert.Equal(t, []string{"--handle tourist", "--cutoff 1200"}, got)

	_, err = GetStringSlice("gen.bad")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = GetStringSlice("gen.missing")
	assert.Error(t, err)
}

func TestConfig_LazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	// No explicit Load(); GetString must trigger it.
	val, err := GetString("handle")
	assert.NoError(t, err)
	assert.Equal(t, "tourist", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}

func TestSettings_Validate(t *testing.T) {
	valid := Settings{
		Handle:   "tourist",
		Cutoff:   600,
		OutDir:   ".",
		CacheTTL: 24 * time.Hour,
		MaxPages: 1000,
		BaseURL:  "https://codeforces.com/api",
		Store:    "file",
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "missing handle", mutate: func(s *Settings) { s.Handle = "" }, wantErr: "handle"},
		{name: "negative cutoff", mutate: func(s *Settings) { s.Cutoff = -1 }, wantErr: "cutoff"},
		{name: "zero ttl", mutate: func(s *Settings) { s.CacheTTL = 0 }, wantErr: "cachettl"},
		{name: "zero max pages", mutate: func(s *Settings) { s.MaxPages = 0 }, wantErr: "maxpages"},
		{name: "bad base url", mutate: func(s *Settings) { s.BaseURL = "not a url" }, wantErr: "baseurl"},
		{name: "unknown store", mutate: func(s *Settings) { s.Store = "etcd" }, wantErr: "store"},
		{name: "s3 needs bucket", mutate: func(s *Settings) { s.Store = "s3" }, wantErr: "bucket"},
		{name: "redis needs addr", mutate: func(s *Settings) { s.Store = "redis" }, wantErr: "redisaddr"},
		{
			name: "redis with addr",
			mutate: func(s *Settings) {
				s.Store = "redis"
				s.RedisAddr = "localhost:6379"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
