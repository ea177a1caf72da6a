// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/cfladder/internal/cache"
)

const (
	contestsBody = `{"status":"OK","result":[
		{"id":1900,"name":"Codeforces Round 910 (Div. 2)","type":"CF","phase":"FINISHED"},
		{"id":1899,"name":"Codeforces Round 909 (Div. 3)","type":"ICPC","phase":"FINISHED"},
		{"id":1901,"name":"Codeforces Round 911 (Div. 2)","type":"CF","phase":"BEFORE"}
	]}`
	problemsBody = `{"status":"OK","result":{
		"problems":[
			{"contestId":1900,"index":"A","name":"Cover in Water","rating":800},
			{"contestId":1900,"index":"B","name":"Laura and Operations","rating":900},
			{"contestId":1899,"index":"A","name":"Game with Integers","rating":800},
			{"contestId":1899,"index":"G","name":"Unusual Entertainment","rating":1900}
		],
		"problemStatistics":[
			{"contestId":1900,"index":"A","solvedCount":30000},
			{"contestId":1900,"index":"B","solvedCount":20000},
			{"contestId":1899,"index":"A","solvedCount":40000},
			{"contestId":1899,"index":"G","solvedCount":900}
		]}}`
	submissionsBody = `{"status":"OK","result":[
		{"id":2,"problem":{"contestId":1900,"index":"A"},"verdict":"OK"},
		{"id":1,"problem":{"contestId":1900,"index":"B"},"verdict":"WRONG_ANSWER"}
	]}`
)

// isolate points config and cache lookups at empty temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CFLADDER_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", home)
	t.Setenv("CFLADDER_CACHE_DIR", filepath.Join(home, "cache"))
	t.Setenv("CFLADDER_CACHE", "")
	t.Setenv("CFLADDER_HANDLE", "")
}

func codeforcesServer(t *testing.T, userStatus string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/contest.list":
			_, _ = w.Write([]byte(contestsBody))
		case "/problemset.problems":
			_, _ = w.Write([]byte(problemsBody))
		case "/user.status":
			if userStatus == "" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"status":"FAILED","comment":"handle: not found"}`))
				return
			}
			if r.URL.Query().Get("from") != "" {
				// Single record page, newest first.
				_, _ = w.Write([]byte(`{"status":"OK","result":[{"id":2,"problem":{"contestId":1900,"index":"A"},"verdict":"OK"}]}`))
				return
			}
			_, _ = w.Write([]byte(userStatus))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	ctx := context.Background()
	argv := append([]string{"cfladder"}, args...)

	app, err := InitApp(ctx, argv)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err = app.Run(ctx, argv)
	return stdout.String(), stderr.String(), err
}

func TestGen(t *testing.T) {
	isolate(t)
	srv := codeforcesServer(t, submissionsBody)
	out := t.TempDir()

	stdout, _, err := run(t, "gen",
		"--handle", "tourist",
		"--base-url", srv.URL,
		"--rate", "0s",
		"--store", "memory",
		"--out", out,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 3 files")

	b, err := os.ReadFile(filepath.Join(out, "div2", "a.md"))
	require.NoError(t, err)
	assert.Equal(t,
		"No.|Index|Name|Rating|Status\n"+
			":-:|:-:|:-:|:-:|:-:\n"+
			"1|[1900A](https://codeforces.com/problemset/problem/1900/A)|[Cover in Water](https://codeforces.com/problemset/problem/1900/A)|800|Yes\n",
		string(b))

	b, err = os.ReadFile(filepath.Join(out, "div2", "b.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(b), "|900|\n"))

	_, err = os.Stat(filepath.Join(out, "div3", "a.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "div3", "g.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestGen_SubmissionFailureKeepsGoing(t *testing.T) {
	isolate(t)
	srv := codeforcesServer(t, "")
	out := t.TempDir()

	_, _, err := run(t, "gen",
		"--handle", "nobody",
		"--base-url", srv.URL,
		"--rate", "0s",
		"--store", "memory",
		"--out", out,
	)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(out, "div2", "a.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(b), "|800|\n"))
}

func TestGen_UsesFileCache(t *testing.T) {
	isolate(t)
	srv := codeforcesServer(t, submissionsBody)
	out := t.TempDir()

	args := []string{"gen", "--handle", "tourist", "--base-url", srv.URL, "--rate", "0s", "--out", out}
	_, _, err := run(t, args...)
	require.NoError(t, err)

	store := cache.NewFileStore("")
	for _, key := range []string{"contests.list", "problems.list", "tourist.submissions"} {
		_, ok := store.EntryPath(key)
		assert.True(t, ok, key)
	}

	// With the API gone the second run is served from the cache.
	srv.Close()
	_, _, err = run(t, args...)
	require.NoError(t, err)
}

func TestGen_RequiresHandle(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "gen", "--store", "memory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--handle")
}

func TestGen_APIFailure(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _, err := run(t, "gen", "--handle", "tourist", "--base-url", srv.URL, "--rate", "0s", "--store", "memory", "--out", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contests")
}

func TestGen_InvalidSettings(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "gen", "--handle", "tourist", "--store", "s3", "--out", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket")
}

func TestStats_JSON(t *testing.T) {
	isolate(t)
	srv := codeforcesServer(t, submissionsBody)

	stdout, _, err := run(t, "stats",
		"--handle", "tourist",
		"--base-url", srv.URL,
		"--rate", "0s",
		"--store", "memory",
		"--output", "json",
	)
	require.NoError(t, err)

	var got []struct {
		Division int `json:"division"`
		Rows     []struct {
			Rating int `json:"rating"`
			Total  int `json:"total"`
			Solved int `json:"solved"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Division)
	assert.Equal(t, 800, got[0].Rows[0].Rating)
	assert.Equal(t, 1, got[0].Rows[0].Solved)
	assert.Equal(t, 3, got[1].Division)
}

func TestStats_TextDivision(t *testing.T) {
	isolate(t)
	srv := codeforcesServer(t, submissionsBody)

	stdout, _, err := run(t, "stats",
		"--handle", "tourist",
		"--base-url", srv.URL,
		"--rate", "0s",
		"--store", "memory",
		"--division", "2",
		"--no-color",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Division 2: 1 of 2 solved")
	assert.NotContains(t, stdout, "Division 3")
}

func TestStats_DivisionOutOfRange(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "stats", "--handle", "tourist", "--store", "memory", "--division", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 3")
}

func TestStats_BadOutput(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "stats", "--handle", "tourist", "--output", "xml")
	require.Error(t, err)
}

func TestCachePurge(t *testing.T) {
	isolate(t)
	dir := os.Getenv("CFLADDER_CACHE_DIR")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	old := filepath.Join(dir, "contests.list")
	require.NoError(t, os.WriteFile(old, []byte(`{}`), 0o600))
	past := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.list"), []byte(`{}`), 0o600))

	stdout, _, err := run(t, "cache", "purge", "--hours", "24")
	require.NoError(t, err)
	assert.Contains(t, stdout, "removed 1 entries")

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
}

func TestCacheDir(t *testing.T) {
	isolate(t)
	stdout, _, err := run(t, "cache", "dir")
	require.NoError(t, err)
	assert.Equal(t, os.Getenv("CFLADDER_CACHE_DIR")+"\n", stdout)
}

func TestGen_S3Profile(t *testing.T) {
	isolate(t)
	empty := filepath.Join(t.TempDir(), "aws")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	t.Setenv("AWS_CONFIG_FILE", empty)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", empty)
	t.Setenv("AWS_PROFILE", "")

	_, _, err := run(t, "gen",
		"--handle", "tourist",
		"--store", "s3",
		"--bucket", "ladders",
		"--profile", "cfladder-missing",
		"--out", t.TempDir(),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cfladder-missing")
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"complete -F _cfladder cfladder", `compgen -W "purge dir"`, "--profile", `compgen -W "0 1 2 3"`}},
		{"zsh", []string{"compdef _cfladder cfladder", "purge[remove entries older than --hours]", "--profile[AWS profile]", "(0 1 2 3)"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			isolate(t)
			stdout, _, err := run(t, "completion", tt.shell)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, stdout, w)
			}
		})
	}
}

func TestCompletion_UnknownShell(t *testing.T) {
	isolate(t)
	t.Setenv("SHELL", "/bin/fish")
	stdout, stderr, err := run(t, "completion")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "usage: cfladder completion")
}

func TestValidators(t *testing.T) {
	assert.NoError(t, OutputValidator("yaml"))
	assert.Error(t, OutputValidator("raw"))
	assert.NoError(t, StoreValidator("redis"))
	assert.Error(t, StoreValidator("disk"))
	assert.Error(t, FlagValidators("--oops", JammedFlagValidator))
	assert.NoError(t, FlagValidators("tourist", JammedFlagValidator))
}
