// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/gosimple/slug"

	"github.com/staranto/cfladder/internal/codeforces"
	"github.com/staranto/cfladder/internal/ladder"
)

const (
	Header    = "No.|Index|Name|Rating|Status\n"
	Alignment = ":-:|:-:|:-:|:-:|:-:\n"

	solvedMark = "Yes"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

// Render writes one markdown table for entries, which must already be in
// ladder order.
func Render(w io.Writer, entries []ladder.Entry, statuses map[ladder.ProblemKey]ladder.Status) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(Header + Alignment); err != nil {
		return err
	}

	for i, e := range entries {
		p := e.Problem
		url := codeforces.ProblemURL(p.ContestID, p.Index)

		status := ""
		if statuses[e.Key()] == ladder.Solved {
			status = solvedMark
		}

		_, err := fmt.Fprintf(bw, "%d|[%d%s](%s)|[%s](%s)|%d|%s\n",
			i+1, p.ContestID, e.Letter(), url, cellEscaper.Replace(p.Name), url, e.Rating(), status)
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Path maps a group key to its relative file path. "Div. 1/A" becomes
// "div1/a.md".
func Path(key ladder.GroupKey) string {
	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, slug.Make(key.String()))

	if len(name) <= 4 {
		return filepath.Join(name, "index.md")
	}
	return filepath.Join(name[:4], name[4:]+".md")
}

// WriteAll renders every group of l under root and returns the paths written,
// in key order.
func WriteAll(root string, l ladder.Ladder) ([]string, error) {
	var written []string

	for _, key := range l.Keys() {
		path := filepath.Join(root, Path(key))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}

		if err := writeFile(path, l.Groups[key], l.Statuses); err != nil {
			return written, err
		}

		log.Debugf("wrote %s (%d problems)", path, len(l.Groups[key]))
		written = append(written, path)
	}

	return written, nil
}

func writeFile(path string, entries []ladder.Entry, statuses map[ladder.ProblemKey]ladder.Status) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Render(f, entries, statuses); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}
