// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

// docgen turns docs/commands/<cmd>.md into
//   - docs/man/share/man1/cfladder-<cmd>.1 (md2man of the whole page)
//   - docs/tldr/cfladder-<cmd>.md (summary plus the Quick examples block)

const project = "cfladder"

func main() {
	var (
		root          string
		onlyIfChanged bool
	)

	flag.StringVar(&root, "root", ".", "repo root")
	flag.BoolVar(&onlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	commandsDir := filepath.Join(root, "docs", "commands")
	manDir := filepath.Join(root, "docs", "man", "share", "man1")
	tldrDir := filepath.Join(root, "docs", "tldr")

	for _, d := range []string{manDir, tldrDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			fatalf("creating %s: %v", d, err)
		}
	}

	entries, err := os.ReadDir(commandsDir)
	if err != nil {
		fatalf("reading commands dir %s: %v", commandsDir, err)
	}

	var processed int
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		cmd := strings.TrimSuffix(e.Name(), ".md")
		raw, err := os.ReadFile(filepath.Join(commandsDir, e.Name()))
		if err != nil {
			fatalf("reading %s: %v", e.Name(), err)
		}

		manPath := filepath.Join(manDir, fmt.Sprintf("%s-%s.1", project, cmd))
		if err := writeFileIfChanged(manPath, md2man.Render(raw), onlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd, err)
		}

		page := Page{
			Command:  cmd,
			Title:    title(string(raw)),
			Summary:  summary(string(raw)),
			Examples: examples(string(raw)),
		}
		tldrPath := filepath.Join(tldrDir, fmt.Sprintf("%s-%s.md", project, cmd))
		if err := writeFileIfChanged(tldrPath, []byte(page.TLDR()), onlyIfChanged); err != nil {
			fatalf("writing TLDR for %s: %v", cmd, err)
		}

		processed++
	}

	if processed == 0 {
		fatalf("no command markdown found under %s", commandsDir)
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, content []byte, onlyIfChanged bool) error {
	if onlyIfChanged {
		old, err := os.ReadFile(path)
		switch {
		case err == nil && bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)):
			return nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// Page is what a tldr page is built from.
type Page struct {
	Command  string
	Title    string
	Summary  string
	Examples []Example
}

// Example is one described command line.
type Example struct {
	Desc string
	Cmd  string
}

func title(md string) string {
	if m := h1Re.FindStringSubmatch(md); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// summary is the first paragraph of the "Short description" section.
func summary(md string) string {
	idx := strings.Index(strings.ToLower(md), "short description")
	if idx < 0 {
		return ""
	}
	rest := md[idx:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}

	var words []string
	for _, ln := range strings.Split(rest, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			if len(words) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(ln, "#") {
			break
		}
		words = append(words, ln)
	}
	return strings.Join(words, " ")
}

// examples reads the first fenced block after "Quick examples". A comment
// line describes the command line that follows it.
func examples(md string) []Example {
	idx := strings.Index(strings.ToLower(md), "quick examples")
	if idx < 0 {
		return nil
	}
	rest := md[idx:]

	const fence = "```"
	start := strings.Index(rest, fence)
	if start < 0 {
		return nil
	}
	rest = rest[start+len(fence):]
	// Drop the info string, e.g. ```sh
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, fence)
	if end < 0 {
		return nil
	}

	var (
		out  []Example
		desc string
	)
	for _, ln := range strings.Split(rest[:end], "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
		case strings.HasPrefix(ln, "#"):
			desc = strings.TrimSpace(strings.TrimLeft(ln, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			out = append(out, Example{Desc: desc, Cmd: strings.Join(strings.Fields(ln), " ")})
			desc = ""
		}
	}
	return out
}

// TLDR renders the page in tldr-pages format.
func (p Page) TLDR() string {
	var b strings.Builder
	b.WriteString("# " + project + "-" + p.Command + "\n\n")

	switch {
	case p.Summary != "":
		b.WriteString("> " + p.Summary + "\n")
	case p.Title != "":
		b.WriteString("> " + p.Title + "\n")
	default:
		b.WriteString("> " + project + " " + p.Command + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/cfladder.\n\n")

	exs := p.Examples
	if len(exs) == 0 {
		exs = []Example{{Desc: "Show help for the command", Cmd: project + " " + p.Command + " --help"}}
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + ex.Desc + ":\n\n")
		b.WriteString("`" + ex.Cmd + "`\n")
	}
	return b.String()
}
