// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cfladder/internal/aws"
	"github.com/staranto/cfladder/internal/cache"
	"github.com/staranto/cfladder/internal/codeforces"
	"github.com/staranto/cfladder/internal/config"
	"github.com/staranto/cfladder/internal/fetch"
	"github.com/staranto/cfladder/internal/ladder"
	"github.com/staranto/cfladder/internal/meta"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr cfladder-<subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "cfladder-"+subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// SettingsFromCommand collects the pipeline flags and validates them.
func SettingsFromCommand(cmd *cli.Command) (config.Settings, error) {
	s := config.Settings{
		Handle:    cmd.String("handle"),
		Cutoff:    cmd.Int("cutoff"),
		OutDir:    cmd.String("out"),
		CacheTTL:  cmd.Duration("cache-ttl"),
		MaxPages:  cmd.Int("max-pages"),
		BaseURL:   cmd.String("base-url"),
		Store:     cmd.String("store"),
		Bucket:    cmd.String("bucket"),
		Prefix:    cmd.String("prefix"),
		RedisAddr: cmd.String("redis-addr"),
		Rate:      cmd.Duration("rate"),
	}
	if s.OutDir == "" {
		s.OutDir = "."
	}
	log.Debugf("settings: %+v", s)
	return s, s.Validate()
}

// NewStore builds the cache backend named by s.Store.
func NewStore(ctx context.Context, cmd *cli.Command, s config.Settings) (cache.Store, error) {
	switch s.Store {
	case "memory":
		return cache.NewMemoryStore(0, s.CacheTTL), nil
	case "s3":
		client, err := aws.NewS3(ctx,
			aws.WithProfile(cmd.String("profile")),
			aws.WithRegion(cmd.String("region")),
			aws.WithEndpoint(cmd.String("endpoint")),
		)
		if err != nil {
			return nil, err
		}
		return cache.NewS3Store(client, s.Bucket, s.Prefix), nil
	case "redis":
		client, err := cache.DialRedis(ctx, s.RedisAddr, cmd.String("redis-password"), cmd.Int("redis-db"))
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client, s.Prefix, s.CacheTTL), nil
	default:
		return cache.NewFileStore(""), nil
	}
}

// Pipeline is the fetch and join step shared by gen and stats.
type Pipeline struct {
	Settings config.Settings
	Source   *fetch.Source
}

// NewPipeline resolves settings, store and client from cmd.
func NewPipeline(ctx context.Context, cmd *cli.Command) (*Pipeline, error) {
	s, err := SettingsFromCommand(cmd)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(ctx, cmd, s)
	if err != nil {
		return nil, err
	}

	client := codeforces.NewClient(s.BaseURL, codeforces.WithRate(s.Rate))
	src := fetch.New(client, store,
		fetch.WithMaxAge(s.CacheTTL),
		fetch.WithMaxPages(s.MaxPages),
	)

	return &Pipeline{Settings: s, Source: src}, nil
}

// Ladder fetches everything and joins it. Contest and problem failures are
// fatal. A submission failure only costs the status column, and is logged.
func (p *Pipeline) Ladder(ctx context.Context) (ladder.Ladder, []ladder.Diagnostic, error) {
	log.Infof("loading contests after #%d", p.Settings.Cutoff)
	contests, err := p.Source.Contests(ctx)
	if err != nil {
		return ladder.Ladder{}, nil, err
	}

	problems, err := p.Source.Problemset(ctx)
	if err != nil {
		return ladder.Ladder{}, nil, err
	}

	submissions, err := p.Source.Submissions(ctx, p.Settings.Handle)
	if err != nil {
		log.WithError(err).Warnf("continuing with %d submissions", len(submissions))
	}

	l, diags := ladder.Build(ladder.Input{
		Contests:    contests,
		Problemset:  problems,
		Submissions: submissions,
		Cutoff:      p.Settings.Cutoff,
	})

	for _, d := range diags {
		log.Warnf("skipped %s", d)
	}
	for _, key := range l.Keys() {
		log.Infof("%s %d problems loaded", key, len(l.Groups[key]))
	}

	return l, diags, nil
}

// pipelineCommand is the skeleton shared by gen and stats.
type pipelineCommand struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command.
func (pc *pipelineCommand) Build() *cli.Command {
	flags := append(pc.Flags, tldrFlag)
	flags = append(flags, NewPipelineFlags(pc.Name, pc.Meta.ConfigSource())...)

	return &cli.Command{
		Name:      pc.Name,
		Usage:     pc.Usage,
		UsageText: pc.UsageText,
		Metadata: map[string]any{
			"meta": pc.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("tldr") {
				return ctx, nil
			}
			if c.String("handle") == "" {
				return ctx, fmt.Errorf("--handle is required (or set CFLADDER_HANDLE)")
			}
			return ctx, nil
		},
		Action: pc.Action,
	}
}
