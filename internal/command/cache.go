// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cfladder/internal/cache"
	"github.com/staranto/cfladder/internal/config"
	"github.com/staranto/cfladder/internal/meta"
)

// CachePurgeAction removes file cache entries older than --hours.
func CachePurgeAction(ctx context.Context, cmd *cli.Command) error {
	store := cache.NewFileStore(cmd.String("dir"))
	hours := cmd.Int("hours")
	log.Debugf("purging %s, hours=%d", store.Root(), hours)

	n, err := store.Purge(time.Duration(hours) * time.Hour)
	if err != nil {
		return fmt.Errorf("failed to purge %s: %w", store.Root(), err)
	}

	fmt.Fprintf(cmd.Root().Writer, "removed %d entries from %s\n", n, store.Root())
	return nil
}

// CacheDirAction prints where the file cache lives.
func CacheDirAction(ctx context.Context, cmd *cli.Command) error {
	dir, ok := cache.Dir()
	if !ok || !cache.Enabled() {
		fmt.Fprintln(cmd.Root().Writer, "file cache disabled")
		return nil
	}
	fmt.Fprintln(cmd.Root().Writer, dir)
	return nil
}

// CacheCommandBuilder constructs the "cache" command and its subcommands.
func CacheCommandBuilder(meta meta.Meta) *cli.Command {
	clean, _ := config.GetInt("cache.clean", int(cache.DefaultTTL/time.Hour))

	return &cli.Command{
		Name:  "cache",
		Usage: "manage the local file cache",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:      "purge",
				Usage:     "remove cache entries older than --hours",
				UsageText: `cfladder cache purge [--hours N]`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Usage: "age in hours past which entries are removed, 0 disables",
						Value: clean,
					},
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "cache directory",
						Sources: cli.NewValueSourceChain(cli.EnvVar("CFLADDER_CACHE_DIR")),
					},
				},
				Action: CachePurgeAction,
			},
			{
				Name:   "dir",
				Usage:  "print the cache directory",
				Action: CacheDirAction,
			},
		},
	}
}
