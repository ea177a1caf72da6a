// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cfladder/internal/meta"
	"github.com/staranto/cfladder/internal/report"
)

// GenCommandAction writes one markdown ladder per division and letter under
// --out.
func GenCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "gen") {
		return nil
	}

	p, err := NewPipeline(ctx, cmd)
	if err != nil {
		return err
	}

	l, diags, err := p.Ladder(ctx)
	if err != nil {
		return err
	}

	log.Info("generating markdown")
	paths, err := report.WriteAll(p.Settings.OutDir, l)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "wrote %d files with %s problems under %s\n",
		len(paths), humanize.Comma(int64(l.Size())), p.Settings.OutDir)
	if len(diags) > 0 {
		fmt.Fprintf(cmd.Root().ErrWriter, "%d records skipped, set CFLADDER_LOG=warn for details\n", len(diags))
	}

	return nil
}

// GenCommandBuilder constructs the cli.Command definition for "gen".
func GenCommandBuilder(meta meta.Meta) *cli.Command {
	return (&pipelineCommand{
		Name:      "gen",
		Usage:     "generate markdown ladders",
		UsageText: `cfladder gen --handle <handle> [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Usage:   "directory the ladders are written under",
				Sources: sources("gen", "out", meta.ConfigSource(), "CFLADDER_OUT"),
				Value:   ".",
			},
		},
		Action: GenCommandAction,
		Meta:   meta,
	}).Build()
}
