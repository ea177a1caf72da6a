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
	"github.com/staranto/cfladder/internal/output"
	"github.com/staranto/cfladder/internal/stats"
)

var statsColumns = []output.Column{
	{Key: "rating", Title: "RATING"},
	{Key: "total", Title: "TOTAL"},
	{Key: "solved", Title: "SOLVED"},
}

// StatsCommandAction prints how many problems of each rating exist and how
// many of them the handle has solved, per division.
func StatsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, "stats") {
		return nil
	}

	p, err := NewPipeline(ctx, cmd)
	if err != nil {
		return err
	}

	l, _, err := p.Ladder(ctx)
	if err != nil {
		return err
	}

	divs := stats.Only(stats.Summarize(l), cmd.Int("division"))
	opts := output.OptionsFromCommand(cmd)
	w := cmd.Root().Writer

	if opts.Format != "text" {
		return output.Spit(w, divs, nil, nil, opts)
	}

	for i, d := range divs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		total, solved := d.Totals()
		if opts.Titles {
			fmt.Fprintf(w, "Division %d: %s of %s solved\n", d.Division, humanize.Comma(int64(solved)), humanize.Comma(int64(total)))
		}
		if err := output.Spit(w, d, rowsOf(d), statsColumns, opts); err != nil {
			return err
		}
	}

	return nil
}

func rowsOf(d stats.Division) []map[string]any {
	rows := make([]map[string]any, 0, len(d.Rows))
	for _, r := range d.Rows {
		rows = append(rows, map[string]any{
			"rating": r.Rating,
			"total":  r.Total,
			"solved": r.Solved,
		})
	}
	return rows
}

// StatsCommandBuilder constructs the cli.Command definition for "stats".
func StatsCommandBuilder(meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "division",
			Aliases: []string{"d"},
			Usage:   "only show this division (1-3), 0 for all",
			Validator: func(v int) error {
				if v < 0 || v > 3 {
					return fmt.Errorf("must be between 0 and 3")
				}
				return nil
			},
		},
	}
	flags = append(flags, NewOutputFlags("stats", meta.ConfigSource())...)

	return (&pipelineCommand{
		Name:      "stats",
		Usage:     "summarize solved problems per division (1-3) and rating",
		UsageText: `cfladder stats --handle <handle> [options]`,
		Flags:     flags,
		Action:    StatsCommandAction,
		Meta:      meta,
	}).Build()
}
