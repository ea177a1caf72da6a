// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cfladder/internal/cache"
	"github.com/staranto/cfladder/internal/codeforces"
	"github.com/staranto/cfladder/internal/output"
)

const defaultCutoff = 600

var (
	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// sources builds the value chain for a flag: env vars first, then
// <ns>.<name> and <name> from the config file at path.
func sources(ns, name, path string, envs ...string) cli.ValueSourceChain {
	var chain []cli.ValueSource
	for _, e := range envs {
		chain = append(chain, cli.EnvVar(e))
	}
	if path != "" {
		if ns != "" {
			chain = append(chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
		}
		chain = append(chain, yaml.YAML(name, altsrc.StringSourcer(path)))
	}
	return cli.NewValueSourceChain(chain...)
}

// NewOutputFlags are the flags shared by commands that print result sets.
func NewOutputFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: sources(ns, "color", path),
			Value:   output.IsTerminal(os.Stdout),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml)",
			Sources: sources(ns, "output", path),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: sources(ns, "titles", path),
			Value:   true,
		},
	}
}

// NewPipelineFlags are the flags that drive fetching and joining.
func NewPipelineFlags(ns, path string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "handle",
			Aliases: []string{"u"},
			Usage:   "Codeforces handle whose submissions mark problems solved",
			Sources: sources(ns, "handle", path, "CFLADDER_HANDLE"),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.IntFlag{
			Name:    "cutoff",
			Usage:   "only contests with an id above this are considered",
			Sources: sources(ns, "cutoff", path, "CFLADDER_CUTOFF"),
			Value:   defaultCutoff,
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "how long fetched data stays fresh",
			Sources: sources(ns, "cache-ttl", path, "CFLADDER_CACHE_TTL"),
			Value:   cache.DefaultTTL,
		},
		&cli.IntFlag{
			Name:    "max-pages",
			Usage:   "upper bound on single record pages when topping up submissions",
			Sources: sources(ns, "max-pages", path),
			Value:   codeforces.DefaultMaxPages,
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Codeforces API base URL",
			Sources: sources(ns, "base-url", path, "CFLADDER_BASE_URL"),
			Value:   codeforces.DefaultBaseURL,
		},
		&cli.DurationFlag{
			Name:    "rate",
			Usage:   "minimum gap between API calls, 0 to disable",
			Sources: sources(ns, "rate", path),
			Value:   codeforces.DefaultRate,
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "cache backend (file, memory, s3, redis)",
			Sources: sources(ns, "store", path, "CFLADDER_STORE"),
			Value:   "file",
			Validator: func(value string) error {
				return FlagValidators(value, StoreValidator)
			},
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "S3 bucket for --store=s3",
			Sources: sources(ns, "bucket", path, "CFLADDER_BUCKET"),
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "key prefix for the s3 and redis stores",
			Sources: sources(ns, "prefix", path),
			Value:   "cfladder/",
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile for --store=s3",
			Sources: sources(ns, "profile", path, "AWS_PROFILE"),
		},
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region for --store=s3",
			Sources: sources(ns, "region", path, "AWS_REGION"),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "S3 compatible endpoint for --store=s3",
			Sources: sources(ns, "endpoint", path, "CFLADDER_S3_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "host:port for --store=redis",
			Sources: sources(ns, "redis-addr", path, "CFLADDER_REDIS_ADDR", "REDIS_ADDR"),
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "password for --store=redis",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CFLADDER_REDIS_PASSWORD")),
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "database number for --store=redis",
			Sources: sources(ns, "redis-db", path),
		},
	}
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
