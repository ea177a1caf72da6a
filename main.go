// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/joho/godotenv"

	"github.com/staranto/cfladder/internal/command"
	"github.com/staranto/cfladder/internal/config"
	mylog "github.com/staranto/cfladder/internal/log"
	"github.com/staranto/cfladder/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	// A .env in the working directory may carry CFLADDER_* settings. It never
	// overrides the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
	}

	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands an @set argument into the flags stored under
// <command>.<set> in the config file. Without an explicit @set the
// "defaults" set is used when it exists.
func mangleArguments(args []string) []string {
	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(args[:2:2], "--help")
		}
	}

	if strings.HasPrefix(args[1], "-") {
		return args
	}

	out := make([]string, 0, len(args))
	out = append(out, args[:2]...)

	set := "defaults"
	for _, a := range args[2:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
		}
	}

	if _, err := config.Load(args[1]); err == nil {
		setArgs, _ := config.GetStringSlice(args[1] + "." + set)
		for _, arg := range setArgs {
			out = append(out, strings.Fields(arg)...)
		}
	}

	for _, a := range args[2:] {
		if !strings.HasPrefix(a, "@") {
			out = append(out, a)
		}
	}

	log.Debugf("set=%s, args=%v", set, out)
	return out
}
