// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/someonegg/popmatch/simulation"
)

func main() {
	app := &cli.App{
		Name:  "matchsim",
		Usage: "Simulate repeated greedy matching between two populations",
		Commands: []*cli.Command{
			runCmd,
			dumpCmd,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Println("Error: ", err)
		stop()
		os.Exit(1)
	}
}

var configFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "specify the config file (yaml)",
	},
	&cli.IntFlag{
		Name:  "size",
		Usage: "specify the total population size",
	},
	&cli.IntFlag{
		Name:  "complexity",
		Usage: "specify the preference complexity (1-127)",
	},
	&cli.Float64SliceFlag{
		Name:  "weights",
		Usage: "specify predefined weights shared by everyone, one per attribute",
	},
	&cli.Int64Flag{
		Name:  "seed",
		Usage: "specify the random seed (0 for time based)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log at debug level",
	},
}

var runCmd = &cli.Command{
	Name:    "run",
	Usage:   "Run the matching rounds and print statistics after each",
	Aliases: []string{"r"},
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "rounds",
			Usage: "specify the number of rounds",
		},
		&cli.IntFlag{
			Name:  "shards",
			Usage: "specify the number of independent shards matched in parallel",
		},
		&cli.BoolFlag{
			Name:  "shuffle",
			Usage: "visit proposers in a random order every round",
		},
		&cli.BoolFlag{
			Name:  "clear-stale",
			Usage: "unmatch individuals whose partner moved on",
		},
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "print every individual after the last round",
		},
		&cli.StringFlag{
			Name:  "summary",
			Usage: "specify the output summary.json",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "specify the output prometheus text file",
		},
		&cli.StringFlag{
			Name:  "trace-file",
			Usage: "specify the output trace file",
		},
	}, configFlags...),
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		return doRun(ctx.Context, cfg, runOutputs{
			dump:        ctx.Bool("dump"),
			summaryFile: ctx.String("summary"),
			metricsFile: ctx.String("metrics-file"),
			traceFile:   ctx.String("trace-file"),
		})
	},
}

var dumpCmd = &cli.Command{
	Name:    "dump",
	Usage:   "Generate a population and print every individual",
	Aliases: []string{"d"},
	Flags:   configFlags,
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		return doDump(cfg)
	},
}

func loadConfig(ctx *cli.Context) (simulation.Config, error) {
	cfg, err := simulation.LoadConfig(ctx.String("config"))
	if err != nil {
		return cfg, err
	}

	if ctx.IsSet("size") {
		cfg.PopulationSize = ctx.Int("size")
	}
	if ctx.IsSet("complexity") {
		cfg.Complexity = ctx.Int("complexity")
	}
	if ctx.IsSet("weights") {
		cfg.Weights = ctx.Float64Slice("weights")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("rounds") {
		cfg.Rounds = ctx.Int("rounds")
	}
	if ctx.IsSet("shards") {
		cfg.Shards = ctx.Int("shards")
	}
	if ctx.IsSet("shuffle") {
		cfg.Shuffle = ctx.Bool("shuffle")
	}
	if ctx.IsSet("clear-stale") {
		cfg.ClearStale = ctx.Bool("clear-stale")
	}
	if ctx.Bool("verbose") {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
