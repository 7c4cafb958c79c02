// Copyright 2025 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/someonegg/popmatch"
	"github.com/someonegg/popmatch/simulation"
)

type runOutputs struct {
	dump        bool
	summaryFile string
	metricsFile string
	traceFile   string
}

func doRun(ctx context.Context, cfg simulation.Config, out runOutputs) error {
	logger := newLogger(cfg)

	reg := prometheus.NewRegistry()
	opts := []simulation.Option{
		simulation.WithLogger(logger),
		simulation.WithMetrics(simulation.NewMetrics(reg)),
	}

	if out.traceFile != "" {
		f, err := os.Create(out.traceFile)
		if err != nil {
			return fmt.Errorf("create trace file failed: %w", err)
		}
		defer f.Close()

		exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			return fmt.Errorf("create trace exporter failed: %w", err)
		}
		provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				logger.Warn("trace provider shutdown failed", slog.String("error", err.Error()))
			}
		}()
		opts = append(opts, simulation.WithTracer(provider.Tracer("matchsim")))
	}

	fmt.Println("Preparing the simulation data...")
	sim, err := simulation.New(cfg, opts...)
	if err != nil {
		return err
	}

	fmt.Println("Simulating...")
	summary, err := sim.Run(ctx, func(r simulation.RoundResult) {
		printStatistics(os.Stdout, r.Stats)
		fmt.Printf("Simulation completed in %.3f seconds. %d/%d\n",
			r.Report.Duration.Seconds(), r.Round, cfg.Rounds)
	})
	if err != nil {
		return fmt.Errorf("simulate failed: %w", err)
	}

	if out.dump {
		printPopulation(os.Stdout, sim.Population())
	}

	if out.summaryFile != "" {
		if err := writeSummary(out.summaryFile, summary); err != nil {
			return fmt.Errorf("write summary file failed: %w", err)
		}
	}

	if out.metricsFile != "" {
		if err := prometheus.WriteToTextfile(out.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics file failed: %w", err)
		}
	}

	return nil
}

func doDump(cfg simulation.Config) error {
	sim, err := simulation.New(cfg, simulation.WithLogger(newLogger(cfg)))
	if err != nil {
		return err
	}
	printPopulation(os.Stdout, sim.Population())
	return nil
}

func newLogger(cfg simulation.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
}

func printStatistics(w io.Writer, s popmatch.Stats) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "Males that do not have a match: %d/%d\n", s.Proposers.Unmatched(), s.Proposers.Total)
	fmt.Fprintf(w, "Females that do not have a match: %d/%d\n", s.Responders.Unmatched(), s.Responders.Total)
	fmt.Fprintf(w, "Males that have a match: %d/%d\n", s.Proposers.Matched, s.Proposers.Total)
	fmt.Fprintf(w, "Females that have a match: %d/%d\n", s.Responders.Matched, s.Responders.Total)
	fmt.Fprintf(w, "Mutual pairs: %d, stale males: %d, stale females: %d\n",
		s.MutualPairs, s.StaleProposers, s.StaleResponders)

	fmt.Fprintln(w, "Descriptions:")
	fmt.Fprintf(w, "In this simulation, %s\n", s.Imbalance)
	fmt.Fprintf(w, "%.2f%% of individuals were never matched.\n", s.UnmatchedPercent)
}

func printPopulation(w io.Writer, pop *popmatch.Population) {
	sides := []struct {
		title string
		elems []popmatch.Individual
	}{
		{"Male Population: ", pop.Proposers()},
		{"Female Population: ", pop.Responders()},
	}
	for _, side := range sides {
		fmt.Fprintln(w, side.title)
		for i := range side.elems {
			fmt.Fprintln(w, "===================")
			fmt.Fprintln(w, side.elems[i].String())
		}
	}
}

func writeSummary(file string, summary simulation.Summary) error {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "   ")
	if err := encoder.Encode(summary); err != nil {
		return err
	}

	return os.WriteFile(file, buf.Bytes(), 0644)
}
