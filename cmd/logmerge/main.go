package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"logmerge/internal/config"
	"logmerge/internal/infrastructure"
	"logmerge/internal/operations"
)

func main() {
	interval := flag.Int("interval", -1, "downsample interval in seconds, one of 0 5 10 30 60 300 600 (defaults to config)")
	policy := flag.String("policy", "", "dedup policy: timestamp or row (defaults to config)")
	output := flag.String("o", "filtered_interval_data.csv", "output CSV path")
	configFile := flag.String("config", "config.yaml", "optional YAML config file")
	quiet := flag.Bool("q", false, "suppress progress output")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: logmerge [flags] file.csv [file.csv ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logmerge: %v\n", err)
		os.Exit(1)
	}
	logger := infrastructure.InitializeLogger(cfg.Logging)

	var opts operations.Options
	if *interval >= 0 {
		if !config.ValidInterval(*interval) {
			fmt.Fprintf(os.Stderr, "logmerge: interval must be one of %v\n", config.Intervals)
			os.Exit(2)
		}
		opts.IntervalSeconds = interval
	}
	if *policy != "" {
		if *policy != config.DedupTimestamp && *policy != config.DedupRow {
			fmt.Fprintln(os.Stderr, "logmerge: policy must be timestamp or row")
			os.Exit(2)
		}
		opts.DedupPolicy = *policy
	}

	files := make([]operations.InputFile, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read input file", slog.String("path", path), slog.Any("error", err))
			os.Exit(1)
		}
		files = append(files, operations.InputFile{Name: path, Data: data})
	}

	var observer operations.Observer
	if !*quiet {
		observer = func(stage operations.Stage, fraction float64, message string) {
			fmt.Fprintf(os.Stderr, "[%3.0f%%] %-10s %s\n", fraction*100, stage, message)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := operations.NewRunner(cfg.Pipeline, logger, observer)
	result, err := runner.Run(ctx, files, opts)
	if result != nil {
		for _, d := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "warning: %s\n", d.Error())
		}
	}
	if err != nil {
		logger.Error("batch failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := os.WriteFile(*output, result.CSV, 0644); err != nil {
		logger.Error("failed to write output", slog.String("path", *output), slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", result.Rows, *output)
}
