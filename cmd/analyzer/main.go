package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miru/channelpulse-go/internal/app"
	"github.com/miru/channelpulse-go/internal/config"
	"github.com/miru/channelpulse-go/internal/util"
	"go.uber.org/zap"
)

func main() {
	forceRefresh := flag.Bool("refresh", false, "bypass the report cache")
	timeout := flag.Duration("timeout", 3*time.Minute, "analysis timeout")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: analyzer [flags] <channel ID, @handle or name>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	query := flag.Arg(0)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("ChannelPulse analyzer starting...",
		zap.String("query", query),
		zap.String("log_level", cfg.Logging.Level),
	)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Cancel the in-flight analysis on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	report, err := container.Analyzer.Analyze(ctx, query, *forceRefresh)
	if err != nil {
		logger.Error("Analysis failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Analysis complete",
		zap.String("channel", report.Channel.ID),
		zap.String("data_source", string(report.DataSource)),
		zap.Int("videos_analyzed", report.VideosAnalyzed),
	)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		logger.Error("Failed to encode report", zap.Error(err))
		os.Exit(1)
	}
}
