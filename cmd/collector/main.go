package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hooplytics/hooprank/internal/app"
	"github.com/hooplytics/hooprank/internal/config"
	"github.com/hooplytics/hooprank/internal/observability"
	"github.com/hooplytics/hooprank/internal/platform/logging"
)

func main() {
	season := flag.String("season", "", "season to collect, e.g. 2023-24 (defaults to the current season)")
	skipRank := flag.Bool("skip-rank", false, "collect game logs without rebuilding the ranking")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = application.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := application.Collect.Run(ctx, *season)
	if err != nil {
		logger.Error("collection failed", "season", *season, "error", err)
		_ = shutdownUptrace(context.Background())
		os.Exit(1)
	}
	logger.Info("collection finished",
		"season", summary.Season,
		"players", summary.CollectedPlayers,
		"rows", summary.Rows,
		"missing", summary.Missing,
	)

	if !*skipRank {
		ranked, err := application.Rank.Run(ctx, summary.Season)
		if err != nil {
			logger.Error("ranking failed", "season", summary.Season, "error", err)
			_ = shutdownUptrace(context.Background())
			os.Exit(1)
		}
		logger.Info("ranking finished", "season", summary.Season, "players", len(ranked))
	}

	if err := shutdownUptrace(context.Background()); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}
}
