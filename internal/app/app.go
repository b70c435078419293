package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/hooplytics/hooprank/external/nbastats"
	"github.com/hooplytics/hooprank/internal/config"
	"github.com/hooplytics/hooprank/internal/domain/player"
	"github.com/hooplytics/hooprank/internal/domain/ranking"
	cachedrepo "github.com/hooplytics/hooprank/internal/infrastructure/repository/cache"
	"github.com/hooplytics/hooprank/internal/infrastructure/repository/postgres"
	"github.com/hooplytics/hooprank/internal/interfaces/httpapi"
	"github.com/hooplytics/hooprank/internal/platform/cache"
	"github.com/hooplytics/hooprank/internal/platform/logging"
	"github.com/hooplytics/hooprank/internal/platform/resilience"
	"github.com/hooplytics/hooprank/internal/usecase"
)

// App holds the wired services behind both the HTTP API and the one-shot
// collector binary.
type App struct {
	Config  config.Config
	Logger  *logging.Logger
	Collect *usecase.CollectService
	Rank    *usecase.RankService

	db     *sqlx.DB
	router http.Handler
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	var playerRepo player.Repository = postgres.NewPlayerRepository(db)
	gamelogRepo := postgres.NewGameLogRepository(db)
	var rankingRepo ranking.Repository = postgres.NewRankingRepository(db)
	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		playerRepo = cachedrepo.NewPlayerRepository(playerRepo, store)
		rankingRepo = cachedrepo.NewRankingRepository(rankingRepo, store)
	}

	statsClient := nbastats.NewClient(nbastats.ClientConfig{
		BaseURL:    cfg.StatsBaseURL,
		Timeout:    cfg.StatsTimeout,
		MaxRetries: cfg.StatsMaxRetries,
		Retry: resilience.RetryConfig{
			MaxAttempts:  cfg.StatsRetryAttempts,
			InitialDelay: cfg.StatsRetryInitialDelay,
			MaxDelay:     cfg.StatsRetryMaxDelay,
			Jitter:       cfg.StatsRetryJitter,
		},
		Logger: logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsCircuitEnabled,
			FailureThreshold: cfg.StatsCircuitFailureCount,
			OpenTimeout:      cfg.StatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsCircuitHalfOpenMax,
		},
		Pacer: resilience.NewPacer(cfg.StatsPaceBase, cfg.StatsPaceJitter),
	})

	directorySvc := usecase.NewDirectoryService(statsClient, playerRepo, logger, cfg.CollectProfileWorkers)
	collectSvc := usecase.NewCollectService(statsClient, directorySvc, gamelogRepo, logger, usecase.CollectConfig{
		Workers:          cfg.CollectWorkers,
		MinGames:         cfg.CollectMinGames,
		MinMinutes:       cfg.CollectMinMinutes,
		SweepLimit:       cfg.CollectSweepLimit,
		FirstPassTries:   cfg.CollectFirstPassTries,
		SecondPassTries:  cfg.CollectSecondPassTries,
		SweepTries:       cfg.CollectSweepTries,
		RetrySleepBase:   cfg.CollectRetrySleepBase,
		RetrySleepJitter: cfg.CollectRetrySleepJitter,
		ReportDir:        cfg.CollectReportDir,
	})
	rankSvc, err := usecase.NewRankService(gamelogRepo, playerRepo, rankingRepo, logger, usecase.RankConfig{
		MinGames:   cfg.CollectMinGames,
		MinMinutes: cfg.CollectMinMinutes,
		Weights:    rankWeights(cfg.RankingWeights),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build rank service: %w", err)
	}

	handler := httpapi.NewHandler(collectSvc, rankSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Collect: collectSvc,
		Rank:    rankSvc,
		db:      db,
		router:  router,
	}, nil
}

func (a *App) HTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      a.router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// rankWeights overlays configured overrides on the default category weights.
func rankWeights(overrides map[string]float64) map[string]float64 {
	weights := ranking.DefaultWeights()
	for category, weight := range overrides {
		weights[category] = weight
	}

	return weights
}
