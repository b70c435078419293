package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/hooplytics/hooprank/internal/domain/gamelog"
	"github.com/hooplytics/hooprank/internal/domain/player"
	"github.com/hooplytics/hooprank/internal/platform/logging"
)

type CollectConfig struct {
	Workers          int
	MinGames         int
	MinMinutes       float64
	SweepLimit       int
	FirstPassTries   int
	SecondPassTries  int
	SweepTries       int
	RetrySleepBase   time.Duration
	RetrySleepJitter time.Duration
	ReportDir        string
}

func DefaultCollectConfig() CollectConfig {
	return CollectConfig{
		Workers:          4,
		MinGames:         10,
		MinMinutes:       10.0,
		SweepLimit:       150,
		FirstPassTries:   2,
		SecondPassTries:  4,
		SweepTries:       3,
		RetrySleepBase:   600 * time.Millisecond,
		RetrySleepJitter: 800 * time.Millisecond,
		ReportDir:        ".",
	}
}

func normalizeCollectConfig(cfg CollectConfig) CollectConfig {
	defaults := DefaultCollectConfig()
	if cfg.Workers < 1 {
		cfg.Workers = defaults.Workers
	}
	if cfg.MinGames < 0 {
		cfg.MinGames = defaults.MinGames
	}
	if cfg.MinMinutes < 0 {
		cfg.MinMinutes = defaults.MinMinutes
	}
	if cfg.SweepLimit < 0 {
		cfg.SweepLimit = defaults.SweepLimit
	}
	if cfg.FirstPassTries < 1 {
		cfg.FirstPassTries = defaults.FirstPassTries
	}
	if cfg.SecondPassTries < 1 {
		cfg.SecondPassTries = defaults.SecondPassTries
	}
	if cfg.SweepTries < 1 {
		cfg.SweepTries = defaults.SweepTries
	}
	if cfg.RetrySleepBase < 0 {
		cfg.RetrySleepBase = defaults.RetrySleepBase
	}
	if cfg.RetrySleepJitter < 0 {
		cfg.RetrySleepJitter = defaults.RetrySleepJitter
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = defaults.ReportDir
	}
	return cfg
}

// CollectSummary reports what one collection run produced.
type CollectSummary struct {
	Season           string        `json:"season"`
	Players          int           `json:"players"`
	Targets          int           `json:"targets"`
	CollectedPlayers int           `json:"collected_players"`
	Rows             int           `json:"rows"`
	Games            int           `json:"games"`
	SecondPassSaved  int           `json:"second_pass_saved"`
	SweepSaved       int           `json:"sweep_saved"`
	Missing          int           `json:"missing"`
	ReportPath       string        `json:"report_path,omitempty"`
	Duration         time.Duration `json:"duration"`
}

// CollectService runs the multi-pass game log collection pipeline for one
// season and replaces the stored season dataset when it succeeds.
type CollectService struct {
	provider  StatsProvider
	directory *DirectoryService
	gamelogs  gamelog.Repository
	logger    *logging.Logger
	cfg       CollectConfig
}

func NewCollectService(
	provider StatsProvider,
	directory *DirectoryService,
	gamelogs gamelog.Repository,
	logger *logging.Logger,
	cfg CollectConfig,
) *CollectService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CollectService{
		provider:  provider,
		directory: directory,
		gamelogs:  gamelogs,
		logger:    logger,
		cfg:       normalizeCollectConfig(cfg),
	}
}

// Run executes the pipeline: build the directory, narrow to relevant
// targets, collect game logs in two passes plus a safety sweep, then persist
// the season wholesale. A run that collects zero rows fails without touching
// stored data.
func (s *CollectService) Run(ctx context.Context, season string) (CollectSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "CollectService.Run")
	defer span.End()

	started := time.Now()
	if season == "" {
		season = CurrentSeason(time.Now().UTC())
	}
	if err := ValidateSeason(season); err != nil {
		return CollectSummary{}, err
	}

	directory, err := s.directory.Build(ctx, season)
	if err != nil {
		return CollectSummary{}, err
	}

	aggregates := s.provider.LeagueAggregates(ctx, season)
	relevant := relevantPlayerIDs(aggregates, s.cfg.MinGames, s.cfg.MinMinutes)
	targets := selectTargets(directory, relevant)
	if len(relevant) == 0 {
		s.logger.WarnContext(ctx, "relevance filter is empty, collecting full directory", "season", season, "players", len(directory))
	}

	results := make([][]ExternalGameLogRow, len(targets))

	pending := allIndexes(len(targets))
	s.runPass(ctx, season, targets, results, pending, s.cfg.FirstPassTries)
	missed := missedIndexes(results, pending)
	s.logger.InfoContext(ctx, "first collection pass done", "season", season, "targets", len(targets), "missed", len(missed))

	secondSaved := 0
	if len(missed) > 0 {
		s.runPass(ctx, season, targets, results, missed, s.cfg.SecondPassTries)
		still := missedIndexes(results, missed)
		secondSaved = len(missed) - len(still)
		missed = still
		s.logger.InfoContext(ctx, "second collection pass done", "season", season, "recovered", secondSaved, "missed", len(missed))
	}

	sweepSaved := 0
	if len(missed) > 0 && s.cfg.SweepLimit > 0 {
		sweepIdx := s.sweepIndexes(ctx, season, targets, missed)
		if len(sweepIdx) > 0 {
			s.runPass(ctx, season, targets, results, sweepIdx, s.cfg.SweepTries)
			still := missedIndexes(results, missed)
			sweepSaved = len(missed) - len(still)
			missed = still
		}
		s.logger.InfoContext(ctx, "safety sweep done", "season", season, "candidates", len(sweepIdx), "recovered", sweepSaved, "missed", len(missed))
	}

	rows, collected := flattenRows(season, targets, results)
	if len(rows) == 0 {
		return CollectSummary{}, fmt.Errorf("%w: season %s produced no game logs", ErrNoData, season)
	}

	games := gamelog.BuildGameIndex(season, rows)
	if err := s.gamelogs.ReplaceSeason(ctx, season, rows, games); err != nil {
		return CollectSummary{}, fmt.Errorf("persist game logs season=%s: %w", season, err)
	}

	missingPlayers := make([]player.Player, 0, len(missed))
	for _, i := range missed {
		missingPlayers = append(missingPlayers, targets[i])
	}
	reportPath, err := writeMissingReport(s.cfg.ReportDir, season, missingPlayers)
	if err != nil {
		s.logger.WarnContext(ctx, "write missing ids report failed", "season", season, "error", err)
		reportPath = ""
	}

	summary := CollectSummary{
		Season:           season,
		Players:          len(directory),
		Targets:          len(targets),
		CollectedPlayers: collected,
		Rows:             len(rows),
		Games:            len(games),
		SecondPassSaved:  secondSaved,
		SweepSaved:       sweepSaved,
		Missing:          len(missed),
		ReportPath:       reportPath,
		Duration:         time.Since(started),
	}
	s.logger.InfoContext(ctx, "collection run finished",
		"season", season,
		"targets", summary.Targets,
		"collected_players", summary.CollectedPlayers,
		"rows", summary.Rows,
		"missing", summary.Missing,
		"duration_ms", summary.Duration.Milliseconds(),
	)

	return summary, nil
}

// runPass fetches game logs for the given target indexes on a bounded worker
// pool. Results land at the target's index, so output order never depends on
// completion order.
func (s *CollectService) runPass(ctx context.Context, season string, targets []player.Player, results [][]ExternalGameLogRow, indexes []int, tries int) {
	workers, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		workers = nil
	}
	if workers != nil {
		defer workers.Release()
	}

	var wg sync.WaitGroup
	for _, idx := range indexes {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[idx] = s.fetchWithTries(ctx, targets[idx].ID, season, tries)
		}
		if workers == nil || workers.Submit(task) != nil {
			task()
		}
	}
	wg.Wait()
}

// fetchWithTries is the per-player outer retry: a try counts as missed when
// it yields zero rows, with a short randomized sleep between tries.
func (s *CollectService) fetchWithTries(ctx context.Context, playerID int64, season string, tries int) []ExternalGameLogRow {
	for try := 0; try < tries; try++ {
		rows := s.provider.PlayerGameLog(ctx, playerID, season)
		if len(rows) > 0 {
			return rows
		}
		if try == tries-1 || ctx.Err() != nil {
			break
		}
		sleep := s.cfg.RetrySleepBase
		if s.cfg.RetrySleepJitter > 0 {
			sleep += time.Duration(rand.Float64() * float64(s.cfg.RetrySleepJitter))
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
	return nil
}

// sweepIndexes picks the safety-sweep candidates: refetch the aggregate
// table, keep rows for still-missing targets, order by minutes, points and
// games descending, cap at the sweep limit.
func (s *CollectService) sweepIndexes(ctx context.Context, season string, targets []player.Player, missed []int) []int {
	indexByID := make(map[int64]int, len(missed))
	for _, i := range missed {
		indexByID[targets[i].ID] = i
	}

	aggregates := s.provider.LeagueAggregates(ctx, season)
	candidates := make([]ExternalAggregateRow, 0, len(missed))
	for _, row := range aggregates {
		if _, ok := indexByID[row.PlayerID]; ok {
			candidates = append(candidates, row)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Minutes != candidates[j].Minutes {
			return candidates[i].Minutes > candidates[j].Minutes
		}
		if candidates[i].Points != candidates[j].Points {
			return candidates[i].Points > candidates[j].Points
		}
		return candidates[i].Games > candidates[j].Games
	})

	if len(candidates) > s.cfg.SweepLimit {
		candidates = candidates[:s.cfg.SweepLimit]
	}

	out := make([]int, 0, len(candidates))
	for _, row := range candidates {
		out = append(out, indexByID[row.PlayerID])
	}
	return out
}

// relevantPlayerIDs keeps players meeting the minutes and games floor in the
// league per-game table. An empty table yields an empty set, which widens
// collection to the full directory.
func relevantPlayerIDs(aggregates []ExternalAggregateRow, minGames int, minMinutes float64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(aggregates))
	for _, row := range aggregates {
		if row.Games >= minGames && row.Minutes >= minMinutes {
			out[row.PlayerID] = struct{}{}
		}
	}
	return out
}

// selectTargets intersects the directory with the relevance set, preserving
// directory order. An empty relevance set selects everyone.
func selectTargets(directory []player.Player, relevant map[int64]struct{}) []player.Player {
	if len(relevant) == 0 {
		return directory
	}

	out := make([]player.Player, 0, len(relevant))
	for _, p := range directory {
		if _, ok := relevant[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func allIndexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func missedIndexes(results [][]ExternalGameLogRow, candidates []int) []int {
	out := make([]int, 0, len(candidates))
	for _, i := range candidates {
		if len(results[i]) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// flattenRows concatenates per-target results in target order, tagging every
// row with the season.
func flattenRows(season string, targets []player.Player, results [][]ExternalGameLogRow) ([]gamelog.Row, int) {
	total := 0
	collected := 0
	for _, r := range results {
		if len(r) > 0 {
			collected++
		}
		total += len(r)
	}

	rows := make([]gamelog.Row, 0, total)
	for i := range targets {
		for _, r := range results[i] {
			rows = append(rows, gamelog.Row{
				PlayerID:   r.PlayerID,
				Season:     season,
				GameID:     r.GameID,
				GameDate:   r.GameDate,
				Matchup:    r.Matchup,
				WinLoss:    r.WinLoss,
				Minutes:    r.Minutes,
				Points:     r.Points,
				Rebounds:   r.Rebounds,
				Assists:    r.Assists,
				Steals:     r.Steals,
				Blocks:     r.Blocks,
				ThreesMade: r.ThreesMade,
				FGPct:      r.FGPct,
				FTPct:      r.FTPct,
				Turnovers:  r.Turnovers,
			})
		}
	}

	return rows, collected
}
