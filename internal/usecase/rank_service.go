package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hooplytics/hooprank/internal/domain/gamelog"
	"github.com/hooplytics/hooprank/internal/domain/player"
	"github.com/hooplytics/hooprank/internal/domain/ranking"
	"github.com/hooplytics/hooprank/internal/platform/logging"
)

type RankConfig struct {
	MinGames   int
	MinMinutes float64
	Weights    map[string]float64
}

func DefaultRankConfig() RankConfig {
	return RankConfig{
		MinGames:   10,
		MinMinutes: 10.0,
		Weights:    ranking.DefaultWeights(),
	}
}

// RankService turns a season of stored game logs into a weighted z-score
// ranking.
type RankService struct {
	gamelogs gamelog.Repository
	players  player.Repository
	rankings ranking.Repository
	logger   *logging.Logger
	cfg      RankConfig
}

func NewRankService(
	gamelogs gamelog.Repository,
	players player.Repository,
	rankings ranking.Repository,
	logger *logging.Logger,
	cfg RankConfig,
) (*RankService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinGames < 0 || cfg.MinMinutes < 0 {
		return nil, fmt.Errorf("%w: ranking thresholds must not be negative", ErrInvalidInput)
	}
	if cfg.Weights == nil {
		cfg.Weights = ranking.DefaultWeights()
	}
	if err := ranking.ValidateWeights(cfg.Weights); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return &RankService{
		gamelogs: gamelogs,
		players:  players,
		rankings: rankings,
		logger:   logger,
		cfg:      cfg,
	}, nil
}

// Run ranks the season and replaces the stored ranking table.
func (s *RankService) Run(ctx context.Context, season string) ([]ranking.RankedPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "RankService.Run")
	defer span.End()

	if season == "" {
		season = CurrentSeason(time.Now().UTC())
	}
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}

	rows, err := s.gamelogs.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load game logs season=%s: %w", season, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no game logs stored for season %s", ErrNoData, season)
	}

	directory, err := s.players.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load player directory season=%s: %w", season, err)
	}
	nameByID := make(map[int64]string, len(directory))
	positionByID := make(map[int64]string, len(directory))
	for _, p := range directory {
		nameByID[p.ID] = p.FullName
		positionByID[p.ID] = p.Position
	}

	aggregates := aggregateRows(rows)
	eligible := make([]ranking.Aggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.Games >= s.cfg.MinGames && agg.MinutesPerGame >= s.cfg.MinMinutes {
			eligible = append(eligible, agg)
		}
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: no players pass the games/minutes floor for season %s", ErrNoData, season)
	}

	ranked := scoreAndRank(eligible, s.cfg.Weights)
	for i := range ranked {
		ranked[i].Season = season
		ranked[i].FullName = nameByID[ranked[i].PlayerID]
		ranked[i].Position = positionByID[ranked[i].PlayerID]
	}

	// Dense rank, score descending; exact ties share a rank, names break the
	// display order.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].FullName < ranked[j].FullName
	})
	rank := 0
	prev := math.Inf(1)
	for i := range ranked {
		if ranked[i].Score != prev {
			rank++
			prev = ranked[i].Score
		}
		ranked[i].Rank = rank
	}

	if err := s.rankings.ReplaceSeason(ctx, season, ranked); err != nil {
		return nil, fmt.Errorf("persist rankings season=%s: %w", season, err)
	}

	s.logger.InfoContext(ctx, "season ranked", "season", season, "eligible", len(eligible), "top_score", ranked[0].Score)
	return ranked, nil
}

// aggregateRows computes each player's per-game means. Missing stat cells
// (NaN) stay out of that player's mean; a category with no values at all
// keeps NaN as its mean. Players appear in first-seen order.
func aggregateRows(rows []gamelog.Row) []ranking.Aggregate {
	type accum struct {
		sums     map[string]float64
		counts   map[string]int
		games    map[string]struct{}
		minSum   float64
		minCount int
	}

	order := make([]int64, 0, 512)
	byID := make(map[int64]*accum, 512)

	for _, row := range rows {
		acc, ok := byID[row.PlayerID]
		if !ok {
			acc = &accum{
				sums:   make(map[string]float64, len(ranking.Categories)),
				counts: make(map[string]int, len(ranking.Categories)),
				games:  make(map[string]struct{}, 82),
			}
			byID[row.PlayerID] = acc
			order = append(order, row.PlayerID)
		}

		if row.GameID != "" {
			acc.games[row.GameID] = struct{}{}
		}
		if minutes, ok := gamelog.ParseMinutes(row.Minutes); ok {
			acc.minSum += minutes
			acc.minCount++
		}
		for cat, value := range categoryValues(row) {
			if math.IsNaN(value) {
				continue
			}
			acc.sums[cat] += value
			acc.counts[cat]++
		}
	}

	out := make([]ranking.Aggregate, 0, len(order))
	for _, id := range order {
		acc := byID[id]
		means := make(map[string]float64, len(ranking.Categories))
		for _, cat := range ranking.Categories {
			if acc.counts[cat] == 0 {
				means[cat] = math.NaN()
				continue
			}
			means[cat] = acc.sums[cat] / float64(acc.counts[cat])
		}

		mpg := math.NaN()
		if acc.minCount > 0 {
			mpg = acc.minSum / float64(acc.minCount)
		}

		out = append(out, ranking.Aggregate{
			PlayerID:       id,
			Games:          len(acc.games),
			MinutesPerGame: mpg,
			Means:          means,
		})
	}

	return out
}

func categoryValues(row gamelog.Row) map[string]float64 {
	return map[string]float64{
		ranking.CategoryPoints:     row.Points,
		ranking.CategoryRebounds:   row.Rebounds,
		ranking.CategoryAssists:    row.Assists,
		ranking.CategorySteals:     row.Steals,
		ranking.CategoryBlocks:     row.Blocks,
		ranking.CategoryThreesMade: row.ThreesMade,
		ranking.CategoryFGPct:      row.FGPct,
		ranking.CategoryFTPct:      row.FTPct,
		ranking.CategoryTurnovers:  row.Turnovers,
	}
}

// scoreAndRank z-scores every category across the eligible pool, sums the
// weighted z-scores, then scales each score by games played relative to the
// pool's maximum.
func scoreAndRank(eligible []ranking.Aggregate, weights map[string]float64) []ranking.RankedPlayer {
	out := make([]ranking.RankedPlayer, len(eligible))
	for i, agg := range eligible {
		averages := make(map[string]float64, len(agg.Means))
		for cat, mean := range agg.Means {
			averages[cat] = mean
		}
		out[i] = ranking.RankedPlayer{
			PlayerID:       agg.PlayerID,
			Games:          agg.Games,
			MinutesPerGame: agg.MinutesPerGame,
			Averages:       averages,
			ZScores:        make(map[string]float64, len(ranking.Categories)),
		}
	}

	for _, cat := range ranking.Categories {
		mean, std := meanStd(eligible, cat)
		for i, agg := range eligible {
			value := agg.Means[cat]
			z := 0.0
			if !math.IsNaN(value) && std > 0 {
				z = (value - mean) / std
			}
			out[i].ZScores[cat] = z
			weight, ok := weights[cat]
			if !ok {
				weight = 1.0
			}
			out[i].Score += weight * z
		}
	}

	maxGames := 0
	for _, agg := range eligible {
		if agg.Games > maxGames {
			maxGames = agg.Games
		}
	}
	if maxGames > 0 {
		for i := range out {
			out[i].Score *= float64(out[i].Games) / float64(maxGames)
		}
	}

	return out
}

// meanStd is the sample mean and standard deviation over non-NaN category
// means. Fewer than two values yields a zero stddev, which zeroes the
// category's z-scores.
func meanStd(aggregates []ranking.Aggregate, category string) (float64, float64) {
	values := make([]float64, 0, len(aggregates))
	for _, agg := range aggregates {
		if v := agg.Means[category]; !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	if len(values) < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(values)-1))

	return mean, std
}

// List reads the stored ranking for a season, defaulting to the current one.
func (s *RankService) List(ctx context.Context, season string) ([]ranking.RankedPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "RankService.List")
	defer span.End()

	if season == "" {
		season = CurrentSeason(time.Now().UTC())
	}
	if err := ValidateSeason(season); err != nil {
		return nil, err
	}

	items, err := s.rankings.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list rankings season=%s: %w", season, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no ranking stored for season %s", ErrNotFound, season)
	}

	return items, nil
}
