package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/hooplytics/hooprank/internal/domain/player"
	"github.com/hooplytics/hooprank/internal/platform/logging"
)

const defaultProfileWorkers = 4

// DirectoryService maintains the season player directory: the active roster,
// enriched with positions, merged against the previous snapshot.
type DirectoryService struct {
	provider StatsProvider
	players  player.Repository
	logger   *logging.Logger
	workers  int
}

func NewDirectoryService(provider StatsProvider, players player.Repository, logger *logging.Logger, profileWorkers int) *DirectoryService {
	if logger == nil {
		logger = logging.Default()
	}
	if profileWorkers < 1 {
		profileWorkers = defaultProfileWorkers
	}

	return &DirectoryService{
		provider: provider,
		players:  players,
		logger:   logger,
		workers:  profileWorkers,
	}
}

// Build fetches the season roster, enriches each player's position, carries
// stored positions forward over empty fresh ones, and persists the merged
// snapshot. The returned slice preserves the provider's roster order.
func (s *DirectoryService) Build(ctx context.Context, season string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "DirectoryService.Build")
	defer span.End()

	if err := ValidateSeason(season); err != nil {
		return nil, err
	}

	index := s.provider.PlayerIndex(ctx, season)
	if len(index) == 0 {
		return nil, fmt.Errorf("%w: player index is empty for season %s", ErrDependencyUnavailable, season)
	}

	fresh := make([]player.Player, len(index))
	for i, item := range index {
		fresh[i] = player.Player{
			ID:        item.ID,
			FullName:  item.FullName,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Season:    season,
		}
	}

	workers := pool.New().WithMaxGoroutines(s.workers)
	for i := range fresh {
		workers.Go(func() {
			profile := s.provider.PlayerProfile(ctx, fresh[i].ID)
			fresh[i].Position = strings.TrimSpace(profile.Position)
		})
	}
	workers.Wait()

	stored, err := s.players.ListBySeason(ctx, season)
	if err != nil {
		s.logger.WarnContext(ctx, "load stored directory failed, building without carry-forward", "season", season, "error", err)
		stored = nil
	}
	if len(stored) == 0 {
		stored = s.previousSeasonSnapshot(ctx, season)
	}

	merged := player.MergePositions(fresh, stored)
	if err := s.players.ReplaceSeason(ctx, season, merged); err != nil {
		return nil, fmt.Errorf("persist player directory season=%s: %w", season, err)
	}

	s.logger.InfoContext(ctx, "player directory built", "season", season, "players", len(merged))
	return merged, nil
}

// previousSeasonSnapshot backs the first build of a new season: positions
// carry forward from the most recent stored directory, so a failed profile
// fetch keeps last season's value instead of going empty.
func (s *DirectoryService) previousSeasonSnapshot(ctx context.Context, season string) []player.Player {
	latest, err := s.players.LatestSeason(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load latest stored season failed", "season", season, "error", err)
		return nil
	}
	if latest == "" || latest == season {
		return nil
	}

	previous, err := s.players.ListBySeason(ctx, latest)
	if err != nil {
		s.logger.WarnContext(ctx, "load previous directory failed", "season", season, "previous", latest, "error", err)
		return nil
	}

	return previous
}
