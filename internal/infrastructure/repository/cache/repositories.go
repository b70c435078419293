package cache

import (
	"context"

	"github.com/hooplytics/hooprank/internal/domain/player"
	"github.com/hooplytics/hooprank/internal/domain/ranking"
	basecache "github.com/hooplytics/hooprank/internal/platform/cache"
)

// RankingRepository caches season ranking reads; writes invalidate the
// season's entry so the API serves fresh results right after a rebuild.
type RankingRepository struct {
	next  ranking.Repository
	cache *basecache.Store
}

func NewRankingRepository(next ranking.Repository, cache *basecache.Store) *RankingRepository {
	return &RankingRepository{next: next, cache: cache}
}

func (r *RankingRepository) ListBySeason(ctx context.Context, season string) ([]ranking.RankedPlayer, error) {
	key := "ranking:season:" + season
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]ranking.RankedPlayer(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]ranking.RankedPlayer)
	return append([]ranking.RankedPlayer(nil), items...), nil
}

func (r *RankingRepository) ReplaceSeason(ctx context.Context, season string, players []ranking.RankedPlayer) error {
	if err := r.next.ReplaceSeason(ctx, season, players); err != nil {
		return err
	}
	r.cache.Delete(ctx, "ranking:season:"+season)
	return nil
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListBySeason(ctx context.Context, season string) ([]player.Player, error) {
	key := "player:season:" + season
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

// LatestSeason reads through; the season pointer must move the moment a new
// directory lands.
func (r *PlayerRepository) LatestSeason(ctx context.Context) (string, error) {
	return r.next.LatestSeason(ctx)
}

func (r *PlayerRepository) ReplaceSeason(ctx context.Context, season string, players []player.Player) error {
	if err := r.next.ReplaceSeason(ctx, season, players); err != nil {
		return err
	}
	r.cache.Delete(ctx, "player:season:"+season)
	return nil
}
