package memory

import (
	"context"
	"sync"

	"github.com/hooplytics/hooprank/internal/domain/player"
)

type PlayerRepository struct {
	mu       sync.RWMutex
	bySeason map[string][]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	bySeason := make(map[string][]player.Player)
	for _, p := range players {
		bySeason[p.Season] = append(bySeason[p.Season], p)
	}

	return &PlayerRepository{bySeason: bySeason}
}

func (r *PlayerRepository) ListBySeason(_ context.Context, season string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.bySeason[season]))
	out = append(out, r.bySeason[season]...)

	return out, nil
}

func (r *PlayerRepository) LatestSeason(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := ""
	for season, players := range r.bySeason {
		if len(players) > 0 && season > latest {
			latest = season
		}
	}

	return latest, nil
}

func (r *PlayerRepository) ReplaceSeason(_ context.Context, season string, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]player.Player, 0, len(players))
	stored = append(stored, players...)
	r.bySeason[season] = stored

	return nil
}
