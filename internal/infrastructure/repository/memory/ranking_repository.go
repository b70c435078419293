package memory

import (
	"context"
	"sync"

	"github.com/hooplytics/hooprank/internal/domain/ranking"
)

type RankingRepository struct {
	mu       sync.RWMutex
	bySeason map[string][]ranking.RankedPlayer
}

func NewRankingRepository() *RankingRepository {
	return &RankingRepository{bySeason: make(map[string][]ranking.RankedPlayer)}
}

func (r *RankingRepository) ListBySeason(_ context.Context, season string) ([]ranking.RankedPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ranking.RankedPlayer, 0, len(r.bySeason[season]))
	out = append(out, r.bySeason[season]...)

	return out, nil
}

func (r *RankingRepository) ReplaceSeason(_ context.Context, season string, players []ranking.RankedPlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]ranking.RankedPlayer, 0, len(players))
	stored = append(stored, players...)
	r.bySeason[season] = stored

	return nil
}
