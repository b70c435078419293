package memory

import (
	"context"
	"sync"

	"github.com/hooplytics/hooprank/internal/domain/gamelog"
)

type GameLogRepository struct {
	mu            sync.RWMutex
	rowsBySeason  map[string][]gamelog.Row
	gamesBySeason map[string][]gamelog.Game
}

func NewGameLogRepository() *GameLogRepository {
	return &GameLogRepository{
		rowsBySeason:  make(map[string][]gamelog.Row),
		gamesBySeason: make(map[string][]gamelog.Game),
	}
}

func (r *GameLogRepository) ListBySeason(_ context.Context, season string) ([]gamelog.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gamelog.Row, 0, len(r.rowsBySeason[season]))
	out = append(out, r.rowsBySeason[season]...)

	return out, nil
}

func (r *GameLogRepository) ListGamesBySeason(_ context.Context, season string) ([]gamelog.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gamelog.Game, 0, len(r.gamesBySeason[season]))
	out = append(out, r.gamesBySeason[season]...)

	return out, nil
}

func (r *GameLogRepository) ReplaceSeason(_ context.Context, season string, rows []gamelog.Row, games []gamelog.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	storedRows := make([]gamelog.Row, 0, len(rows))
	storedRows = append(storedRows, rows...)
	r.rowsBySeason[season] = storedRows

	storedGames := make([]gamelog.Game, 0, len(games))
	storedGames = append(storedGames, games...)
	r.gamesBySeason[season] = storedGames

	return nil
}
