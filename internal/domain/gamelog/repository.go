package gamelog

import "context"

// Repository describes game log persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, season string) ([]Row, error)
	ReplaceSeason(ctx context.Context, season string, rows []Row, games []Game) error
}
