package ranking

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, season string) ([]RankedPlayer, error)
	ReplaceSeason(ctx context.Context, season string, players []RankedPlayer) error
}
