package player

import "context"

// Repository describes player directory persistence needs from use cases.
// LatestSeason returns the most recent season with a stored directory, or ""
// when nothing is stored yet.
type Repository interface {
	ListBySeason(ctx context.Context, season string) ([]Player, error)
	LatestSeason(ctx context.Context) (string, error)
	ReplaceSeason(ctx context.Context, season string, players []Player) error
}
