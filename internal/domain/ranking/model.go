package ranking

import "fmt"

// Category identifiers match the stat columns collected per game.
const (
	CategoryPoints     = "pts"
	CategoryRebounds   = "reb"
	CategoryAssists    = "ast"
	CategorySteals     = "stl"
	CategoryBlocks     = "blk"
	CategoryThreesMade = "fg3m"
	CategoryFGPct      = "fg_pct"
	CategoryFTPct      = "ft_pct"
	CategoryTurnovers  = "tov"
)

// Categories lists every scored category in output order.
var Categories = []string{
	CategoryPoints,
	CategoryRebounds,
	CategoryAssists,
	CategorySteals,
	CategoryBlocks,
	CategoryThreesMade,
	CategoryFGPct,
	CategoryFTPct,
	CategoryTurnovers,
}

// DefaultWeights favors every category equally, with turnovers counting
// against the player.
func DefaultWeights() map[string]float64 {
	w := make(map[string]float64, len(Categories))
	for _, c := range Categories {
		w[c] = 1.0
	}
	w[CategoryTurnovers] = -1.0

	return w
}

// ValidateWeights rejects weights for categories the engine does not score.
func ValidateWeights(weights map[string]float64) error {
	known := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		known[c] = struct{}{}
	}
	for c := range weights {
		if _, ok := known[c]; !ok {
			return fmt.Errorf("unknown ranking category: %s", c)
		}
	}

	return nil
}

// Aggregate holds one player's per-game means over a season.
type Aggregate struct {
	PlayerID       int64
	Games          int
	MinutesPerGame float64
	Means          map[string]float64
}

// RankedPlayer is one row of the season ranking output. Averages carries the
// raw per-game means the z-scores were computed from; a category the player
// never recorded keeps NaN there.
type RankedPlayer struct {
	Rank           int
	PlayerID       int64
	FullName       string
	Position       string
	Season         string
	Games          int
	MinutesPerGame float64
	Score          float64
	Averages       map[string]float64
	ZScores        map[string]float64
}
