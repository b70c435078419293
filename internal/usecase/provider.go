package usecase

import "context"

// StatsProvider is the remote stats source consumed by the pipeline. Every
// method degrades to empty results when the provider cannot be reached, so
// callers treat "empty" as "missing" rather than handling transport errors.
type StatsProvider interface {
	PlayerIndex(ctx context.Context, season string) []ExternalPlayer
	PlayerProfile(ctx context.Context, playerID int64) ExternalPlayerProfile
	LeagueAggregates(ctx context.Context, season string) []ExternalAggregateRow
	PlayerGameLog(ctx context.Context, playerID int64, season string) []ExternalGameLogRow
}

type ExternalPlayer struct {
	ID        int64
	FullName  string
	FirstName string
	LastName  string
}

type ExternalPlayerProfile struct {
	ID       int64
	Position string
}

// ExternalAggregateRow is one row of the league-wide per-game table.
type ExternalAggregateRow struct {
	PlayerID   int64
	PlayerName string
	Games      int
	Minutes    float64
	Points     float64
}

// ExternalGameLogRow is one game for one player as reported by the provider.
// Stat fields are NaN when the provider sent null.
type ExternalGameLogRow struct {
	PlayerID   int64
	GameID     string
	GameDate   string
	Matchup    string
	WinLoss    string
	Minutes    string
	Points     float64
	Rebounds   float64
	Assists    float64
	Steals     float64
	Blocks     float64
	ThreesMade float64
	FGPct      float64
	FTPct      float64
	Turnovers  float64
}
