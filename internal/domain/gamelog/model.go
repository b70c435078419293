package gamelog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one game played by one player. Stat fields use NaN for values the
// provider left null; they are excluded from per-game means.
type Row struct {
	PlayerID   int64
	Season     string
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

func (r Row) Validate() error {
	if r.PlayerID <= 0 {
		return fmt.Errorf("game log player id is required")
	}
	if r.GameID == "" {
		return fmt.Errorf("game log game id is required")
	}

	return nil
}

// Game is one entry in the season game index.
type Game struct {
	ID     string
	Date   string
	Season string
}

// ParseMinutes converts the provider's minutes field to fractional minutes.
// "34:12" parses as 34.2, a bare number parses as itself, anything else is
// reported as missing.
func ParseMinutes(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if m, s, ok := strings.Cut(raw, ":"); ok {
		minutes, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		seconds, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return minutes + seconds/60, true
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}

	return v, true
}

// BuildGameIndex collects the distinct games referenced by rows, first seen
// date wins, preserving first-seen order.
func BuildGameIndex(season string, rows []Row) []Game {
	seen := make(map[string]struct{}, len(rows))
	games := make([]Game, 0, len(rows)/8+1)
	for _, r := range rows {
		if r.GameID == "" {
			continue
		}
		if _, ok := seen[r.GameID]; ok {
			continue
		}
		seen[r.GameID] = struct{}{}
		games = append(games, Game{ID: r.GameID, Date: r.GameDate, Season: season})
	}

	return games
}
