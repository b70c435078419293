package player

import "fmt"

// Player is one entry in the season player directory.
type Player struct {
	ID        int64
	FullName  string
	FirstName string
	LastName  string
	Position  string
	Season    string
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.FullName == "" {
		return fmt.Errorf("player full name is required")
	}
	if p.Season == "" {
		return fmt.Errorf("player season is required")
	}

	return nil
}

// MergePositions overlays fresh directory rows with previously stored ones.
// A fresh non-empty position always wins; a fresh empty position keeps the
// stored value when one exists.
func MergePositions(fresh, stored []Player) []Player {
	known := make(map[int64]string, len(stored))
	for _, p := range stored {
		if p.Position != "" {
			known[p.ID] = p.Position
		}
	}

	merged := make([]Player, len(fresh))
	for i, p := range fresh {
		if p.Position == "" {
			p.Position = known[p.ID]
		}
		merged[i] = p
	}

	return merged
}
