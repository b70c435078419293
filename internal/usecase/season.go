package usecase

import (
	"fmt"
	"regexp"
	"time"
)

var seasonLabelRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CurrentSeason returns the label of the season in progress as of now. New
// seasons are assumed to start in July, so before July the label still points
// at the season that began the previous fall.
func CurrentSeason(now time.Time) string {
	start := now.Year() - 2
	if now.Month() >= time.July {
		start = now.Year() - 1
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

func ValidateSeason(label string) error {
	if !seasonLabelRegex.MatchString(label) {
		return fmt.Errorf("%w: season label must look like 2023-24, got %q", ErrInvalidInput, label)
	}
	return nil
}
