package usecase

import (
	"errors"
	"testing"
	"time"
)

func TestCurrentSeason(t *testing.T) {
	cases := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), "2022-23"},
		{time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), "2022-23"},
		{time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), "2023-24"},
		{time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), "2023-24"},
		{time.Date(2000, time.August, 1, 0, 0, 0, 0, time.UTC), "1999-00"},
	}

	for _, tc := range cases {
		if got := CurrentSeason(tc.now); got != tc.want {
			t.Errorf("CurrentSeason(%s) = %q, want %q", tc.now.Format("2006-01"), got, tc.want)
		}
	}
}

func TestValidateSeason(t *testing.T) {
	if err := ValidateSeason("2023-24"); err != nil {
		t.Fatalf("expected valid label, got %v", err)
	}

	for _, label := range []string{"", "2023", "2023-2024", "23-24", "abcd-ef"} {
		err := ValidateSeason(label)
		if err == nil {
			t.Errorf("expected error for %q", label)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for %q, got %v", label, err)
		}
	}
}
