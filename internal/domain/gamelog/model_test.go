package gamelog

import (
	"math"
	"testing"
)

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"34:30", 34.5, true},
		{"0:45", 0.75, true},
		{"36", 36, true},
		{"12.5", 12.5, true},
		{" 20:00 ", 20, true},
		{"", 0, false},
		{"DNP", 0, false},
		{"12:xx", 0, false},
		{":30", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseMinutes(tc.raw)
		if ok != tc.ok {
			t.Errorf("ParseMinutes(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ParseMinutes(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestBuildGameIndex(t *testing.T) {
	rows := []Row{
		{PlayerID: 1, GameID: "0022300001", GameDate: "2023-10-24"},
		{PlayerID: 2, GameID: "0022300001", GameDate: "2023-10-24"},
		{PlayerID: 1, GameID: "0022300015", GameDate: "2023-10-26"},
		{PlayerID: 3, GameID: ""},
	}

	games := BuildGameIndex("2023-24", rows)

	if len(games) != 2 {
		t.Fatalf("expected 2 distinct games, got %d", len(games))
	}
	if games[0].ID != "0022300001" || games[1].ID != "0022300015" {
		t.Fatalf("unexpected game order: %+v", games)
	}
	for _, g := range games {
		if g.Season != "2023-24" {
			t.Errorf("expected season tag on game %s, got %q", g.ID, g.Season)
		}
	}
}
