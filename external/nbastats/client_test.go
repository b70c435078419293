package nbastats

import (
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hooplytics/hooprank/internal/platform/resilience"
)

func fastClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 0,
		Retry: resilience.RetryConfig{
			MaxAttempts:   2,
			InitialDelay:  time.Millisecond,
			MaxDelay:      2 * time.Millisecond,
			BackoffFactor: 1.8,
		},
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

const gameLogPayload = `{
	"resource": "playergamelog",
	"resultSets": [{
		"name": "PlayerGameLog",
		"headers": ["SEASON_ID","Player_ID","Game_ID","GAME_DATE","MATCHUP","WL","MIN","PTS","REB","AST","STL","BLK","FG3M","FG_PCT","FT_PCT","TOV"],
		"rowSet": [
			["22023", 203999, "0022300551", "JAN 14, 2024", "DEN vs. IND", "W", "34:30", 31, 14, 8, 1, 1, 2, 0.652, null, 3],
			["22023", 203999, "0022300538", "JAN 12, 2024", "DEN @ NOP", "L", "36", 25, 10, 12, 2, 0, 1, 0.5, 0.75, 4]
		]
	}]
}`

func TestPlayerGameLog_ParsesRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playergamelog" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("Season"); got != "2023-24" {
			t.Errorf("expected Season=2023-24, got %s", got)
		}
		if got := r.Header.Get("Referer"); got == "" {
			t.Error("expected browser headers on provider request")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gameLogPayload))
	}))
	defer server.Close()

	rows := fastClient(t, server.URL).PlayerGameLog(t.Context(), 203999, "2023-24")

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.PlayerID != 203999 || first.GameID != "0022300551" {
		t.Fatalf("unexpected first row identity: %+v", first)
	}
	if first.Minutes != "34:30" || first.Points != 31 {
		t.Fatalf("unexpected first row stats: %+v", first)
	}
	if !math.IsNaN(first.FTPct) {
		t.Fatalf("expected null FT_PCT to parse as NaN, got %v", first.FTPct)
	}
	if rows[1].FTPct != 0.75 {
		t.Fatalf("expected FT_PCT 0.75, got %v", rows[1].FTPct)
	}
}

func TestPlayerIndex_SplitsNames(t *testing.T) {
	const payload = `{
		"resultSets": [{
			"name": "CommonAllPlayers",
			"headers": ["PERSON_ID","DISPLAY_LAST_COMMA_FIRST","DISPLAY_FIRST_LAST","ROSTERSTATUS"],
			"rowSet": [
				[203999, "Jokic, Nikola", "Nikola Jokic", 1],
				[0, "Ghost, Row", "Ghost Row", 1]
			]
		}]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	players := fastClient(t, server.URL).PlayerIndex(t.Context(), "2023-24")

	if len(players) != 1 {
		t.Fatalf("expected invalid id filtered out, got %d players", len(players))
	}
	p := players[0]
	if p.FirstName != "Nikola" || p.LastName != "Jokic" || p.FullName != "Nikola Jokic" {
		t.Fatalf("unexpected name mapping: %+v", p)
	}
}

func TestPlayerGameLog_FallsBackEmptyAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	rows := fastClient(t, server.URL).PlayerGameLog(t.Context(), 1, "2023-24")

	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty fallback, got %v", rows)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestLeagueAggregates_ParsesTable(t *testing.T) {
	const payload = `{
		"resultSets": [{
			"name": "LeagueDashPlayerStats",
			"headers": ["PLAYER_ID","PLAYER_NAME","GP","MIN","PTS"],
			"rowSet": [
				[201939, "Stephen Curry", 74, 32.7, 26.4],
				[1629027, "Trae Young", 54, 35.3, 25.7]
			]
		}]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("PerMode"); got != "PerGame" {
			t.Errorf("expected PerMode=PerGame, got %s", got)
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	rows := fastClient(t, server.URL).LeagueAggregates(t.Context(), "2023-24")

	if len(rows) != 2 {
		t.Fatalf("expected 2 aggregate rows, got %d", len(rows))
	}
	if rows[0].PlayerID != 201939 || rows[0].Games != 74 || rows[0].Minutes != 32.7 {
		t.Fatalf("unexpected aggregate row: %+v", rows[0])
	}
}

func TestSplitCommaName(t *testing.T) {
	first, last := splitCommaName("James, LeBron")
	if first != "LeBron" || last != "James" {
		t.Fatalf("unexpected split: %q %q", first, last)
	}

	first, last = splitCommaName("Nene")
	if first != "" || last != "Nene" {
		t.Fatalf("expected single-token name in last position, got %q %q", first, last)
	}
}
