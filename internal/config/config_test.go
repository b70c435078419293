package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.StatsBaseURL != "https://stats.nba.com/stats" {
		t.Fatalf("unexpected StatsBaseURL: %q", cfg.StatsBaseURL)
	}
	if cfg.StatsRetryAttempts != 4 {
		t.Fatalf("unexpected StatsRetryAttempts: %d", cfg.StatsRetryAttempts)
	}
	if cfg.StatsRetryInitialDelay != time.Second {
		t.Fatalf("unexpected StatsRetryInitialDelay: %s", cfg.StatsRetryInitialDelay)
	}
	if cfg.CollectSweepLimit != 150 {
		t.Fatalf("unexpected CollectSweepLimit: %d", cfg.CollectSweepLimit)
	}
	if cfg.CollectMinGames != 10 || cfg.CollectMinMinutes != 10.0 {
		t.Fatalf("unexpected eligibility floors: games=%d minutes=%v", cfg.CollectMinGames, cfg.CollectMinMinutes)
	}
	if cfg.RankingWeights != nil {
		t.Fatalf("expected nil RankingWeights by default, got %v", cfg.RankingWeights)
	}
}

func TestLoad_StatsClientOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("NBA_STATS_BASE_URL", "http://localhost:9999/stats")
	t.Setenv("NBA_STATS_TIMEOUT", "3s")
	t.Setenv("NBA_STATS_PACE_BASE", "100ms")
	t.Setenv("NBA_STATS_PACE_JITTER", "50ms")
	t.Setenv("NBA_STATS_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StatsBaseURL != "http://localhost:9999/stats" {
		t.Fatalf("unexpected StatsBaseURL: %q", cfg.StatsBaseURL)
	}
	if cfg.StatsTimeout != 3*time.Second {
		t.Fatalf("unexpected StatsTimeout: %s", cfg.StatsTimeout)
	}
	if cfg.StatsPaceBase != 100*time.Millisecond || cfg.StatsPaceJitter != 50*time.Millisecond {
		t.Fatalf("unexpected pacing: base=%s jitter=%s", cfg.StatsPaceBase, cfg.StatsPaceJitter)
	}
	if cfg.StatsCircuitEnabled {
		t.Fatalf("expected StatsCircuitEnabled=false")
	}
}

func TestLoad_RejectsInvalidTunables(t *testing.T) {
	cases := map[string]string{
		"NBA_STATS_TIMEOUT":        "0s",
		"NBA_STATS_RETRY_ATTEMPTS": "0",
		"COLLECT_WORKERS":          "0",
		"COLLECT_MIN_GAMES":        "-1",
		"COLLECT_SWEEP_TRIES":      "0",
		"CACHE_TTL":                "0s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			t.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestParseWeightMap(t *testing.T) {
	weights, err := parseWeightMap("pts:1.5, tov:-2 ,FG_PCT:0.5")
	if err != nil {
		t.Fatalf("parse weights: %v", err)
	}
	if weights["pts"] != 1.5 || weights["tov"] != -2 || weights["fg_pct"] != 0.5 {
		t.Fatalf("unexpected weights: %v", weights)
	}

	if _, err := parseWeightMap("pts"); err == nil {
		t.Fatalf("expected error for item without value")
	}
	if _, err := parseWeightMap("pts:abc"); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
	if weights, err := parseWeightMap(""); err != nil || weights != nil {
		t.Fatalf("expected nil map for empty input, got %v, %v", weights, err)
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("DEBUG").String() != "debug" {
		t.Fatalf("expected debug level")
	}
	if parseLogLevel("unknown").String() != "info" {
		t.Fatalf("expected info fallback")
	}
}
