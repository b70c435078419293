package nbastats

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/hooplytics/hooprank/internal/platform/logging"
	"github.com/hooplytics/hooprank/internal/platform/resilience"
	"github.com/hooplytics/hooprank/internal/usecase"
)

const (
	defaultBaseURL    = "https://stats.nba.com/stats"
	defaultUserAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	seasonTypeRegular = "Regular Season"
	leagueIDNBA       = "00"
)

var errNBAStatsTransient = crerr.New("nba stats transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Retry          resilience.RetryConfig
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Pacer          *resilience.Pacer
}

// Client fetches player and game data from the stats provider. Fetches are
// paced, retried with backoff, and degrade to empty results once retries are
// exhausted; callers never see transport errors.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	retryCfg       resilience.RetryConfig
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	pacer          *resilience.Pacer
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		retryCfg:       resilience.NormalizeRetryConfig(cfg.Retry),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		pacer:          cfg.Pacer,
	}
}

var _ usecase.StatsProvider = (*Client)(nil)

func (c *Client) PlayerIndex(ctx context.Context, season string) []usecase.ExternalPlayer {
	return resilience.Retry(ctx, c.retryCfg, []usecase.ExternalPlayer{}, func(ctx context.Context) ([]usecase.ExternalPlayer, error) {
		return c.fetchPlayerIndex(ctx, season)
	})
}

func (c *Client) PlayerProfile(ctx context.Context, playerID int64) usecase.ExternalPlayerProfile {
	return resilience.Retry(ctx, c.retryCfg, usecase.ExternalPlayerProfile{}, func(ctx context.Context) (usecase.ExternalPlayerProfile, error) {
		return c.fetchPlayerProfile(ctx, playerID)
	})
}

func (c *Client) LeagueAggregates(ctx context.Context, season string) []usecase.ExternalAggregateRow {
	return resilience.Retry(ctx, c.retryCfg, []usecase.ExternalAggregateRow{}, func(ctx context.Context) ([]usecase.ExternalAggregateRow, error) {
		return c.fetchLeagueAggregates(ctx, season)
	})
}

func (c *Client) PlayerGameLog(ctx context.Context, playerID int64, season string) []usecase.ExternalGameLogRow {
	return resilience.Retry(ctx, c.retryCfg, []usecase.ExternalGameLogRow{}, func(ctx context.Context) ([]usecase.ExternalGameLogRow, error) {
		return c.fetchPlayerGameLog(ctx, playerID, season)
	})
}

func (c *Client) fetchPlayerIndex(ctx context.Context, season string) ([]usecase.ExternalPlayer, error) {
	query := url.Values{}
	query.Set("LeagueID", leagueIDNBA)
	query.Set("Season", season)
	query.Set("IsOnlyCurrentSeason", "1")

	var envelope resultSetsEnvelope
	if err := c.doJSON(ctx, "/commonallplayers", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player index season=%s: %w", season, err)
	}

	set, ok := envelope.findSet("CommonAllPlayers")
	if !ok {
		return nil, fmt.Errorf("player index payload has no CommonAllPlayers result set")
	}

	index := set.columnIndex()
	out := make([]usecase.ExternalPlayer, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		id := cellInt64(row, index, "PERSON_ID")
		if id <= 0 {
			continue
		}
		first, last := splitCommaName(cellString(row, index, "DISPLAY_LAST_COMMA_FIRST"))
		out = append(out, usecase.ExternalPlayer{
			ID:        id,
			FullName:  cellString(row, index, "DISPLAY_FIRST_LAST"),
			FirstName: first,
			LastName:  last,
		})
	}

	return out, nil
}

func (c *Client) fetchPlayerProfile(ctx context.Context, playerID int64) (usecase.ExternalPlayerProfile, error) {
	query := url.Values{}
	query.Set("PlayerID", strconv.FormatInt(playerID, 10))

	var envelope resultSetsEnvelope
	if err := c.doJSON(ctx, "/commonplayerinfo", query, &envelope); err != nil {
		return usecase.ExternalPlayerProfile{}, fmt.Errorf("fetch player profile player_id=%d: %w", playerID, err)
	}

	set, ok := envelope.findSet("CommonPlayerInfo")
	if !ok || len(set.RowSet) == 0 {
		return usecase.ExternalPlayerProfile{}, fmt.Errorf("player profile payload is empty for player_id=%d", playerID)
	}

	index := set.columnIndex()
	row := set.RowSet[0]
	return usecase.ExternalPlayerProfile{
		ID:       cellInt64(row, index, "PERSON_ID"),
		Position: cellString(row, index, "POSITION"),
	}, nil
}

func (c *Client) fetchLeagueAggregates(ctx context.Context, season string) ([]usecase.ExternalAggregateRow, error) {
	query := url.Values{}
	query.Set("LeagueID", leagueIDNBA)
	query.Set("Season", season)
	query.Set("SeasonType", seasonTypeRegular)
	query.Set("PerMode", "PerGame")
	query.Set("MeasureType", "Base")

	var envelope resultSetsEnvelope
	if err := c.doJSON(ctx, "/leaguedashplayerstats", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch league aggregates season=%s: %w", season, err)
	}

	set, ok := envelope.findSet("LeagueDashPlayerStats")
	if !ok {
		return nil, fmt.Errorf("league aggregates payload has no LeagueDashPlayerStats result set")
	}

	index := set.columnIndex()
	out := make([]usecase.ExternalAggregateRow, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		id := cellInt64(row, index, "PLAYER_ID")
		if id <= 0 {
			continue
		}
		out = append(out, usecase.ExternalAggregateRow{
			PlayerID:   id,
			PlayerName: cellString(row, index, "PLAYER_NAME"),
			Games:      int(cellInt64(row, index, "GP")),
			Minutes:    zeroIfNaN(cellFloat(row, index, "MIN")),
			Points:     zeroIfNaN(cellFloat(row, index, "PTS")),
		})
	}

	return out, nil
}

func (c *Client) fetchPlayerGameLog(ctx context.Context, playerID int64, season string) ([]usecase.ExternalGameLogRow, error) {
	query := url.Values{}
	query.Set("PlayerID", strconv.FormatInt(playerID, 10))
	query.Set("Season", season)
	query.Set("SeasonType", seasonTypeRegular)

	var envelope resultSetsEnvelope
	if err := c.doJSON(ctx, "/playergamelog", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch game log player_id=%d season=%s: %w", playerID, season, err)
	}

	set, ok := envelope.findSet("PlayerGameLog")
	if !ok {
		return nil, fmt.Errorf("game log payload has no PlayerGameLog result set")
	}

	index := set.columnIndex()
	out := make([]usecase.ExternalGameLogRow, 0, len(set.RowSet))
	for _, row := range set.RowSet {
		gameID := cellString(row, index, "GAME_ID")
		if gameID == "" {
			continue
		}
		out = append(out, usecase.ExternalGameLogRow{
			PlayerID:   pickID(cellInt64(row, index, "PLAYER_ID"), playerID),
			GameID:     gameID,
			GameDate:   cellString(row, index, "GAME_DATE"),
			Matchup:    cellString(row, index, "MATCHUP"),
			WinLoss:    cellString(row, index, "WL"),
			Minutes:    cellString(row, index, "MIN"),
			Points:     cellFloat(row, index, "PTS"),
			Rebounds:   cellFloat(row, index, "REB"),
			Assists:    cellFloat(row, index, "AST"),
			Steals:     cellFloat(row, index, "STL"),
			Blocks:     cellFloat(row, index, "BLK"),
			ThreesMade: cellFloat(row, index, "FG3M"),
			FGPct:      cellFloat(row, index, "FG_PCT"),
			FTPct:      cellFloat(row, index, "FT_PCT"),
			Turnovers:  cellFloat(row, index, "TOV"),
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nba stats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		setStatsHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errNBAStatsTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 12<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errNBAStatsTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errNBAStatsTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "nba stats request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// The provider rejects requests without browser-shaped headers.
func setStatsHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}

func isRetryableStatus(status int) bool {
	if status >= 500 {
		return true
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errNBAStatsTransient)
}

func splitCommaName(raw string) (first, last string) {
	l, f, ok := strings.Cut(raw, ",")
	if !ok {
		return "", strings.TrimSpace(raw)
	}
	return strings.TrimSpace(f), strings.TrimSpace(l)
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func zeroIfNaN(v float64) float64 {
	if v != v {
		return 0
	}
	return v
}

func pickID(primary, fallback int64) int64 {
	if primary > 0 {
		return primary
	}
	return fallback
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
