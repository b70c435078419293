package httpapi

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/hooplytics/hooprank/internal/domain/ranking"
	"github.com/hooplytics/hooprank/internal/infrastructure/repository/memory"
	"github.com/hooplytics/hooprank/internal/platform/logging"
	"github.com/hooplytics/hooprank/internal/usecase"
)

const testJobToken = "job-token"

func newTestRouter(t *testing.T, rankings *memory.RankingRepository) http.Handler {
	t.Helper()

	rankService, err := usecase.NewRankService(
		memory.NewGameLogRepository(),
		memory.NewPlayerRepository(nil),
		rankings,
		logging.NewNop(),
		usecase.DefaultRankConfig(),
	)
	if err != nil {
		t.Fatalf("new rank service: %v", err)
	}

	handler := NewHandler(nil, rankService, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken)
}

func seedRanking(t *testing.T, rankings *memory.RankingRepository, season string) {
	t.Helper()

	err := rankings.ReplaceSeason(context.Background(), season, []ranking.RankedPlayer{
		{
			Rank: 1, PlayerID: 203999, FullName: "Nikola Jokic", Position: "Center",
			Season: season, Games: 70, Score: 12.5,
			Averages: map[string]float64{
				ranking.CategoryPoints:   26.4,
				ranking.CategoryRebounds: 12.4,
				ranking.CategoryFTPct:    math.NaN(),
			},
		},
		{
			Rank: 2, PlayerID: 201939, FullName: "Stephen Curry", Position: "Guard",
			Season: season, Games: 64, Score: 9.1,
			Averages: map[string]float64{ranking.CategoryPoints: 26.1},
		},
	})
	if err != nil {
		t.Fatalf("seed rankings: %v", err)
	}
}

func TestGetRankings_ReturnsStoredSeason(t *testing.T) {
	rankings := memory.NewRankingRepository()
	seedRanking(t, rankings, "2023-24")
	router := newTestRouter(t, rankings)

	req := httptest.NewRequest(http.MethodGet, "/v1/rankings?season=2023-24", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			Season  string `json:"season"`
			Players []struct {
				Rank     int                `json:"rank"`
				FullName string             `json:"fullName"`
				Averages map[string]float64 `json:"averages"`
			} `json:"players"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.Season != "2023-24" {
		t.Fatalf("unexpected season: %q", body.Data.Season)
	}
	if len(body.Data.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(body.Data.Players))
	}
	if body.Data.Players[0].FullName != "Nikola Jokic" || body.Data.Players[0].Rank != 1 {
		t.Fatalf("unexpected first player: %+v", body.Data.Players[0])
	}
	if got := body.Data.Players[0].Averages["pts"]; got != 26.4 {
		t.Fatalf("expected pts average in payload, got %v", got)
	}
	// NaN marks a mean that was never recorded; it has no JSON encoding.
	if _, ok := body.Data.Players[0].Averages["ft_pct"]; ok {
		t.Fatalf("did not expect an unrecorded mean in the payload")
	}
}

func TestGetRankings_UnknownSeasonIsNotFound(t *testing.T) {
	rankings := memory.NewRankingRepository()
	seedRanking(t, rankings, "2023-24")
	router := newTestRouter(t, rankings)

	req := httptest.NewRequest(http.MethodGet, "/v1/rankings?season=2019-20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestGetRankings_RejectsMalformedSeason(t *testing.T) {
	router := newTestRouter(t, memory.NewRankingRepository())

	req := httptest.NewRequest(http.MethodGet, "/v1/rankings?season=banana", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestInternalJobRoutes_RequireToken(t *testing.T) {
	router := newTestRouter(t, memory.NewRankingRepository())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/rank", strings.NewReader(`{"season":"2023-24"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRunRankJob_NoDataIsConflict(t *testing.T) {
	router := newTestRouter(t, memory.NewRankingRepository())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/rank", strings.NewReader(`{"season":"2023-24"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRunCollectJob_UnconfiguredServiceIsUnavailable(t *testing.T) {
	router := newTestRouter(t, memory.NewRankingRepository())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/collect", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}
