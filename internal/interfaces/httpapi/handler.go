package httpapi

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/hooplytics/hooprank/internal/domain/ranking"
	"github.com/hooplytics/hooprank/internal/platform/logging"
	"github.com/hooplytics/hooprank/internal/usecase"
)

type Handler struct {
	collectService *usecase.CollectService
	rankService    *usecase.RankService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	collectService *usecase.CollectService,
	rankService *usecase.RankService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		collectService: collectService,
		rankService:    rankService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankings")
	defer span.End()

	season := strings.TrimSpace(r.URL.Query().Get("season"))
	items, err := h.rankService.List(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get rankings failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := make([]rankedPlayerDTO, 0, len(items))
	for _, item := range items {
		dto = append(dto, rankedPlayerToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, rankingListDTO{
		Season:  items[0].Season,
		Players: dto,
	})
}

func (h *Handler) RunCollectJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCollectJob")
	defer span.End()

	if h.collectService == nil {
		writeError(ctx, w, fmt.Errorf("%w: collection service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSeasonJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.collectService.Run(ctx, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "run collect job failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunRankJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRankJob")
	defer span.End()

	if h.rankService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ranking service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeSeasonJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ranked, err := h.rankService.Run(ctx, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "run rank job failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankJobResultDTO{
		Season:  seasonOf(ranked),
		Players: len(ranked),
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type seasonJobRequest struct {
	Season string `json:"season" validate:"omitempty,len=7"`
}

func decodeSeasonJobRequest(r *http.Request) (seasonJobRequest, error) {
	if r.Body == nil || r.ContentLength == 0 {
		return seasonJobRequest{}, nil
	}

	var req seasonJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return seasonJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

type rankingListDTO struct {
	Season  string            `json:"season"`
	Players []rankedPlayerDTO `json:"players"`
}

type rankedPlayerDTO struct {
	Rank           int                `json:"rank"`
	PlayerID       int64              `json:"playerId"`
	FullName       string             `json:"fullName"`
	Position       string             `json:"position"`
	Games          int                `json:"games"`
	MinutesPerGame float64            `json:"minutesPerGame"`
	Score          float64            `json:"score"`
	Averages       map[string]float64 `json:"averages"`
	ZScores        map[string]float64 `json:"zScores"`
}

type rankJobResultDTO struct {
	Season  string `json:"season"`
	Players int    `json:"players"`
}

func rankedPlayerToDTO(v ranking.RankedPlayer) rankedPlayerDTO {
	zscores := make(map[string]float64, len(v.ZScores))
	for category, z := range v.ZScores {
		zscores[category] = z
	}

	// NaN marks a mean the player never recorded; JSON has no encoding for
	// it, so those categories stay out of the payload.
	averages := make(map[string]float64, len(v.Averages))
	for category, mean := range v.Averages {
		if math.IsNaN(mean) {
			continue
		}
		averages[category] = mean
	}

	return rankedPlayerDTO{
		Rank:           v.Rank,
		PlayerID:       v.PlayerID,
		FullName:       v.FullName,
		Position:       v.Position,
		Games:          v.Games,
		MinutesPerGame: v.MinutesPerGame,
		Score:          v.Score,
		Averages:       averages,
		ZScores:        zscores,
	}
}

func seasonOf(ranked []ranking.RankedPlayer) string {
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Season
}
