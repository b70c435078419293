package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/hooplytics/hooprank/internal/domain/ranking"
	qb "github.com/hooplytics/hooprank/internal/platform/querybuilder"
)

type RankingRepository struct {
	db *sqlx.DB
}

var rankingSelectColumns = []string{
	"id",
	"season",
	"rank",
	"player_id",
	"full_name",
	"position",
	"games",
	"minutes_per_game",
	"score",
	"pts",
	"reb",
	"ast",
	"stl",
	"blk",
	"fg3m",
	"fg_pct",
	"ft_pct",
	"tov",
	"z_pts",
	"z_reb",
	"z_ast",
	"z_stl",
	"z_blk",
	"z_fg3m",
	"z_fg_pct",
	"z_ft_pct",
	"z_tov",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func rankingBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(rankingSelectColumns...).From("rankings")
}

func (r *RankingRepository) ListBySeason(ctx context.Context, season string) ([]ranking.RankedPlayer, error) {
	query, args, err := rankingBaseSelectBuilder().
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("rank", "full_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rankings by season query: %w", err)
	}

	var rows []rankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.listBySeasonLiteral(ctx, season)
		}
		return nil, fmt.Errorf("select rankings by season: %w", err)
	}

	return rankingsFromRows(rows), nil
}

func (r *RankingRepository) listBySeasonLiteral(ctx context.Context, season string) ([]ranking.RankedPlayer, error) {
	query, args, err := rankingBaseSelectBuilder().
		Where(
			qb.EqLiteral("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("rank", "full_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rankings literal fallback query: %w", err)
	}

	var rows []rankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rankings literal fallback: %w", err)
	}

	return rankingsFromRows(rows), nil
}

func rankingsFromRows(rows []rankingTableModel) []ranking.RankedPlayer {
	out := make([]ranking.RankedPlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.RankedPlayer{
			Rank:           row.Rank,
			PlayerID:       row.PlayerID,
			FullName:       row.FullName,
			Position:       row.Position,
			Season:         row.Season,
			Games:          row.Games,
			MinutesPerGame: row.MinutesPerGame,
			Score:          row.Score,
			Averages: map[string]float64{
				ranking.CategoryPoints:     floatOrNaN(row.Points),
				ranking.CategoryRebounds:   floatOrNaN(row.Rebounds),
				ranking.CategoryAssists:    floatOrNaN(row.Assists),
				ranking.CategorySteals:     floatOrNaN(row.Steals),
				ranking.CategoryBlocks:     floatOrNaN(row.Blocks),
				ranking.CategoryThreesMade: floatOrNaN(row.ThreesMade),
				ranking.CategoryFGPct:      floatOrNaN(row.FGPct),
				ranking.CategoryFTPct:      floatOrNaN(row.FTPct),
				ranking.CategoryTurnovers:  floatOrNaN(row.Turnovers),
			},
			ZScores: map[string]float64{
				ranking.CategoryPoints:     row.ZPoints,
				ranking.CategoryRebounds:   row.ZRebounds,
				ranking.CategoryAssists:    row.ZAssists,
				ranking.CategorySteals:     row.ZSteals,
				ranking.CategoryBlocks:     row.ZBlocks,
				ranking.CategoryThreesMade: row.ZThreesMade,
				ranking.CategoryFGPct:      row.ZFGPct,
				ranking.CategoryFTPct:      row.ZFTPct,
				ranking.CategoryTurnovers:  row.ZTurnovers,
			},
		})
	}

	return out
}

func (r *RankingRepository) ReplaceSeason(ctx context.Context, season string, players []ranking.RankedPlayer) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace rankings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("rankings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear rankings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear rankings: %w", err)
	}

	for _, item := range players {
		insertModel := rankingInsertModel{
			Season:         season,
			Rank:           item.Rank,
			PlayerID:       item.PlayerID,
			FullName:       item.FullName,
			Position:       item.Position,
			Games:          item.Games,
			MinutesPerGame: item.MinutesPerGame,
			Score:          item.Score,
			Points:         nullFloat(averageOf(item, ranking.CategoryPoints)),
			Rebounds:       nullFloat(averageOf(item, ranking.CategoryRebounds)),
			Assists:        nullFloat(averageOf(item, ranking.CategoryAssists)),
			Steals:         nullFloat(averageOf(item, ranking.CategorySteals)),
			Blocks:         nullFloat(averageOf(item, ranking.CategoryBlocks)),
			ThreesMade:     nullFloat(averageOf(item, ranking.CategoryThreesMade)),
			FGPct:          nullFloat(averageOf(item, ranking.CategoryFGPct)),
			FTPct:          nullFloat(averageOf(item, ranking.CategoryFTPct)),
			Turnovers:      nullFloat(averageOf(item, ranking.CategoryTurnovers)),
			ZPoints:        item.ZScores[ranking.CategoryPoints],
			ZRebounds:      item.ZScores[ranking.CategoryRebounds],
			ZAssists:       item.ZScores[ranking.CategoryAssists],
			ZSteals:        item.ZScores[ranking.CategorySteals],
			ZBlocks:        item.ZScores[ranking.CategoryBlocks],
			ZThreesMade:    item.ZScores[ranking.CategoryThreesMade],
			ZFGPct:         item.ZScores[ranking.CategoryFGPct],
			ZFTPct:         item.ZScores[ranking.CategoryFTPct],
			ZTurnovers:     item.ZScores[ranking.CategoryTurnovers],
		}
		query, args, err := qb.InsertModel("rankings", insertModel, `ON CONFLICT (player_id, season) WHERE deleted_at IS NULL
DO UPDATE SET
    rank = EXCLUDED.rank,
    full_name = EXCLUDED.full_name,
    position = EXCLUDED.position,
    games = EXCLUDED.games,
    minutes_per_game = EXCLUDED.minutes_per_game,
    score = EXCLUDED.score,
    pts = EXCLUDED.pts,
    reb = EXCLUDED.reb,
    ast = EXCLUDED.ast,
    stl = EXCLUDED.stl,
    blk = EXCLUDED.blk,
    fg3m = EXCLUDED.fg3m,
    fg_pct = EXCLUDED.fg_pct,
    ft_pct = EXCLUDED.ft_pct,
    tov = EXCLUDED.tov,
    z_pts = EXCLUDED.z_pts,
    z_reb = EXCLUDED.z_reb,
    z_ast = EXCLUDED.z_ast,
    z_stl = EXCLUDED.z_stl,
    z_blk = EXCLUDED.z_blk,
    z_fg3m = EXCLUDED.z_fg3m,
    z_fg_pct = EXCLUDED.z_fg_pct,
    z_ft_pct = EXCLUDED.z_ft_pct,
    z_tov = EXCLUDED.z_tov,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert ranking query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert ranking player=%d season=%s: %w", item.PlayerID, season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace rankings tx: %w", err)
	}
	return nil
}

// averageOf reads one raw per-game mean; a category the ranking never
// recorded maps to NaN so it lands as SQL NULL.
func averageOf(item ranking.RankedPlayer, category string) float64 {
	value, ok := item.Averages[category]
	if !ok {
		return math.NaN()
	}
	return value
}
