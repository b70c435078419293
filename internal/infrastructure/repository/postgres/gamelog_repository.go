package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplytics/hooprank/internal/domain/gamelog"
	qb "github.com/hooplytics/hooprank/internal/platform/querybuilder"
)

type GameLogRepository struct {
	db *sqlx.DB
}

var gameLogSelectColumns = []string{
	"id",
	"player_id",
	"season",
	"game_id",
	"game_date",
	"matchup",
	"win_loss",
	"minutes",
	"pts",
	"reb",
	"ast",
	"stl",
	"blk",
	"fg3m",
	"fg_pct",
	"ft_pct",
	"tov",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewGameLogRepository(db *sqlx.DB) *GameLogRepository {
	return &GameLogRepository{db: db}
}

func (r *GameLogRepository) ListBySeason(ctx context.Context, season string) ([]gamelog.Row, error) {
	query, args, err := qb.Select(gameLogSelectColumns...).From("game_logs").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game logs by season query: %w", err)
	}

	var rows []gameLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select game logs by season: %w", err)
	}

	out := make([]gamelog.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, gamelog.Row{
			PlayerID:   row.PlayerID,
			Season:     row.Season,
			GameID:     row.GameID,
			GameDate:   row.GameDate,
			Matchup:    row.Matchup,
			WinLoss:    row.WinLoss,
			Minutes:    row.Minutes,
			Points:     floatOrNaN(row.Points),
			Rebounds:   floatOrNaN(row.Rebounds),
			Assists:    floatOrNaN(row.Assists),
			Steals:     floatOrNaN(row.Steals),
			Blocks:     floatOrNaN(row.Blocks),
			ThreesMade: floatOrNaN(row.ThreesMade),
			FGPct:      floatOrNaN(row.FGPct),
			FTPct:      floatOrNaN(row.FTPct),
			Turnovers:  floatOrNaN(row.Turnovers),
		})
	}

	return out, nil
}

func (r *GameLogRepository) ListGamesBySeason(ctx context.Context, season string) ([]gamelog.Game, error) {
	query, args, err := qb.Select("id", "game_id", "game_date", "season", "created_at", "updated_at", "deleted_at").
		From("games").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by season query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by season: %w", err)
	}

	out := make([]gamelog.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gamelog.Game{ID: row.GameID, Date: row.GameDate, Season: row.Season})
	}

	return out, nil
}

func (r *GameLogRepository) ReplaceSeason(ctx context.Context, season string, rows []gamelog.Row, games []gamelog.Game) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace game logs: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"game_logs", "games"} {
		clearQuery, clearArgs, err := qb.Update(table).
			SetExpr("deleted_at", "NOW()").
			Where(
				qb.Eq("season", season),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, item := range rows {
		insertModel := gameLogInsertModel{
			PlayerID:   item.PlayerID,
			Season:     season,
			GameID:     item.GameID,
			GameDate:   item.GameDate,
			Matchup:    item.Matchup,
			WinLoss:    item.WinLoss,
			Minutes:    item.Minutes,
			Points:     nullFloat(item.Points),
			Rebounds:   nullFloat(item.Rebounds),
			Assists:    nullFloat(item.Assists),
			Steals:     nullFloat(item.Steals),
			Blocks:     nullFloat(item.Blocks),
			ThreesMade: nullFloat(item.ThreesMade),
			FGPct:      nullFloat(item.FGPct),
			FTPct:      nullFloat(item.FTPct),
			Turnovers:  nullFloat(item.Turnovers),
		}
		query, args, err := qb.InsertModel("game_logs", insertModel, `ON CONFLICT (player_id, game_id, season) WHERE deleted_at IS NULL
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    matchup = EXCLUDED.matchup,
    win_loss = EXCLUDED.win_loss,
    minutes = EXCLUDED.minutes,
    pts = EXCLUDED.pts,
    reb = EXCLUDED.reb,
    ast = EXCLUDED.ast,
    stl = EXCLUDED.stl,
    blk = EXCLUDED.blk,
    fg3m = EXCLUDED.fg3m,
    fg_pct = EXCLUDED.fg_pct,
    ft_pct = EXCLUDED.ft_pct,
    tov = EXCLUDED.tov,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert game log query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game log player=%d game=%s: %w", item.PlayerID, item.GameID, err)
		}
	}

	for _, item := range games {
		insertModel := gameInsertModel{
			GameID:   item.ID,
			GameDate: item.Date,
			Season:   season,
		}
		query, args, err := qb.InsertModel("games", insertModel, `ON CONFLICT (game_id, season) WHERE deleted_at IS NULL
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert game id=%s season=%s: %w", item.ID, season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace game logs tx: %w", err)
	}
	return nil
}
