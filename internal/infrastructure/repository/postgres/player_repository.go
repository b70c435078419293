package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooplytics/hooprank/internal/domain/player"
	qb "github.com/hooplytics/hooprank/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"player_id",
	"season",
	"full_name",
	"first_name",
	"last_name",
	"position",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListBySeason(ctx context.Context, season string) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by season query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by season: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:        row.PlayerID,
			FullName:  row.FullName,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Position:  row.Position,
			Season:    row.Season,
		})
	}

	return out, nil
}

// LatestSeason relies on the season label format sorting chronologically.
func (r *PlayerRepository) LatestSeason(ctx context.Context) (string, error) {
	query, args, err := qb.Select("season").From("players").
		Where(qb.IsNull("deleted_at")).
		OrderBy("season DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("build latest player season query: %w", err)
	}

	var season string
	if err := r.db.GetContext(ctx, &season, query, args...); err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("select latest player season: %w", err)
	}

	return season, nil
}

func (r *PlayerRepository) ReplaceSeason(ctx context.Context, season string, players []player.Player) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace players: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("players").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}

	for _, item := range players {
		insertModel := playerInsertModel{
			PlayerID:  item.ID,
			Season:    season,
			FullName:  item.FullName,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Position:  item.Position,
		}
		query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (player_id, season) WHERE deleted_at IS NULL
DO UPDATE SET
    full_name = EXCLUDED.full_name,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    position = EXCLUDED.position,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player id=%d season=%s: %w", item.ID, season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace players tx: %w", err)
	}
	return nil
}
