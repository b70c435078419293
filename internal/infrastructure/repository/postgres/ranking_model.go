package postgres

import (
	"database/sql"
	"time"
)

type rankingTableModel struct {
	ID             int64           `db:"id"`
	Season         string          `db:"season"`
	Rank           int             `db:"rank"`
	PlayerID       int64           `db:"player_id"`
	FullName       string          `db:"full_name"`
	Position       string          `db:"position"`
	Games          int             `db:"games"`
	MinutesPerGame float64         `db:"minutes_per_game"`
	Score          float64         `db:"score"`
	Points         sql.NullFloat64 `db:"pts"`
	Rebounds       sql.NullFloat64 `db:"reb"`
	Assists        sql.NullFloat64 `db:"ast"`
	Steals         sql.NullFloat64 `db:"stl"`
	Blocks         sql.NullFloat64 `db:"blk"`
	ThreesMade     sql.NullFloat64 `db:"fg3m"`
	FGPct          sql.NullFloat64 `db:"fg_pct"`
	FTPct          sql.NullFloat64 `db:"ft_pct"`
	Turnovers      sql.NullFloat64 `db:"tov"`
	ZPoints        float64         `db:"z_pts"`
	ZRebounds      float64         `db:"z_reb"`
	ZAssists       float64         `db:"z_ast"`
	ZSteals        float64         `db:"z_stl"`
	ZBlocks        float64         `db:"z_blk"`
	ZThreesMade    float64         `db:"z_fg3m"`
	ZFGPct         float64         `db:"z_fg_pct"`
	ZFTPct         float64         `db:"z_ft_pct"`
	ZTurnovers     float64         `db:"z_tov"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	DeletedAt      *time.Time      `db:"deleted_at"`
}

type rankingInsertModel struct {
	Season         string          `db:"season"`
	Rank           int             `db:"rank"`
	PlayerID       int64           `db:"player_id"`
	FullName       string          `db:"full_name"`
	Position       string          `db:"position"`
	Games          int             `db:"games"`
	MinutesPerGame float64         `db:"minutes_per_game"`
	Score          float64         `db:"score"`
	Points         sql.NullFloat64 `db:"pts"`
	Rebounds       sql.NullFloat64 `db:"reb"`
	Assists        sql.NullFloat64 `db:"ast"`
	Steals         sql.NullFloat64 `db:"stl"`
	Blocks         sql.NullFloat64 `db:"blk"`
	ThreesMade     sql.NullFloat64 `db:"fg3m"`
	FGPct          sql.NullFloat64 `db:"fg_pct"`
	FTPct          sql.NullFloat64 `db:"ft_pct"`
	Turnovers      sql.NullFloat64 `db:"tov"`
	ZPoints        float64         `db:"z_pts"`
	ZRebounds      float64         `db:"z_reb"`
	ZAssists       float64         `db:"z_ast"`
	ZSteals        float64         `db:"z_stl"`
	ZBlocks        float64         `db:"z_blk"`
	ZThreesMade    float64         `db:"z_fg3m"`
	ZFGPct         float64         `db:"z_fg_pct"`
	ZFTPct         float64         `db:"z_ft_pct"`
	ZTurnovers     float64         `db:"z_tov"`
}
