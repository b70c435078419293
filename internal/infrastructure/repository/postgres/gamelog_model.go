package postgres

import (
	"database/sql"
	"time"
)

type gameLogTableModel struct {
	ID         int64           `db:"id"`
	PlayerID   int64           `db:"player_id"`
	Season     string          `db:"season"`
	GameID     string          `db:"game_id"`
	GameDate   string          `db:"game_date"`
	Matchup    string          `db:"matchup"`
	WinLoss    string          `db:"win_loss"`
	Minutes    string          `db:"minutes"`
	Points     sql.NullFloat64 `db:"pts"`
	Rebounds   sql.NullFloat64 `db:"reb"`
	Assists    sql.NullFloat64 `db:"ast"`
	Steals     sql.NullFloat64 `db:"stl"`
	Blocks     sql.NullFloat64 `db:"blk"`
	ThreesMade sql.NullFloat64 `db:"fg3m"`
	FGPct      sql.NullFloat64 `db:"fg_pct"`
	FTPct      sql.NullFloat64 `db:"ft_pct"`
	Turnovers  sql.NullFloat64 `db:"tov"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
	DeletedAt  *time.Time      `db:"deleted_at"`
}

type gameLogInsertModel struct {
	PlayerID   int64           `db:"player_id"`
	Season     string          `db:"season"`
	GameID     string          `db:"game_id"`
	GameDate   string          `db:"game_date"`
	Matchup    string          `db:"matchup"`
	WinLoss    string          `db:"win_loss"`
	Minutes    string          `db:"minutes"`
	Points     sql.NullFloat64 `db:"pts"`
	Rebounds   sql.NullFloat64 `db:"reb"`
	Assists    sql.NullFloat64 `db:"ast"`
	Steals     sql.NullFloat64 `db:"stl"`
	Blocks     sql.NullFloat64 `db:"blk"`
	ThreesMade sql.NullFloat64 `db:"fg3m"`
	FGPct      sql.NullFloat64 `db:"fg_pct"`
	FTPct      sql.NullFloat64 `db:"ft_pct"`
	Turnovers  sql.NullFloat64 `db:"tov"`
}

type gameTableModel struct {
	ID        int64      `db:"id"`
	GameID    string     `db:"game_id"`
	GameDate  string     `db:"game_date"`
	Season    string     `db:"season"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type gameInsertModel struct {
	GameID   string `db:"game_id"`
	GameDate string `db:"game_date"`
	Season   string `db:"season"`
}
