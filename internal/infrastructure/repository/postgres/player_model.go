package postgres

import "time"

type playerTableModel struct {
	ID        int64      `db:"id"`
	PlayerID  int64      `db:"player_id"`
	Season    string     `db:"season"`
	FullName  string     `db:"full_name"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Position  string     `db:"position"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PlayerID  int64  `db:"player_id"`
	Season    string `db:"season"`
	FullName  string `db:"full_name"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Position  string `db:"position"`
}
