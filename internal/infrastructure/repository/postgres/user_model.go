package postgres

import "time"

type userTableModel struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	TeamName  string    `db:"team_name"`
	LogoURL   string    `db:"logo_url"`
	CreatedAt time.Time `db:"created_at"`
}
