package postgres

import "time"

type teamTableModel struct {
	Code       string    `db:"code"`
	Name       string    `db:"name"`
	LogoURL    string    `db:"logo_url"`
	Conference string    `db:"conference"`
	CreatedAt  time.Time `db:"created_at"`
}
