package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID                    string    `db:"id"`
	APIID                 int64     `db:"api_id"`
	FirstName             string    `db:"first_name"`
	LastName              string    `db:"last_name"`
	TeamCode              string    `db:"team_code"`
	Position              string    `db:"position"`
	Price                 int64     `db:"price"`
	InitialPrice          int64     `db:"initial_price"`
	IsU23                 bool      `db:"is_u23"`
	BirthCountry          string    `db:"birth_country"`
	RegularStats          []byte    `db:"regular_stats"`
	PlayoffStats          []byte    `db:"playoff_stats"`
	LastPriceUpdateGameID int64     `db:"last_price_update_game_id"`
	UpdatedAt             time.Time `db:"updated_at"`
}

type playerInsertModel struct {
	ID                    string `db:"id"`
	APIID                 int64  `db:"api_id"`
	FirstName             string `db:"first_name"`
	LastName              string `db:"last_name"`
	TeamCode              string `db:"team_code"`
	Position              string `db:"position"`
	Price                 int64  `db:"price"`
	InitialPrice          int64  `db:"initial_price"`
	IsU23                 bool   `db:"is_u23"`
	BirthCountry          string `db:"birth_country"`
	RegularStats          string `db:"regular_stats"`
	PlayoffStats          string `db:"playoff_stats"`
	LastPriceUpdateGameID int64  `db:"last_price_update_game_id"`
}

type gameLogTableModel struct {
	PlayerID     string       `db:"player_id"`
	GameID       int64        `db:"game_id"`
	GameDate     time.Time    `db:"game_date"`
	StartTimeUTC sql.NullTime `db:"start_time_utc"`
	IsGoalie     bool         `db:"is_goalie"`
	Goals        int          `db:"goals"`
	Assists      int          `db:"assists"`
	Points       int          `db:"points"`
	PlusMinus    int          `db:"plus_minus"`
	Wins         int          `db:"wins"`
	Shutouts     int          `db:"shutouts"`
	Saves        int          `db:"saves"`
	ShotsAgainst int          `db:"shots_against"`
	GoalsAgainst int          `db:"goals_against"`
}
