package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/infrastructure/repository/memory"
	qb "github.com/Joona374/BracketChallenge2.0/internal/platform/querybuilder"
)

// BootstrapSeed loads the demo teams, users, players and round 1 matchups
// into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (code, name, logo_url, conference)
VALUES (:code, :name, :logo_url, :conference)
ON CONFLICT (code) DO NOTHING`, map[string]any{
			"code":       t.Code,
			"name":       t.Name,
			"logo_url":   t.LogoURL,
			"conference": string(t.Conference),
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.Code, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.Code, err)
		}
	}

	for _, u := range memory.SeedUsers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (id, username, team_name, logo_url, created_at)
VALUES (:id, :username, :team_name, :logo_url, :created_at)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":         u.ID,
			"username":   u.Username,
			"team_name":  u.TeamName,
			"logo_url":   u.LogoURL,
			"created_at": u.CreatedAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("bind seed user %s query: %w", u.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	for _, p := range memory.SeedPlayers() {
		model, err := playerInsertFromDomain(p)
		if err != nil {
			return err
		}
		sqlQuery, args, err := qb.InsertModel("players", model, "ON CONFLICT (id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build seed player %s query: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	matchups := make([]matchupInsertModel, 0, 8)
	for _, m := range memory.SeedMatchups() {
		matchups = append(matchups, matchupInsertModel{
			Round:       int(bracket.RoundOne),
			Conference:  sql.NullString{String: string(m.Conference), Valid: m.Conference != ""},
			Team1:       m.Team1,
			Team2:       m.Team2,
			MatchupCode: m.MatchupCode,
		})
	}
	if len(matchups) > 0 {
		sqlQuery, args, err := qb.InsertModels("matchups", matchups, "ON CONFLICT (round, matchup_code) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build seed matchups query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed matchups: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
