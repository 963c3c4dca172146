package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
	qb "github.com/Joona374/BracketChallenge2.0/internal/platform/querybuilder"
)

type MatchupRepository struct {
	db *sqlx.DB
}

func NewMatchupRepository(db *sqlx.DB) *MatchupRepository {
	return &MatchupRepository{db: db}
}

func (r *MatchupRepository) ListByRound(ctx context.Context, round bracket.Round) ([]bracket.Matchup, error) {
	query, args, err := qb.Select("*").From("matchups").
		Where(qb.Eq("round", int(round))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matchups query: %w", err)
	}

	var rows []matchupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matchups round=%d: %w", round, err)
	}

	out := make([]bracket.Matchup, 0, len(rows))
	for _, row := range rows {
		out = append(out, bracket.Matchup{
			ID:          row.ID,
			Round:       bracket.Round(row.Round),
			Conference:  team.Conference(row.Conference.String),
			Team1:       row.Team1,
			Team2:       row.Team2,
			MatchupCode: row.MatchupCode,
		})
	}
	return out, nil
}

// ReplaceRound swaps every matchup of a round in one transaction.
func (r *MatchupRepository) ReplaceRound(ctx context.Context, round bracket.Round, matchups []bracket.Matchup) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace matchups: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("matchups").
		Where(qb.Eq("round", int(round))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete matchups query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete matchups round=%d: %w", round, err)
	}

	if len(matchups) > 0 {
		models := make([]matchupInsertModel, 0, len(matchups))
		for _, m := range matchups {
			models = append(models, matchupInsertModel{
				Round:       int(round),
				Conference:  sql.NullString{String: string(m.Conference), Valid: m.Conference != ""},
				Team1:       m.Team1,
				Team2:       m.Team2,
				MatchupCode: m.MatchupCode,
			})
		}
		insertQuery, insertArgs, err := qb.InsertModels("matchups", models, "")
		if err != nil {
			return fmt.Errorf("build insert matchups query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert matchups round=%d: %w", round, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace matchups tx: %w", err)
	}
	return nil
}

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) List(ctx context.Context) ([]bracket.Result, error) {
	return r.list(ctx)
}

func (r *ResultRepository) ListByRound(ctx context.Context, round bracket.Round) ([]bracket.Result, error) {
	return r.list(ctx, qb.Eq("round", int(round)))
}

func (r *ResultRepository) list(ctx context.Context, conds ...qb.Condition) ([]bracket.Result, error) {
	query, args, err := qb.Select("*").From("matchup_results").
		Where(conds...).
		OrderBy("round", "matchup_code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select results query: %w", err)
	}

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}

	out := make([]bracket.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, bracket.Result{
			MatchupCode: row.MatchupCode,
			Round:       bracket.Round(row.Round),
			Winner:      row.Winner,
			Games:       row.Games,
		})
	}
	return out, nil
}

func (r *ResultRepository) Upsert(ctx context.Context, results []bracket.Result) error {
	if len(results) == 0 {
		return nil
	}

	models := make([]resultInsertModel, 0, len(results))
	for _, res := range results {
		models = append(models, resultInsertModel{
			MatchupCode: res.MatchupCode,
			Round:       int(res.Round),
			Winner:      res.Winner,
			Games:       res.Games,
		})
	}

	query, args, err := qb.InsertModels("matchup_results", models, `ON CONFLICT (matchup_code)
DO UPDATE SET
    round = EXCLUDED.round,
    winner = EXCLUDED.winner,
    games = EXCLUDED.games,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert results query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert results: %w", err)
	}
	return nil
}

func (r *ResultRepository) Delete(ctx context.Context, matchupCode string) (bool, error) {
	query, args, err := qb.DeleteFrom("matchup_results").
		Where(qb.Eq("matchup_code", matchupCode)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete result query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete result matchup=%s: %w", matchupCode, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete result rows affected: %w", err)
	}
	return affected > 0, nil
}

type PicksRepository struct {
	db *sqlx.DB
}

func NewPicksRepository(db *sqlx.DB) *PicksRepository {
	return &PicksRepository{db: db}
}

func (r *PicksRepository) Load(ctx context.Context, userID string) (bracket.Picks, bool, error) {
	query, args, err := qb.Select("*").From("bracket_picks").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return bracket.Picks{}, false, fmt.Errorf("build select picks query: %w", err)
	}

	var row picksTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bracket.Picks{}, false, nil
		}
		return bracket.Picks{}, false, fmt.Errorf("select picks user=%s: %w", userID, err)
	}

	picks, err := picksFromRow(row)
	if err != nil {
		return bracket.Picks{}, false, err
	}
	return picks, true, nil
}

func (r *PicksRepository) Save(ctx context.Context, userID string, picks bracket.Picks) error {
	raw, err := encodeJSON(picksDocumentFromDomain(picks))
	if err != nil {
		return fmt.Errorf("encode picks user=%s: %w", userID, err)
	}

	query, args, err := qb.InsertInto("bracket_picks").
		Columns("user_id", "picks").
		Values(userID, raw).
		Suffix(`ON CONFLICT (user_id)
DO UPDATE SET
    picks = EXCLUDED.picks,
    updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert picks query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert picks user=%s: %w", userID, err)
	}
	return nil
}

func (r *PicksRepository) ListAll(ctx context.Context) ([]bracket.UserPicks, error) {
	query, args, err := qb.Select("*").From("bracket_picks").
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []picksTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	out := make([]bracket.UserPicks, 0, len(rows))
	for _, row := range rows {
		picks, err := picksFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, bracket.UserPicks{UserID: row.UserID, Picks: picks})
	}
	return out, nil
}

func picksFromRow(row picksTableModel) (bracket.Picks, error) {
	var doc picksDocument
	if err := decodeJSON(row.Picks, &doc); err != nil {
		return bracket.Picks{}, fmt.Errorf("decode picks user=%s: %w", row.UserID, err)
	}
	return doc.toDomain(), nil
}
