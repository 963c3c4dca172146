package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/prediction"
	qb "github.com/Joona374/BracketChallenge2.0/internal/platform/querybuilder"
)

type predictionTableModel struct {
	UserID    string    `db:"user_id"`
	Picks     []byte    `db:"picks"`
	UpdatedAt time.Time `db:"updated_at"`
}

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Load(ctx context.Context, userID string) (prediction.Picks, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select predictions query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select predictions user=%s: %w", userID, err)
	}

	picks, err := predictionPicksFromRow(row)
	if err != nil {
		return nil, false, err
	}
	return picks, true, nil
}

func (r *PredictionRepository) Save(ctx context.Context, userID string, picks prediction.Picks) error {
	raw, err := encodeJSON(picks)
	if err != nil {
		return fmt.Errorf("encode predictions user=%s: %w", userID, err)
	}

	query, args, err := qb.InsertInto("predictions").
		Columns("user_id", "picks").
		Values(userID, raw).
		Suffix(`ON CONFLICT (user_id)
DO UPDATE SET
    picks = EXCLUDED.picks,
    updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert predictions query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert predictions user=%s: %w", userID, err)
	}
	return nil
}

func (r *PredictionRepository) ListAll(ctx context.Context) ([]prediction.UserPicks, error) {
	query, args, err := qb.Select("*").From("predictions").
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.UserPicks, 0, len(rows))
	for _, row := range rows {
		picks, err := predictionPicksFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, prediction.UserPicks{UserID: row.UserID, Picks: picks})
	}
	return out, nil
}

func predictionPicksFromRow(row predictionTableModel) (prediction.Picks, error) {
	picks := prediction.Picks{}
	if err := decodeJSON(row.Picks, &picks); err != nil {
		return nil, fmt.Errorf("decode predictions user=%s: %w", row.UserID, err)
	}
	return picks, nil
}
