package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/scoring"
	qb "github.com/Joona374/BracketChallenge2.0/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) Get(ctx context.Context, userID string) (scoring.UserPoints, bool, error) {
	query, args, err := qb.Select("*").From("user_points").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return scoring.UserPoints{}, false, fmt.Errorf("build get user points query: %w", err)
	}

	var row userPointsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.UserPoints{}, false, nil
		}
		return scoring.UserPoints{}, false, fmt.Errorf("get user points user=%s: %w", userID, err)
	}

	points, err := userPointsFromRow(row)
	if err != nil {
		return scoring.UserPoints{}, false, err
	}
	return points, true, nil
}

func (r *ScoringRepository) List(ctx context.Context) ([]scoring.UserPoints, error) {
	query, args, err := qb.Select("*").From("user_points").
		OrderBy("total_points DESC", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user points query: %w", err)
	}

	var rows []userPointsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list user points: %w", err)
	}

	out := make([]scoring.UserPoints, 0, len(rows))
	for _, row := range rows {
		points, err := userPointsFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, points)
	}
	return out, nil
}

func (r *ScoringRepository) UpsertMany(ctx context.Context, points []scoring.UserPoints) error {
	if len(points) == 0 {
		return nil
	}

	models := make([]userPointsInsertModel, 0, len(points))
	for _, p := range points {
		rounds, err := encodeJSON(roundScoreDocuments(p.BracketRounds))
		if err != nil {
			return fmt.Errorf("encode bracket rounds user=%s: %w", p.UserID, err)
		}
		models = append(models, userPointsInsertModel{
			UserID:           p.UserID,
			BracketRounds:    rounds,
			BracketPoints:    p.BracketPoints,
			LineupPoints:     p.LineupPoints,
			PredictionPoints: p.PredictionPoints,
			TotalPoints:      p.TotalPoints,
			CalculatedAt:     p.CalculatedAt,
		})
	}

	query, args, err := qb.InsertModels("user_points", models, `ON CONFLICT (user_id)
DO UPDATE SET
    bracket_rounds = EXCLUDED.bracket_rounds,
    bracket_points = EXCLUDED.bracket_points,
    lineup_points = EXCLUDED.lineup_points,
    prediction_points = EXCLUDED.prediction_points,
    total_points = EXCLUDED.total_points,
    calculated_at = EXCLUDED.calculated_at`)
	if err != nil {
		return fmt.Errorf("build upsert user points query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user points: %w", err)
	}
	return nil
}

func userPointsFromRow(row userPointsTableModel) (scoring.UserPoints, error) {
	var docs []roundScoreDocument
	if err := decodeJSON(row.BracketRounds, &docs); err != nil {
		return scoring.UserPoints{}, fmt.Errorf("decode bracket rounds user=%s: %w", row.UserID, err)
	}
	return scoring.UserPoints{
		UserID:           row.UserID,
		BracketRounds:    roundScoresFromDocuments(docs),
		BracketPoints:    row.BracketPoints,
		LineupPoints:     row.LineupPoints,
		PredictionPoints: row.PredictionPoints,
		TotalPoints:      row.TotalPoints,
		CalculatedAt:     row.CalculatedAt,
	}, nil
}
