package postgres

import (
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
)

type userPointsTableModel struct {
	UserID           string    `db:"user_id"`
	BracketRounds    []byte    `db:"bracket_rounds"`
	BracketPoints    int       `db:"bracket_points"`
	LineupPoints     int       `db:"lineup_points"`
	PredictionPoints int       `db:"prediction_points"`
	TotalPoints      int       `db:"total_points"`
	CalculatedAt     time.Time `db:"calculated_at"`
}

type userPointsInsertModel struct {
	UserID           string    `db:"user_id"`
	BracketRounds    string    `db:"bracket_rounds"`
	BracketPoints    int       `db:"bracket_points"`
	LineupPoints     int       `db:"lineup_points"`
	PredictionPoints int       `db:"prediction_points"`
	TotalPoints      int       `db:"total_points"`
	CalculatedAt     time.Time `db:"calculated_at"`
}

type roundScoreDocument struct {
	Round        int `json:"round"`
	Correct      int `json:"correct"`
	GamesCorrect int `json:"gamesCorrect"`
	Points       int `json:"points"`
}

func roundScoreDocuments(rounds []bracket.RoundScore) []roundScoreDocument {
	out := make([]roundScoreDocument, 0, len(rounds))
	for _, r := range rounds {
		out = append(out, roundScoreDocument{
			Round:        int(r.Round),
			Correct:      r.Correct,
			GamesCorrect: r.GamesCorrect,
			Points:       r.Points,
		})
	}
	return out
}

func roundScoresFromDocuments(docs []roundScoreDocument) []bracket.RoundScore {
	out := make([]bracket.RoundScore, 0, len(docs))
	for _, d := range docs {
		out = append(out, bracket.RoundScore{
			Round:        bracket.Round(d.Round),
			Correct:      d.Correct,
			GamesCorrect: d.GamesCorrect,
			Points:       d.Points,
		})
	}
	return out
}
