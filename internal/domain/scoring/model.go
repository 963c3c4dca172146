package scoring

import (
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
)

// UserPoints is the last computed score of one user.
type UserPoints struct {
	UserID           string
	BracketRounds    []bracket.RoundScore
	BracketPoints    int
	LineupPoints     int
	PredictionPoints int
	TotalPoints      int
	CalculatedAt     time.Time
}

// Sum recomputes the total from its parts.
func (p UserPoints) Sum() UserPoints {
	p.TotalPoints = p.BracketPoints + p.LineupPoints + p.PredictionPoints
	return p
}
