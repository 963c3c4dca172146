package postgres

import (
	"database/sql"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
)

type matchupTableModel struct {
	ID          int64          `db:"id"`
	Round       int            `db:"round"`
	Conference  sql.NullString `db:"conference"`
	Team1       string         `db:"team1"`
	Team2       string         `db:"team2"`
	MatchupCode string         `db:"matchup_code"`
}

type matchupInsertModel struct {
	Round       int            `db:"round"`
	Conference  sql.NullString `db:"conference"`
	Team1       string         `db:"team1"`
	Team2       string         `db:"team2"`
	MatchupCode string         `db:"matchup_code"`
}

type resultTableModel struct {
	MatchupCode string    `db:"matchup_code"`
	Round       int       `db:"round"`
	Winner      string    `db:"winner"`
	Games       int       `db:"games"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type resultInsertModel struct {
	MatchupCode string `db:"matchup_code"`
	Round       int    `db:"round"`
	Winner      string `db:"winner"`
	Games       int    `db:"games"`
}

type picksTableModel struct {
	UserID    string    `db:"user_id"`
	Picks     []byte    `db:"picks"`
	UpdatedAt time.Time `db:"updated_at"`
}

// picksDocument is the JSONB layout of bracket_picks.picks.
type picksDocument struct {
	Round1      map[string]string       `json:"round1"`
	Round2      map[string]string       `json:"round2"`
	Round3      map[string]string       `json:"round3"`
	Final       map[string]string       `json:"final"`
	Round1Games map[string]int          `json:"round1Games"`
	Round2Games map[string]int          `json:"round2Games"`
	Round3Games map[string]int          `json:"round3Games"`
	FinalGames  map[string]int          `json:"finalGames"`
	Pairs       map[string]bracket.Pair `json:"pairs,omitempty"`
}

func picksDocumentFromDomain(p bracket.Picks) picksDocument {
	return picksDocument{
		Round1:      p.Round1,
		Round2:      p.Round2,
		Round3:      p.Round3,
		Final:       p.Final,
		Round1Games: p.Round1Games,
		Round2Games: p.Round2Games,
		Round3Games: p.Round3Games,
		FinalGames:  p.FinalGames,
		Pairs:       p.Pairs,
	}
}

func (d picksDocument) toDomain() bracket.Picks {
	return bracket.Picks{
		Round1:      d.Round1,
		Round2:      d.Round2,
		Round3:      d.Round3,
		Final:       d.Final,
		Round1Games: d.Round1Games,
		Round2Games: d.Round2Games,
		Round3Games: d.Round3Games,
		FinalGames:  d.FinalGames,
		Pairs:       d.Pairs,
	}.Clone()
}
