package prediction

import (
	"errors"
	"strings"
)

var ErrInvalidPicks = errors.New("invalid prediction picks")

// Category is a stat leaderboard users predict the top three of.
type Category string

const (
	CategoryConnSmythe     Category = "connSmythe"
	CategoryPenaltyMinutes Category = "penaltyMinutes"
	CategoryGoals          Category = "goals"
	CategoryDefensePoints  Category = "defensePoints"
	CategoryU23Points      Category = "U23Points"
	CategoryGoalieWins     Category = "goalieWins"
	CategoryFinnishPoints  Category = "finnishPoints"

	PicksPerCategory = 3
	finnishCountry   = "FIN"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryConnSmythe,
	CategoryPenaltyMinutes,
	CategoryGoals,
	CategoryDefensePoints,
	CategoryU23Points,
	CategoryGoalieWins,
	CategoryFinnishPoints,
}

var categoryAliases = map[string]Category{
	"goalieGaa": CategoryGoalieWins,
}

// ParseCategory resolves a wire category name.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories {
		if string(c) == raw {
			return c, true
		}
	}
	c, ok := categoryAliases[raw]
	return c, ok
}

// Picks maps each category to an ordered list of player ids.
type Picks map[Category][]string

func (p Picks) Clone() Picks {
	out := make(Picks, len(p))
	for c, ids := range p {
		out[c] = append([]string(nil), ids...)
	}
	return out
}

// UserPicks ties predictions to their owner.
type UserPicks struct {
	UserID string
	Picks  Picks
}
