package prediction

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
)

// Eligible reports whether a player can be picked in a category.
func Eligible(c Category, p player.Player) bool {
	switch c {
	case CategoryConnSmythe:
		return true
	case CategoryGoalieWins:
		return p.IsGoalie()
	case CategoryDefensePoints:
		return p.Position == player.PositionDefense
	case CategoryU23Points:
		return p.IsU23 && !p.IsGoalie()
	case CategoryFinnishPoints:
		return strings.EqualFold(p.BirthCountry, finnishCountry) && !p.IsGoalie()
	case CategoryPenaltyMinutes, CategoryGoals:
		return !p.IsGoalie()
	}
	return false
}

// Validate requires exactly three distinct eligible picks in every category.
func Validate(picks Picks, players map[string]player.Player) error {
	for c := range picks {
		if !slices.Contains(Categories, c) {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidPicks, c)
		}
	}

	for _, c := range Categories {
		ids := picks[c]
		if len(ids) != PicksPerCategory {
			return fmt.Errorf("%w: %s needs %d picks, got %d", ErrInvalidPicks, c, PicksPerCategory, len(ids))
		}
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s picked twice in %s", ErrInvalidPicks, id, c)
			}
			seen[id] = struct{}{}

			p, ok := players[id]
			if !ok {
				return fmt.Errorf("%w: unknown player %s in %s", ErrInvalidPicks, id, c)
			}
			if !Eligible(c, p) {
				return fmt.Errorf("%w: %s is not eligible for %s", ErrInvalidPicks, p.FullName(), c)
			}
		}
	}
	return nil
}

// statValue is the stat a category ranks by. ok is false for categories
// without a stat-derived leader.
func statValue(c Category, p player.Player) (int, bool) {
	st := p.Playoff
	switch c {
	case CategoryPenaltyMinutes:
		return st.PenaltyMinutes, true
	case CategoryGoals:
		return st.Goals, true
	case CategoryDefensePoints, CategoryU23Points, CategoryFinnishPoints:
		return st.Points, true
	case CategoryGoalieWins:
		return st.Wins, true
	}
	return 0, false
}

// HasLeaders reports whether a category is ranked from stats.
func HasLeaders(c Category) bool {
	_, ok := statValue(c, player.Player{})
	return ok
}

// Leaders returns the current top three of a category, ties broken by id.
func Leaders(c Category, players []player.Player) []player.Player {
	if !HasLeaders(c) {
		return nil
	}
	pool := make([]player.Player, 0, len(players))
	for _, p := range players {
		if Eligible(c, p) {
			pool = append(pool, p)
		}
	}
	slices.SortFunc(pool, func(a, b player.Player) int {
		av, _ := statValue(c, a)
		bv, _ := statValue(c, b)
		if av != bv {
			return cmp.Compare(bv, av)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(pool) > PicksPerCategory {
		pool = pool[:PicksPerCategory]
	}
	return pool
}

// CategorySummary compares one category's picks with the current leaders.
type CategorySummary struct {
	Category     Category
	UserPicks    []string
	CurrentTop3  []player.Player
	CorrectPicks int
}

// Summary is the predictions scorecard of one user.
type Summary struct {
	Completed       int
	TotalToComplete int
	Categories      []CategorySummary
	TotalCorrect    int
}

// Points converts correct picks to leaderboard points.
func (s Summary) Points(perPick int) int {
	return s.TotalCorrect * perPick
}

// Summarize scores picks by overlap with each category's top three.
func Summarize(picks Picks, players []player.Player) Summary {
	summary := Summary{}
	for _, c := range Categories {
		if HasLeaders(c) {
			summary.TotalToComplete += PicksPerCategory
		}
		ids, ok := picks[c]
		if !ok {
			continue
		}
		if len(ids) > PicksPerCategory {
			ids = ids[:PicksPerCategory]
		}

		top := Leaders(c, players)
		leaderIDs := make(map[string]struct{}, len(top))
		for _, p := range top {
			leaderIDs[p.ID] = struct{}{}
		}
		correct := 0
		for _, id := range ids {
			if _, hit := leaderIDs[id]; hit {
				correct++
			}
		}

		summary.Categories = append(summary.Categories, CategorySummary{
			Category:     c,
			UserPicks:    append([]string(nil), ids...),
			CurrentTop3:  top,
			CorrectPicks: correct,
		})
		summary.TotalCorrect += correct
		if len(top) > 0 {
			summary.Completed++
		}
	}
	return summary
}
