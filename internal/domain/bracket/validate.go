package bracket

import (
	"fmt"
	"strings"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
)

// ValidateMatchups checks an admin-entered set of matchups for one round
// and reports the first offence.
func ValidateMatchups(round Round, matchups []Matchup) error {
	if !round.Valid() {
		return fmt.Errorf("%w: unknown round %d", ErrInvalidMatchups, round)
	}

	seenCodes := make(map[string]struct{}, len(matchups))
	seenTeams := make(map[string]string, len(matchups)*2)
	for _, m := range matchups {
		code := strings.TrimSpace(m.MatchupCode)
		if r, ok := RoundOf(code); !ok || r != round {
			return fmt.Errorf("%w: code %q is not a round %d matchup", ErrInvalidMatchups, code, round)
		}
		if _, dup := seenCodes[code]; dup {
			return fmt.Errorf("%w: duplicate matchup %s", ErrInvalidMatchups, code)
		}
		seenCodes[code] = struct{}{}

		team1 := strings.TrimSpace(m.Team1)
		team2 := strings.TrimSpace(m.Team2)
		if team1 == "" || team2 == "" {
			return fmt.Errorf("%w: matchup %s needs two teams", ErrInvalidMatchups, code)
		}
		if team1 == team2 {
			return fmt.Errorf("%w: matchup %s has %s on both sides", ErrInvalidMatchups, code, team1)
		}
		for _, t := range []string{team1, team2} {
			if other, dup := seenTeams[t]; dup {
				return fmt.Errorf("%w: team %s in both %s and %s", ErrInvalidMatchups, t, other, code)
			}
			seenTeams[t] = code
		}
	}
	return nil
}

// RoundView groups one round's matchups by conference. The cup final has
// no conference and goes to Final.
type RoundView struct {
	East  []Matchup
	West  []Matchup
	Final []Matchup
}

func NewRoundView(matchups []Matchup) RoundView {
	view := RoundView{East: []Matchup{}, West: []Matchup{}, Final: []Matchup{}}
	for _, m := range matchups {
		switch {
		case m.Round == RoundFinal:
			view.Final = append(view.Final, m)
		case m.Conference == team.ConferenceEast:
			view.East = append(view.East, m)
		case m.Conference == team.ConferenceWest:
			view.West = append(view.West, m)
		default:
			if ConferenceOf(m.MatchupCode) == team.ConferenceEast {
				view.East = append(view.East, m)
			} else {
				view.West = append(view.West, m)
			}
		}
	}
	return view
}
