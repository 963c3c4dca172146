package bracket

import "strings"

// NewPicks returns an empty bracket with every map allocated.
func NewPicks() Picks {
	return Picks{
		Round1:      map[string]string{},
		Round2:      map[string]string{},
		Round3:      map[string]string{},
		Final:       map[string]string{},
		Round1Games: map[string]int{},
		Round2Games: map[string]int{},
		Round3Games: map[string]int{},
		FinalGames:  map[string]int{},
		Pairs:       map[string]Pair{},
	}
}

// Derive rebuilds the later-round pairs from round-one picks and keeps a
// chosen winner only while its rebuilt pair is complete and contains it.
// Missing sides of a pair are "".
// The result never aliases the input and Derive(Derive(p)) equals Derive(p).
func Derive(p Picks) Picks {
	out := NewPicks()

	advancing := make(map[string]string, 15)
	for _, code := range codesByRound[RoundOne] {
		teamCode := strings.TrimSpace(p.Round1[code])
		if teamCode == "" {
			continue
		}
		out.Round1[code] = teamCode
		advancing[code] = teamCode
	}

	for _, round := range []Round{RoundTwo, RoundThree, RoundFinal} {
		preserved := p.winners(round)
		bucket := out.winners(round)
		for _, code := range codesByRound[round] {
			f := feeders[code]
			pair := Pair{advancing[f[0]], advancing[f[1]]}
			out.Pairs[code] = pair

			chosen := strings.TrimSpace(preserved[WinnerKey(code)])
			if !pair.Accepts(chosen) {
				continue
			}
			bucket[WinnerKey(code)] = chosen
			advancing[code] = chosen
		}
	}

	for _, round := range AllRounds {
		normalizeGames(round, p.games(round), out.games(round))
	}
	return out
}

// normalizeGames keeps valid series lengths keyed by bare matchup code.
// A "<code>-winner" key wins over a bare key for the same matchup.
func normalizeGames(round Round, in, out map[string]int) {
	for _, code := range codesByRound[round] {
		if games, ok := in[code]; ok && ValidGames(games) {
			out[code] = games
		}
		if games, ok := in[WinnerKey(code)]; ok && ValidGames(games) {
			out[code] = games
		}
	}
}

// PruneRoundOne drops round-one picks naming a team outside the official
// series for that code, then re-derives the rest of the bracket. Without
// official matchups the picks are only re-derived.
func PruneRoundOne(p Picks, official []Matchup) Picks {
	pairs := RoundOnePairs(official)
	if len(pairs) == 0 {
		return Derive(p)
	}

	trimmed := p
	trimmed.Round1 = make(map[string]string, len(p.Round1))
	for code, teamCode := range p.Round1 {
		if pair, ok := pairs[code]; ok && pair.Contains(strings.TrimSpace(teamCode)) {
			trimmed.Round1[code] = teamCode
		}
	}
	return Derive(trimmed)
}

// RoundOnePairs indexes official round-one matchups by code.
func RoundOnePairs(official []Matchup) map[string]Pair {
	pairs := make(map[string]Pair, len(official))
	for _, m := range official {
		if m.Round != RoundOne {
			continue
		}
		pairs[m.MatchupCode] = m.Pair()
	}
	return pairs
}

// RecordPick stores a winner pick and re-derives. It reports false and leaves
// the bracket as derived when the team is not in the target matchup's pair.
// Round-one pairs come from the official matchups.
func RecordPick(p Picks, ref MatchupRef, teamCode string, roundOne map[string]Pair) (Picks, bool) {
	out := Derive(p)
	teamCode = strings.TrimSpace(teamCode)

	switch r := ref.(type) {
	case FirstRoundRef:
		pair, ok := roundOne[r.MatchupCode]
		if !ok || !pair.Contains(teamCode) {
			return out, false
		}
		out.Round1[r.MatchupCode] = teamCode
	case SecondRoundRef, ConferenceFinalRef, FinalRef:
		code := ref.Code()
		if !out.Pairs[code].Accepts(teamCode) {
			return out, false
		}
		out.winners(ref.Round())[WinnerKey(code)] = teamCode
	default:
		return out, false
	}

	return Derive(out), true
}

// SetGames stores a series length guess for a matchup.
func SetGames(p Picks, ref MatchupRef, games int) (Picks, bool) {
	out := Derive(p)
	if ref == nil || !ValidGames(games) {
		return out, false
	}
	out.games(ref.Round())[ref.Code()] = games
	return out, true
}
