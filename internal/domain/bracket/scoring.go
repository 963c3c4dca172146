package bracket

// Weights holds the points a correct winner earns in each round.
type Weights map[Round]int

func DefaultWeights() Weights {
	return Weights{RoundOne: 2, RoundTwo: 4, RoundThree: 8, RoundFinal: 16}
}

// RoundScore is the tally for one round.
type RoundScore struct {
	Round        Round
	Correct      int
	GamesCorrect int
	Points       int
}

// GradedPick is one user pick compared with the official result.
type GradedPick struct {
	MatchupCode  string
	Round        Round
	Picked       string
	PickedGames  int
	Winner       string
	Games        int
	Decided      bool
	Correct      bool
	GamesCorrect bool
	Points       int
}

// Score is a bracket's full breakdown.
type Score struct {
	Rounds []RoundScore
	Picks  []GradedPick
	Total  int
}

func (s Score) Round(round Round) RoundScore {
	for _, item := range s.Rounds {
		if item.Round == round {
			return item
		}
	}
	return RoundScore{Round: round}
}

// ScorePicks grades picks against results. Results match by matchup code
// only. A correct winner earns the round weight and a correct series length
// on top of it earns the weight again.
func ScorePicks(p Picks, results []Result, weights Weights) Score {
	if weights == nil {
		weights = DefaultWeights()
	}
	byCode := make(map[string]Result, len(results))
	for _, r := range results {
		byCode[r.MatchupCode] = r
	}

	score := Score{Rounds: make([]RoundScore, 0, len(AllRounds))}
	for _, round := range AllRounds {
		tally := RoundScore{Round: round}
		weight := weights[round]
		for _, code := range codesByRound[round] {
			picked := p.Winner(code)
			if picked == "" {
				continue
			}
			graded := GradedPick{
				MatchupCode: code,
				Round:       round,
				Picked:      picked,
				PickedGames: p.Games(code),
			}
			if result, ok := byCode[code]; ok {
				graded.Decided = true
				graded.Winner = result.Winner
				graded.Games = result.Games
				if picked == result.Winner {
					graded.Correct = true
					graded.Points = weight
					tally.Correct++
					if graded.PickedGames == result.Games {
						graded.GamesCorrect = true
						graded.Points += weight
						tally.GamesCorrect++
					}
				}
			}
			tally.Points += graded.Points
			score.Picks = append(score.Picks, graded)
		}
		score.Total += tally.Points
		score.Rounds = append(score.Rounds, tally)
	}
	return score
}
