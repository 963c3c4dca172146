package bracket

import (
	"fmt"
	"maps"
	"strings"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
)

// Round is a playoff round number, 1 through 4.
type Round int

const (
	RoundOne Round = iota + 1
	RoundTwo
	RoundThree
	RoundFinal
)

var AllRounds = []Round{RoundOne, RoundTwo, RoundThree, RoundFinal}

func (r Round) Valid() bool {
	return r >= RoundOne && r <= RoundFinal
}

// Canonical matchup codes, in bracket order.
const (
	CodeW1 = "W1"
	CodeW2 = "W2"
	CodeW3 = "W3"
	CodeW4 = "W4"
	CodeE1 = "E1"
	CodeE2 = "E2"
	CodeE3 = "E3"
	CodeE4 = "E4"

	CodeWestSemi  = "w-semi"
	CodeWestSemi2 = "w-semi2"
	CodeEastSemi  = "e-semi"
	CodeEastSemi2 = "e-semi2"

	CodeWestFinal = "west-final"
	CodeEastFinal = "east-final"

	CodeCup = "cup"

	winnerSuffix = "-winner"
)

var codesByRound = map[Round][]string{
	RoundOne:   {CodeW1, CodeW2, CodeW3, CodeW4, CodeE1, CodeE2, CodeE3, CodeE4},
	RoundTwo:   {CodeWestSemi, CodeWestSemi2, CodeEastSemi, CodeEastSemi2},
	RoundThree: {CodeWestFinal, CodeEastFinal},
	RoundFinal: {CodeCup},
}

// feeders lists the two matchups whose winners meet in a later-round matchup.
var feeders = map[string][2]string{
	CodeWestSemi:  {CodeW1, CodeW2},
	CodeWestSemi2: {CodeW3, CodeW4},
	CodeEastSemi:  {CodeE1, CodeE2},
	CodeEastSemi2: {CodeE3, CodeE4},
	CodeWestFinal: {CodeWestSemi, CodeWestSemi2},
	CodeEastFinal: {CodeEastSemi, CodeEastSemi2},
	CodeCup:       {CodeWestFinal, CodeEastFinal},
}

var roundByCode = func() map[string]Round {
	out := make(map[string]Round, 15)
	for round, codes := range codesByRound {
		for _, code := range codes {
			out[code] = round
		}
	}
	return out
}()

// Codes returns the canonical matchup codes of a round.
func Codes(round Round) []string {
	return append([]string(nil), codesByRound[round]...)
}

// RoundOf reports the round a canonical matchup code belongs to.
func RoundOf(code string) (Round, bool) {
	round, ok := roundByCode[code]
	return round, ok
}

// ConferenceOf returns the conference of a matchup, empty for the cup final.
func ConferenceOf(code string) team.Conference {
	switch {
	case code == CodeCup:
		return ""
	case strings.HasPrefix(code, "W"), strings.HasPrefix(code, "w-"), code == CodeWestFinal:
		return team.ConferenceWest
	case strings.HasPrefix(code, "E"), strings.HasPrefix(code, "e-"), code == CodeEastFinal:
		return team.ConferenceEast
	}
	return ""
}

// WinnerKey is the picks bucket key for a round 2-4 matchup.
func WinnerKey(code string) string {
	return code + winnerSuffix
}

// Pair is the two teams meeting in a matchup. An unknown side is "".
type Pair [2]string

func (p Pair) Contains(teamCode string) bool {
	return teamCode != "" && (p[0] == teamCode || p[1] == teamCode)
}

func (p Pair) Complete() bool {
	return p[0] != "" && p[1] != ""
}

// Accepts reports whether a winner pick is valid: both feeder picks exist
// and the team is one of them.
func (p Pair) Accepts(teamCode string) bool {
	return p.Complete() && p.Contains(teamCode)
}

// Matchup is an official series between two teams.
type Matchup struct {
	ID          int64
	Round       Round
	Conference  team.Conference
	Team1       string
	Team2       string
	MatchupCode string
}

func (m Matchup) Pair() Pair {
	return Pair{m.Team1, m.Team2}
}

// Result is the admin-entered outcome of a series.
type Result struct {
	MatchupCode string
	Round       Round
	Winner      string
	Games       int
}

func (r Result) Validate() error {
	round, ok := RoundOf(r.MatchupCode)
	if !ok {
		return fmt.Errorf("%w: unknown matchup code %q", ErrInvalidResult, r.MatchupCode)
	}
	if r.Round != 0 && r.Round != round {
		return fmt.Errorf("%w: matchup %s belongs to round %d", ErrInvalidResult, r.MatchupCode, round)
	}
	if strings.TrimSpace(r.Winner) == "" {
		return fmt.Errorf("%w: winner is required for %s", ErrInvalidResult, r.MatchupCode)
	}
	if !ValidGames(r.Games) {
		return fmt.Errorf("%w: games must be between %d and %d", ErrInvalidResult, MinGames, MaxGames)
	}
	return nil
}

const (
	MinGames = 4
	MaxGames = 7
)

func ValidGames(games int) bool {
	return games >= MinGames && games <= MaxGames
}

// Picks is one user's bracket. Round buckets 2-4 are keyed by WinnerKey,
// games counts always by the bare matchup code. Pairs holds the matchups
// derived from earlier-round winners and is rebuilt by Derive.
type Picks struct {
	Round1 map[string]string
	Round2 map[string]string
	Round3 map[string]string
	Final  map[string]string

	Round1Games map[string]int
	Round2Games map[string]int
	Round3Games map[string]int
	FinalGames  map[string]int

	Pairs map[string]Pair
}

// Winner returns the user's pick for a canonical matchup code.
func (p Picks) Winner(code string) string {
	round, ok := RoundOf(code)
	if !ok {
		return ""
	}
	if round == RoundOne {
		return p.Round1[code]
	}
	return p.winners(round)[WinnerKey(code)]
}

// Games returns the user's series length guess for a matchup code.
func (p Picks) Games(code string) int {
	round, ok := RoundOf(code)
	if !ok {
		return 0
	}
	return p.games(round)[code]
}

func (p Picks) winners(round Round) map[string]string {
	switch round {
	case RoundOne:
		return p.Round1
	case RoundTwo:
		return p.Round2
	case RoundThree:
		return p.Round3
	case RoundFinal:
		return p.Final
	}
	return nil
}

func (p Picks) games(round Round) map[string]int {
	switch round {
	case RoundOne:
		return p.Round1Games
	case RoundTwo:
		return p.Round2Games
	case RoundThree:
		return p.Round3Games
	case RoundFinal:
		return p.FinalGames
	}
	return nil
}

// Clone returns a deep copy; nil maps come back allocated.
func (p Picks) Clone() Picks {
	return Picks{
		Round1:      maps.Clone(nonNil(p.Round1)),
		Round2:      maps.Clone(nonNil(p.Round2)),
		Round3:      maps.Clone(nonNil(p.Round3)),
		Final:       maps.Clone(nonNil(p.Final)),
		Round1Games: maps.Clone(nonNil(p.Round1Games)),
		Round2Games: maps.Clone(nonNil(p.Round2Games)),
		Round3Games: maps.Clone(nonNil(p.Round3Games)),
		FinalGames:  maps.Clone(nonNil(p.FinalGames)),
		Pairs:       maps.Clone(nonNil(p.Pairs)),
	}
}

func nonNil[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}

// UserPicks ties a bracket to its owner.
type UserPicks struct {
	UserID string
	Picks  Picks
}
