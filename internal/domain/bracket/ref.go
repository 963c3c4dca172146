package bracket

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchupRef identifies the matchup a pick targets. It is resolved once from
// wire input by ParseMatchupRef; engine code switches on the concrete type.
type MatchupRef interface {
	Round() Round
	Code() string
	isMatchupRef()
}

type FirstRoundRef struct{ MatchupCode string }
type SecondRoundRef struct{ MatchupCode string }
type ConferenceFinalRef struct{ MatchupCode string }
type FinalRef struct{}

func (FirstRoundRef) Round() Round      { return RoundOne }
func (SecondRoundRef) Round() Round     { return RoundTwo }
func (ConferenceFinalRef) Round() Round { return RoundThree }
func (FinalRef) Round() Round           { return RoundFinal }

func (r FirstRoundRef) Code() string      { return r.MatchupCode }
func (r SecondRoundRef) Code() string     { return r.MatchupCode }
func (r ConferenceFinalRef) Code() string { return r.MatchupCode }
func (FinalRef) Code() string             { return CodeCup }

func (FirstRoundRef) isMatchupRef()      {}
func (SecondRoundRef) isMatchupRef()     {}
func (ConferenceFinalRef) isMatchupRef() {}
func (FinalRef) isMatchupRef()           {}

// legacyRoundOneIDs maps the numeric series ids older clients send.
var legacyRoundOneIDs = map[int]string{
	1: CodeW1, 2: CodeW2, 3: CodeW3, 4: CodeW4,
	5: CodeE1, 6: CodeE2, 7: CodeE3, 8: CodeE4,
}

// RefFor builds the reference for a canonical matchup code.
func RefFor(code string) (MatchupRef, error) {
	round, ok := RoundOf(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMatchup, code)
	}
	switch round {
	case RoundOne:
		return FirstRoundRef{MatchupCode: code}, nil
	case RoundTwo:
		return SecondRoundRef{MatchupCode: code}, nil
	case RoundThree:
		return ConferenceFinalRef{MatchupCode: code}, nil
	default:
		return FinalRef{}, nil
	}
}

// ParseMatchupRef resolves a wire identifier: a canonical code, a
// "<code>-winner" bucket key, or a legacy numeric round-one id 1..8.
func ParseMatchupRef(raw string) (MatchupRef, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimSuffix(value, winnerSuffix)
	if n, err := strconv.Atoi(value); err == nil {
		code, ok := legacyRoundOneIDs[n]
		if !ok {
			return nil, fmt.Errorf("%w: series id %d", ErrUnknownMatchup, n)
		}
		return FirstRoundRef{MatchupCode: code}, nil
	}
	return RefFor(value)
}
