package bracket

import "strings"

// BracketKey maps an admin-entered matchup code of a round to the canonical
// bracket code. Round 2 slot codes W1/E1 map to the first semi of the
// conference, every other slot to the second.
func BracketKey(round Round, matchupCode string) (string, bool) {
	code := strings.TrimSpace(matchupCode)
	if code == "" && round != RoundFinal {
		return "", false
	}
	if r, ok := RoundOf(code); ok && r == round && round != RoundOne {
		return code, true
	}

	switch round {
	case RoundOne:
		if r, ok := RoundOf(code); ok && r == RoundOne {
			return code, true
		}
		return "", false
	case RoundTwo:
		if strings.HasPrefix(code, "W") {
			if code == CodeW1 {
				return CodeWestSemi, true
			}
			return CodeWestSemi2, true
		}
		if strings.HasPrefix(code, "E") {
			if code == CodeE1 {
				return CodeEastSemi, true
			}
			return CodeEastSemi2, true
		}
	case RoundThree:
		if strings.HasPrefix(code, "W") {
			return CodeWestFinal, true
		}
		if strings.HasPrefix(code, "E") {
			return CodeEastFinal, true
		}
	case RoundFinal:
		return CodeCup, true
	}
	return "", false
}
