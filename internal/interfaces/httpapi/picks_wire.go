package httpapi

import (
	"bytes"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
)

// picksPayload is the bracket document as clients model it. Rounds 2-4 mix
// "<code>-winner" picks with the derived "<code>" pairs in one object.
type picksPayload struct {
	Round1      map[string]string    `json:"round1"`
	Round2      map[string]pickEntry `json:"round2"`
	Round3      map[string]pickEntry `json:"round3"`
	Final       map[string]pickEntry `json:"final"`
	Round1Games map[string]int       `json:"round1Games"`
	Round2Games map[string]int       `json:"round2Games"`
	Round3Games map[string]int       `json:"round3Games"`
	FinalGames  map[string]int       `json:"finalGames"`
}

// pickEntry holds a winner pick. Derived pairs decode to an empty entry and
// are rebuilt server side.
type pickEntry struct {
	Team string
}

func (e *pickEntry) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || raw[0] != '"' {
		e.Team = ""
		return nil
	}
	var s string
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return err
	}
	e.Team = strings.ToUpper(strings.TrimSpace(s))
	return nil
}

// toDomain drops keys that name no known matchup. Legacy numeric round-one
// ids are mapped to canonical codes.
func (p picksPayload) toDomain() bracket.Picks {
	out := bracket.NewPicks()
	for key, teamCode := range p.Round1 {
		if code, ok := roundOneCode(key); ok {
			out.Round1[code] = strings.ToUpper(strings.TrimSpace(teamCode))
		}
	}
	for key, games := range p.Round1Games {
		if code, ok := roundOneCode(key); ok {
			out.Round1Games[code] = games
		}
	}

	copyWinners(out.Round2, p.Round2)
	copyWinners(out.Round3, p.Round3)
	copyWinners(out.Final, p.Final)
	copyGames(out.Round2Games, p.Round2Games)
	copyGames(out.Round3Games, p.Round3Games)
	copyGames(out.FinalGames, p.FinalGames)
	return out
}

func roundOneCode(key string) (string, bool) {
	ref, err := bracket.ParseMatchupRef(key)
	if err != nil || ref.Round() != bracket.RoundOne {
		return "", false
	}
	return ref.Code(), true
}

func copyWinners(dst map[string]string, src map[string]pickEntry) {
	for key, entry := range src {
		if entry.Team == "" || !strings.HasSuffix(key, "-winner") {
			continue
		}
		dst[key] = entry.Team
	}
}

func copyGames(dst, src map[string]int) {
	for key, games := range src {
		dst[strings.TrimSpace(key)] = games
	}
}

type picksDTO struct {
	Round1      map[string]string `json:"round1"`
	Round2      map[string]any    `json:"round2"`
	Round3      map[string]any    `json:"round3"`
	Final       map[string]any    `json:"final"`
	Round1Games map[string]int    `json:"round1Games"`
	Round2Games map[string]int    `json:"round2Games"`
	Round3Games map[string]int    `json:"round3Games"`
	FinalGames  map[string]int    `json:"finalGames"`
}

func picksToDTO(p bracket.Picks) picksDTO {
	p = p.Clone()
	return picksDTO{
		Round1:      p.Round1,
		Round2:      roundBucket(bracket.RoundTwo, p),
		Round3:      roundBucket(bracket.RoundThree, p),
		Final:       roundBucket(bracket.RoundFinal, p),
		Round1Games: p.Round1Games,
		Round2Games: p.Round2Games,
		Round3Games: p.Round3Games,
		FinalGames:  p.FinalGames,
	}
}

func roundBucket(round bracket.Round, p bracket.Picks) map[string]any {
	codes := bracket.Codes(round)
	out := make(map[string]any, len(codes)*2)
	for _, code := range codes {
		if pair, ok := p.Pairs[code]; ok {
			out[code] = []string{pair[0], pair[1]}
		}
		if winner := p.Winner(code); winner != "" {
			out[bracket.WinnerKey(code)] = winner
		}
	}
	return out
}
