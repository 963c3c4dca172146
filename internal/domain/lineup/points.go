package lineup

import (
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
)

// MinStay is how long a player must stay in a lineup after puck drop for
// the game to count.
const MinStay = 2 * time.Hour

// SkaterPoints scores a skater stat line.
func SkaterPoints(pos player.Position, goals, assists, plusMinus int) int {
	if pos == player.PositionDefense {
		return 3*goals + assists + plusMinus
	}
	if pos.IsForward() {
		return 2*goals + assists + plusMinus
	}
	return 0
}

// GoaliePoints scores a goalie stat line: one per game, win and shutout,
// plus one when the save percentage beats .920.
func GoaliePoints(gamesPlayed, wins, shutouts int, savePct float64, hasSavePct bool) int {
	points := gamesPlayed + wins + shutouts
	if hasSavePct && savePct > 0.92 {
		points++
	}
	return points
}

// PlayerSeasonPoints scores a player's playoff totals.
func PlayerSeasonPoints(p player.Player) int {
	st := p.Playoff
	if p.IsGoalie() {
		return GoaliePoints(st.GamesPlayed, st.Wins, st.Shutouts, st.SavePct, st.GamesPlayed > 0)
	}
	return SkaterPoints(p.Position, st.Goals, st.Assists, st.PlusMinus)
}

// GamePoints scores one game log of a player.
func GamePoints(pos player.Position, log player.GameLog) int {
	if log.IsGoalie {
		pct, ok := log.SavePct()
		return GoaliePoints(1, log.Wins, log.Shutouts, pct, ok)
	}
	return SkaterPoints(pos, log.Goals, log.Assists, log.PlusMinus)
}

// SlotPoints is one slot's contribution to a lineup score.
type SlotPoints struct {
	Slot     Slot
	PlayerID string
	Points   int
}

// SeasonPoints scores a saved lineup with the players' playoff totals.
func SeasonPoints(ids map[Slot]string, players map[string]player.Player) (int, []SlotPoints) {
	total := 0
	breakdown := make([]SlotPoints, 0, len(Slots))
	for _, slot := range Slots {
		id := ids[slot]
		p, ok := players[id]
		if id == "" || !ok {
			continue
		}
		points := PlayerSeasonPoints(p)
		total += points
		breakdown = append(breakdown, SlotPoints{Slot: slot, PlayerID: id, Points: points})
	}
	return total, breakdown
}

// GameLogPoints attributes game logs through the lineup history: a game
// counts when the player was in the lineup at puck drop and stayed for
// MinStay.
func GameLogPoints(history []HistoryEntry, logs []player.GameLog, players map[string]player.Player) int {
	byPlayer := make(map[string][]HistoryEntry, len(history))
	for _, entry := range history {
		byPlayer[entry.PlayerID] = append(byPlayer[entry.PlayerID], entry)
	}

	total := 0
	for _, log := range logs {
		entries := byPlayer[log.PlayerID]
		if len(entries) == 0 {
			continue
		}
		eligible := false
		for _, entry := range entries {
			if entry.ActiveAt(log.StartTimeUTC, MinStay) {
				eligible = true
				break
			}
		}
		if !eligible {
			continue
		}
		if log.IsGoalie {
			total += GamePoints(player.PositionGoalie, log)
			continue
		}
		p, ok := players[log.PlayerID]
		if !ok {
			continue
		}
		total += GamePoints(p.Position, log)
	}
	return total
}
