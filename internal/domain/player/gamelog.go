package player

import "time"

// GameLog is one player's stat line for a single playoff game.
type GameLog struct {
	PlayerID     string
	GameID       int64
	GameDate     time.Time
	StartTimeUTC time.Time
	IsGoalie     bool
	Goals        int
	Assists      int
	Points       int
	PlusMinus    int
	Wins         int
	Shutouts     int
	Saves        int
	ShotsAgainst int
	GoalsAgainst int
}

// SavePct returns saves over shots and false when no shots were faced.
func (g GameLog) SavePct() (float64, bool) {
	if g.ShotsAgainst <= 0 {
		return 0, false
	}
	return float64(g.Saves) / float64(g.ShotsAgainst), true
}

// LatestGameLog picks the log with the latest game date.
func LatestGameLog(logs []GameLog) (GameLog, bool) {
	if len(logs) == 0 {
		return GameLog{}, false
	}
	latest := logs[0]
	for _, item := range logs[1:] {
		if item.GameDate.After(latest.GameDate) {
			latest = item
		}
	}
	return latest, true
}
