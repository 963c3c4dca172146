package lineup

import (
	"testing"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
)

func TestSkaterAndGoaliePoints(t *testing.T) {
	if got := SkaterPoints(player.PositionCenter, 2, 1, 1); got != 6 {
		t.Fatalf("forward points: got=%d want=6", got)
	}
	if got := SkaterPoints(player.PositionDefense, 1, 2, -1); got != 4 {
		t.Fatalf("defense points: got=%d want=4", got)
	}
	if got := GoaliePoints(3, 2, 1, 0.93, true); got != 7 {
		t.Fatalf("goalie points: got=%d want=7", got)
	}
	if got := GoaliePoints(3, 2, 1, 0.92, true); got != 6 {
		t.Fatalf("save pct bonus needs more than .920: got=%d", got)
	}
}

func TestSeasonPoints(t *testing.T) {
	players := map[string]player.Player{
		"c1": {ID: "c1", Position: player.PositionCenter, Playoff: player.Stats{Goals: 3, Assists: 2, PlusMinus: 1}},
		"g1": {ID: "g1", Position: player.PositionGoalie, Playoff: player.Stats{GamesPlayed: 4, Wins: 3, Shutouts: 1, SavePct: 0.931}},
	}
	total, breakdown := SeasonPoints(map[Slot]string{SlotCenter: "c1", SlotGoalie: "g1", SlotLeftWing: "missing"}, players)
	if total != 9+9 {
		t.Fatalf("unexpected total: %d", total)
	}
	if len(breakdown) != 2 || breakdown[0].Slot != SlotCenter {
		t.Fatalf("unexpected breakdown: %+v", breakdown)
	}
}

func TestGameLogPoints_AttributionWindow(t *testing.T) {
	start := time.Date(2025, 4, 20, 23, 0, 0, 0, time.UTC)
	removedEarly := start.Add(90 * time.Minute)
	removedLate := start.Add(2 * time.Hour)

	players := map[string]player.Player{
		"c1": {ID: "c1", Position: player.PositionCenter},
		"c2": {ID: "c2", Position: player.PositionCenter},
		"d1": {ID: "d1", Position: player.PositionDefense},
		"l1": {ID: "l1", Position: player.PositionLeftWing},
	}
	history := []HistoryEntry{
		{PlayerID: "c1", Slot: SlotCenter, AddedAt: start.Add(-time.Hour), RemovedAt: &removedEarly},
		{PlayerID: "c2", Slot: SlotCenter, AddedAt: removedEarly},
		{PlayerID: "d1", Slot: SlotLeftD, AddedAt: start.Add(-48 * time.Hour), RemovedAt: &removedLate},
		{PlayerID: "l1", Slot: SlotLeftWing, AddedAt: start.Add(-time.Hour)},
	}
	logs := []player.GameLog{
		{PlayerID: "c1", StartTimeUTC: start, Goals: 1},
		{PlayerID: "c2", StartTimeUTC: start, Goals: 2},
		{PlayerID: "d1", StartTimeUTC: start, Goals: 1, Assists: 1},
		{PlayerID: "l1", StartTimeUTC: start, Assists: 3},
		{PlayerID: "g1", StartTimeUTC: start, IsGoalie: true, Wins: 1},
	}

	got := GameLogPoints(history, logs, players)
	if got != 4+3 {
		t.Fatalf("unexpected attributed points: got=%d want=7", got)
	}
}
