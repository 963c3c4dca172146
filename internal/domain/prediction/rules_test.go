package prediction

import (
	"errors"
	"testing"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
)

func testPlayers() []player.Player {
	return []player.Player{
		{ID: "f1", LastName: "Rantanen", Position: player.PositionRightWing, BirthCountry: "FIN", Playoff: player.Stats{Goals: 9, Points: 20, PenaltyMinutes: 4}},
		{ID: "f2", LastName: "Barkov", Position: player.PositionCenter, BirthCountry: "FIN", Playoff: player.Stats{Goals: 6, Points: 18, PenaltyMinutes: 10}},
		{ID: "f3", LastName: "Aho", Position: player.PositionCenter, BirthCountry: "FIN", Playoff: player.Stats{Goals: 4, Points: 9}},
		{ID: "f4", LastName: "Lundell", Position: player.PositionCenter, BirthCountry: "FIN", IsU23: true, Playoff: player.Stats{Goals: 3, Points: 12, PenaltyMinutes: 14}},
		{ID: "s1", LastName: "McDavid", Position: player.PositionCenter, BirthCountry: "CAN", Playoff: player.Stats{Goals: 7, Points: 30}},
		{ID: "s2", LastName: "Tkachuk", Position: player.PositionLeftWing, BirthCountry: "USA", Playoff: player.Stats{Goals: 8, Points: 22, PenaltyMinutes: 40}},
		{ID: "u1", LastName: "Hughes", Position: player.PositionDefense, IsU23: true, BirthCountry: "USA", Playoff: player.Stats{Points: 15}},
		{ID: "u2", LastName: "Zegras", Position: player.PositionCenter, IsU23: true, BirthCountry: "USA", Playoff: player.Stats{Points: 6}},
		{ID: "d1", LastName: "Makar", Position: player.PositionDefense, BirthCountry: "CAN", Playoff: player.Stats{Points: 16}},
		{ID: "d2", LastName: "Heiskanen", Position: player.PositionDefense, BirthCountry: "FIN", Playoff: player.Stats{Points: 11}},
		{ID: "g1", LastName: "Bobrovsky", Position: player.PositionGoalie, Playoff: player.Stats{Wins: 16}},
		{ID: "g2", LastName: "Skinner", Position: player.PositionGoalie, Playoff: player.Stats{Wins: 12}},
		{ID: "g3", LastName: "Hellebuyck", Position: player.PositionGoalie, Playoff: player.Stats{Wins: 6}},
	}
}

func byID(players []player.Player) map[string]player.Player {
	out := make(map[string]player.Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}

func validPicks() Picks {
	return Picks{
		CategoryConnSmythe:     {"s1", "g1", "f2"},
		CategoryPenaltyMinutes: {"s2", "f4", "f2"},
		CategoryGoals:          {"f1", "s2", "s1"},
		CategoryDefensePoints:  {"d1", "u1", "d2"},
		CategoryU23Points:      {"u1", "f4", "u2"},
		CategoryGoalieWins:     {"g1", "g2", "g3"},
		CategoryFinnishPoints:  {"f1", "f3", "d2"},
	}
}

func TestValidate(t *testing.T) {
	players := byID(testPlayers())
	if err := Validate(validPicks(), players); err != nil {
		t.Fatalf("expected valid picks, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(Picks)
	}{
		{name: "two picks", mutate: func(p Picks) { p[CategoryGoals] = p[CategoryGoals][:2] }},
		{name: "duplicate", mutate: func(p Picks) { p[CategoryGoals] = []string{"f1", "f1", "s1"} }},
		{name: "missing category", mutate: func(p Picks) { delete(p, CategoryFinnishPoints) }},
		{name: "goalie in goals", mutate: func(p Picks) { p[CategoryGoals] = []string{"f1", "g1", "s1"} }},
		{name: "forward in defense", mutate: func(p Picks) { p[CategoryDefensePoints] = []string{"d1", "s1", "d2"} }},
		{name: "non finn", mutate: func(p Picks) { p[CategoryFinnishPoints] = []string{"f1", "s1", "d2"} }},
		{name: "unknown player", mutate: func(p Picks) { p[CategoryConnSmythe] = []string{"s1", "g1", "zz"} }},
		{name: "unknown category", mutate: func(p Picks) { p["hits"] = []string{"s1", "s2", "f1"} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			picks := validPicks()
			tc.mutate(picks)
			if err := Validate(picks, players); !errors.Is(err, ErrInvalidPicks) {
				t.Fatalf("expected ErrInvalidPicks, got %v", err)
			}
		})
	}
}

func TestLeaders(t *testing.T) {
	tests := []struct {
		category Category
		want     []string
	}{
		{category: CategoryGoals, want: []string{"f1", "s2", "s1"}},
		{category: CategoryPenaltyMinutes, want: []string{"s2", "f4", "f2"}},
		{category: CategoryDefensePoints, want: []string{"d1", "u1", "d2"}},
		{category: CategoryU23Points, want: []string{"u1", "f4", "u2"}},
		{category: CategoryGoalieWins, want: []string{"g1", "g2", "g3"}},
		{category: CategoryFinnishPoints, want: []string{"f1", "f2", "f4"}},
		{category: CategoryConnSmythe, want: nil},
	}

	players := testPlayers()
	for _, tc := range tests {
		got := Leaders(tc.category, players)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: unexpected leader count %d", tc.category, len(got))
		}
		for i := range got {
			if got[i].ID != tc.want[i] {
				t.Fatalf("%s: leader %d got=%s want=%s", tc.category, i, got[i].ID, tc.want[i])
			}
		}
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(validPicks(), testPlayers())

	if summary.TotalToComplete != 18 {
		t.Fatalf("unexpected total to complete: %d", summary.TotalToComplete)
	}
	if summary.Completed != 6 {
		t.Fatalf("unexpected completed: %d", summary.Completed)
	}
	// goals 3, penalty 3, defense 3, u23 3, goalies 3, finns 1 (f1)
	if summary.TotalCorrect != 16 {
		t.Fatalf("unexpected total correct: %d", summary.TotalCorrect)
	}
	if summary.Points(5) != 80 {
		t.Fatalf("unexpected points: %d", summary.Points(5))
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory("goalieGaa"); !ok || c != CategoryGoalieWins {
		t.Fatalf("goalieGaa alias must map to goalieWins")
	}
	if _, ok := ParseCategory("hits"); ok {
		t.Fatalf("unknown category must not parse")
	}
}
