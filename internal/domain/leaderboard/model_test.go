package leaderboard

import (
	"testing"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/scoring"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
)

func TestBuild_TiesShareRank(t *testing.T) {
	users := []user.User{
		{ID: "u1", Username: "aino"},
		{ID: "u2", Username: "eetu"},
		{ID: "u3", Username: "bea"},
		{ID: "u4", Username: "caro"},
	}
	points := []scoring.UserPoints{
		{UserID: "u1", TotalPoints: 40},
		{UserID: "u2", TotalPoints: 55},
		{UserID: "u3", TotalPoints: 40},
	}

	got := Build(users, points)

	want := []struct {
		userID string
		rank   int
	}{
		{"u2", 1},
		{"u1", 2},
		{"u3", 2},
		{"u4", 3},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected entry count: %d", len(got))
	}
	for i, w := range want {
		if got[i].UserID != w.userID || got[i].Rank != w.rank {
			t.Fatalf("entry %d: got=(%s,%d) want=(%s,%d)", i, got[i].UserID, got[i].Rank, w.userID, w.rank)
		}
	}
}
