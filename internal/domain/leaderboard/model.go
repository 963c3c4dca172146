package leaderboard

import (
	"cmp"
	"slices"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/scoring"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
)

// Entry is one leaderboard row.
type Entry struct {
	UserID           string
	Rank             int
	Username         string
	TeamName         string
	LogoURL          string
	TotalPoints      int
	BracketPoints    int
	LineupPoints     int
	PredictionPoints int
}

// Build ranks every user by total points. Users with no computed points
// rank with zero. Equal totals share a rank and the next distinct total
// takes the next rank.
func Build(users []user.User, points []scoring.UserPoints) []Entry {
	byUser := make(map[string]scoring.UserPoints, len(points))
	for _, p := range points {
		byUser[p.UserID] = p
	}

	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		p := byUser[u.ID]
		entries = append(entries, Entry{
			UserID:           u.ID,
			Username:         u.Username,
			TeamName:         u.TeamName,
			LogoURL:          u.LogoURL,
			TotalPoints:      p.TotalPoints,
			BracketPoints:    p.BracketPoints,
			LineupPoints:     p.LineupPoints,
			PredictionPoints: p.PredictionPoints,
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if a.TotalPoints != b.TotalPoints {
			return cmp.Compare(b.TotalPoints, a.TotalPoints)
		}
		if a.Username != b.Username {
			return cmp.Compare(a.Username, b.Username)
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	rank := 0
	for idx := range entries {
		if idx == 0 || entries[idx].TotalPoints != entries[idx-1].TotalPoints {
			rank++
		}
		entries[idx].Rank = rank
	}
	return entries
}
