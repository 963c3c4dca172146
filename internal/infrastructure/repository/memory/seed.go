package memory

import (
	"strconv"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
)

func logoURL(code string) string {
	return "https://assets.nhle.com/logos/nhl/svg/" + code + "_light.svg"
}

// SeedTeams returns the 2025 playoff field.
func SeedTeams() []team.Team {
	west := []struct{ code, name string }{
		{"WPG", "Winnipeg Jets"},
		{"STL", "St. Louis Blues"},
		{"DAL", "Dallas Stars"},
		{"COL", "Colorado Avalanche"},
		{"VGK", "Vegas Golden Knights"},
		{"MIN", "Minnesota Wild"},
		{"LAK", "Los Angeles Kings"},
		{"EDM", "Edmonton Oilers"},
	}
	east := []struct{ code, name string }{
		{"TOR", "Toronto Maple Leafs"},
		{"OTT", "Ottawa Senators"},
		{"TBL", "Tampa Bay Lightning"},
		{"FLA", "Florida Panthers"},
		{"WSH", "Washington Capitals"},
		{"MTL", "Montreal Canadiens"},
		{"CAR", "Carolina Hurricanes"},
		{"NJD", "New Jersey Devils"},
	}

	out := make([]team.Team, 0, len(west)+len(east))
	for _, t := range west {
		out = append(out, team.Team{Code: t.code, Name: t.name, LogoURL: logoURL(t.code), Conference: team.ConferenceWest})
	}
	for _, t := range east {
		out = append(out, team.Team{Code: t.code, Name: t.name, LogoURL: logoURL(t.code), Conference: team.ConferenceEast})
	}
	return out
}

// SeedMatchups returns the official 2025 first round.
func SeedMatchups() []bracket.Matchup {
	pairs := []struct {
		code, team1, team2 string
		conf               team.Conference
	}{
		{bracket.CodeW1, "WPG", "STL", team.ConferenceWest},
		{bracket.CodeW2, "DAL", "COL", team.ConferenceWest},
		{bracket.CodeW3, "VGK", "MIN", team.ConferenceWest},
		{bracket.CodeW4, "LAK", "EDM", team.ConferenceWest},
		{bracket.CodeE1, "TOR", "OTT", team.ConferenceEast},
		{bracket.CodeE2, "TBL", "FLA", team.ConferenceEast},
		{bracket.CodeE3, "WSH", "MTL", team.ConferenceEast},
		{bracket.CodeE4, "CAR", "NJD", team.ConferenceEast},
	}

	out := make([]bracket.Matchup, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, bracket.Matchup{
			ID:          int64(i + 1),
			Round:       bracket.RoundOne,
			Conference:  p.conf,
			Team1:       p.team1,
			Team2:       p.team2,
			MatchupCode: p.code,
		})
	}
	return out
}

func skater(apiID int64, first, last, teamCode string, pos player.Position, price int64, u23 bool, country string, gp, g, a, pm, pim int) player.Player {
	return player.Player{
		ID:           strconv.FormatInt(apiID, 10),
		APIID:        apiID,
		FirstName:    first,
		LastName:     last,
		Team:         teamCode,
		Position:     pos,
		Price:        price,
		InitialPrice: price,
		IsU23:        u23,
		BirthCountry: country,
		Regular: player.Stats{
			GamesPlayed:    gp,
			Goals:          g,
			Assists:        a,
			Points:         g + a,
			PlusMinus:      pm,
			PenaltyMinutes: pim,
		},
	}
}

func goalie(apiID int64, first, last, teamCode string, price int64, country string, gp, w, so int, gaa, svPct float64) player.Player {
	return player.Player{
		ID:           strconv.FormatInt(apiID, 10),
		APIID:        apiID,
		FirstName:    first,
		LastName:     last,
		Team:         teamCode,
		Position:     player.PositionGoalie,
		Price:        price,
		InitialPrice: price,
		BirthCountry: country,
		Regular: player.Stats{
			GamesPlayed: gp,
			Wins:        w,
			Shutouts:    so,
			GAA:         gaa,
			SavePct:     svPct,
		},
	}
}

// SeedPlayers returns a small selectable pool covering every slot.
func SeedPlayers() []player.Player {
	return []player.Player{
		skater(8478398, "Kyle", "Connor", "WPG", player.PositionLeftWing, 560_000, false, "USA", 82, 41, 56, 12, 8),
		skater(8479314, "Matthew", "Tkachuk", "FLA", player.PositionLeftWing, 480_000, false, "USA", 52, 22, 35, 3, 67),
		skater(8473419, "Brad", "Marchand", "FLA", player.PositionLeftWing, 420_000, false, "CAN", 71, 21, 26, -5, 64),
		skater(8481553, "Juraj", "Slafkovsky", "MTL", player.PositionLeftWing, 260_000, true, "SVK", 79, 18, 33, -8, 26),
		skater(8478402, "Connor", "McDavid", "EDM", player.PositionCenter, 680_000, false, "CAN", 67, 26, 74, 21, 37),
		skater(8477492, "Nathan", "MacKinnon", "COL", player.PositionCenter, 700_000, false, "CAN", 79, 32, 84, 9, 42),
		skater(8478449, "Roope", "Hintz", "DAL", player.PositionCenter, 380_000, false, "FIN", 77, 28, 28, 6, 8),
		skater(8478427, "Sebastian", "Aho", "CAR", player.PositionCenter, 430_000, false, "FIN", 80, 29, 45, 8, 22),
		skater(8482116, "Tim", "Stützle", "OTT", player.PositionCenter, 400_000, true, "DEU", 82, 24, 55, -6, 38),
		skater(8478420, "Mikko", "Rantanen", "DAL", player.PositionRightWing, 590_000, false, "FIN", 81, 32, 56, -7, 36),
		skater(8476453, "Nikita", "Kucherov", "TBL", player.PositionRightWing, 650_000, false, "RUS", 78, 37, 84, 26, 43),
		skater(8478483, "Mitch", "Marner", "TOR", player.PositionRightWing, 600_000, false, "CAN", 81, 27, 75, 10, 12),
		skater(8483441, "Ivan", "Demidov", "MTL", player.PositionRightWing, 150_000, true, "RUS", 2, 1, 1, 0, 0),
		skater(8480069, "Cale", "Makar", "COL", player.PositionDefense, 560_000, false, "CAN", 80, 30, 62, 28, 32),
		skater(8480803, "Evan", "Bouchard", "EDM", player.PositionDefense, 430_000, false, "CAN", 82, 14, 53, -4, 26),
		skater(8480036, "Miro", "Heiskanen", "DAL", player.PositionDefense, 300_000, false, "FIN", 50, 5, 20, -3, 6),
		skater(8476902, "Esa", "Lindell", "DAL", player.PositionDefense, 180_000, false, "FIN", 80, 7, 22, 17, 24),
		skater(8483457, "Lane", "Hutson", "MTL", player.PositionDefense, 330_000, true, "USA", 82, 6, 60, -6, 20),
		skater(8477346, "Jaccob", "Slavin", "CAR", player.PositionDefense, 200_000, false, "USA", 78, 7, 23, 26, 8),
		goalie(8476945, "Connor", "Hellebuyck", "WPG", 650_000, "USA", 63, 47, 8, 2.00, 0.925),
		goalie(8476883, "Andrei", "Vasilevskiy", "TBL", 560_000, "RUS", 63, 38, 6, 2.18, 0.921),
		goalie(8475683, "Sergei", "Bobrovsky", "FLA", 470_000, "RUS", 58, 33, 3, 2.44, 0.905),
		goalie(8479979, "Jake", "Oettinger", "DAL", 480_000, "USA", 60, 36, 3, 2.47, 0.909),
		goalie(8475883, "Frederik", "Andersen", "CAR", 420_000, "DNK", 21, 12, 2, 2.19, 0.912),
	}
}

// SeedUsers returns demo contestants for local runs.
func SeedUsers() []user.User {
	createdAt := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	return []user.User{
		{ID: "demo-user-1", Username: "jere", TeamName: "Jätkäsaari Jets", CreatedAt: createdAt},
		{ID: "demo-user-2", Username: "aino", TeamName: "Kallio Canucks", CreatedAt: createdAt},
		{ID: "demo-user-3", Username: "mikko", TeamName: "Pasila Penguins", CreatedAt: createdAt},
	}
}
