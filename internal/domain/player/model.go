package player

import (
	"fmt"
	"strings"
)

// Position is an NHL roster position.
type Position string

const (
	PositionLeftWing  Position = "L"
	PositionCenter    Position = "C"
	PositionRightWing Position = "R"
	PositionDefense   Position = "D"
	PositionGoalie    Position = "G"
)

var AllPositions = map[Position]struct{}{
	PositionLeftWing:  {},
	PositionCenter:    {},
	PositionRightWing: {},
	PositionDefense:   {},
	PositionGoalie:    {},
}

func (p Position) IsGoalie() bool {
	return p == PositionGoalie
}

func (p Position) IsForward() bool {
	return p == PositionLeftWing || p == PositionCenter || p == PositionRightWing
}

// Stats is one stat line. Goalie columns stay zero for skaters and vice versa.
type Stats struct {
	GamesPlayed    int
	Goals          int
	Assists        int
	Points         int
	PlusMinus      int
	PenaltyMinutes int

	Wins         int
	Shutouts     int
	Saves        int
	ShotsAgainst int
	GoalsAgainst int
	GAA          float64
	SavePct      float64
}

// Player is a selectable skater or goalie.
type Player struct {
	ID                    string
	APIID                 int64
	FirstName             string
	LastName              string
	Team                  string
	Position              Position
	Price                 int64
	InitialPrice          int64
	IsU23                 bool
	BirthCountry          string
	Regular               Stats
	Playoff               Stats
	LastPriceUpdateGameID int64
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Player) IsGoalie() bool {
	return p.Position.IsGoalie()
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Team == "" {
		return fmt.Errorf("player team is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("player last name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}
