package team

import (
	"fmt"
	"strings"
)

// Conference splits the league into the two playoff halves.
type Conference string

const (
	ConferenceEast Conference = "east"
	ConferenceWest Conference = "west"
)

func (c Conference) Valid() bool {
	return c == ConferenceEast || c == ConferenceWest
}

// Team is an NHL club identified by its three letter code.
type Team struct {
	Code       string
	Name       string
	LogoURL    string
	Conference Conference
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Code) == "" {
		return fmt.Errorf("team code is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if !t.Conference.Valid() {
		return fmt.Errorf("invalid team conference: %s", t.Conference)
	}

	return nil
}
