package user

import "time"

// User is a contestant provisioned by the account service.
type User struct {
	ID        string
	Username  string
	TeamName  string
	LogoURL   string
	CreatedAt time.Time
}
