package user

import "context"

// Repository reads contestant profiles.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByTeamName(ctx context.Context, teamName string) (User, bool, error)
}
