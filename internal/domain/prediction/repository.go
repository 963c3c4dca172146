package prediction

import "context"

// Repository stores one prediction sheet per user.
type Repository interface {
	Load(ctx context.Context, userID string) (Picks, bool, error)
	Save(ctx context.Context, userID string, picks Picks) error
	ListAll(ctx context.Context) ([]UserPicks, error)
}
