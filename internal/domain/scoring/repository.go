package scoring

import "context"

// Repository stores computed user points.
type Repository interface {
	Get(ctx context.Context, userID string) (UserPoints, bool, error)
	List(ctx context.Context) ([]UserPoints, error)
	UpsertMany(ctx context.Context, points []UserPoints) error
}
