package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByCode(ctx context.Context, code string) (Team, bool, error)
}
