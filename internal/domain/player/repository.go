package player

import "context"

// Filter narrows player listings. Empty fields match everything.
type Filter struct {
	Position Position
	Team     string
	Goalies  *bool
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	UpdatePrices(ctx context.Context, players []Player) error
}

// GameLogRepository stores per-game stat lines.
type GameLogRepository interface {
	ListByPlayer(ctx context.Context, playerID string) ([]GameLog, error)
	ListAll(ctx context.Context) ([]GameLog, error)
	Upsert(ctx context.Context, logs []GameLog) error
}
