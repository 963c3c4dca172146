package bracket

import "context"

// MatchupRepository stores official matchups per round.
type MatchupRepository interface {
	ListByRound(ctx context.Context, round Round) ([]Matchup, error)
	ReplaceRound(ctx context.Context, round Round, matchups []Matchup) error
}

// ResultRepository stores series outcomes keyed by matchup code.
type ResultRepository interface {
	List(ctx context.Context) ([]Result, error)
	ListByRound(ctx context.Context, round Round) ([]Result, error)
	Upsert(ctx context.Context, results []Result) error
	Delete(ctx context.Context, matchupCode string) (bool, error)
}

// PicksRepository stores one bracket per user.
type PicksRepository interface {
	Load(ctx context.Context, userID string) (Picks, bool, error)
	Save(ctx context.Context, userID string, picks Picks) error
	ListAll(ctx context.Context) ([]UserPicks, error)
}
