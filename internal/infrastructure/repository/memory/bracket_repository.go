package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
)

type MatchupRepository struct {
	mu      sync.RWMutex
	byRound map[bracket.Round][]bracket.Matchup
}

func NewMatchupRepository(matchups []bracket.Matchup) *MatchupRepository {
	byRound := make(map[bracket.Round][]bracket.Matchup)
	for _, m := range matchups {
		byRound[m.Round] = append(byRound[m.Round], m)
	}
	return &MatchupRepository{byRound: byRound}
}

func (r *MatchupRepository) ListByRound(_ context.Context, round bracket.Round) ([]bracket.Matchup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byRound[round]
	out := make([]bracket.Matchup, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *MatchupRepository) ReplaceRound(_ context.Context, round bracket.Round, matchups []bracket.Matchup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byRound[round] = append([]bracket.Matchup(nil), matchups...)
	return nil
}

type ResultRepository struct {
	mu     sync.RWMutex
	byCode map[string]bracket.Result
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{byCode: make(map[string]bracket.Result)}
}

func (r *ResultRepository) List(_ context.Context) ([]bracket.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bracket.Result, 0, len(r.byCode))
	for _, item := range r.byCode {
		out = append(out, item)
	}
	sortResults(out)
	return out, nil
}

func (r *ResultRepository) ListByRound(_ context.Context, round bracket.Round) ([]bracket.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bracket.Result, 0)
	for _, item := range r.byCode {
		if item.Round == round {
			out = append(out, item)
		}
	}
	sortResults(out)
	return out, nil
}

func (r *ResultRepository) Upsert(_ context.Context, results []bracket.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range results {
		r.byCode[item.MatchupCode] = item
	}
	return nil
}

func (r *ResultRepository) Delete(_ context.Context, matchupCode string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[matchupCode]; !ok {
		return false, nil
	}
	delete(r.byCode, matchupCode)
	return true, nil
}

func sortResults(items []bracket.Result) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Round != items[j].Round {
			return items[i].Round < items[j].Round
		}
		return items[i].MatchupCode < items[j].MatchupCode
	})
}

type PicksRepository struct {
	mu     sync.RWMutex
	byUser map[string]bracket.Picks
}

func NewPicksRepository() *PicksRepository {
	return &PicksRepository{byUser: make(map[string]bracket.Picks)}
}

func (r *PicksRepository) Load(_ context.Context, userID string) (bracket.Picks, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byUser[userID]
	if !ok {
		return bracket.Picks{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *PicksRepository) Save(_ context.Context, userID string, picks bracket.Picks) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[userID] = picks.Clone()
	return nil
}

func (r *PicksRepository) ListAll(_ context.Context) ([]bracket.UserPicks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bracket.UserPicks, 0, len(r.byUser))
	for userID, picks := range r.byUser {
		out = append(out, bracket.UserPicks{UserID: userID, Picks: picks.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
