package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/scoring"
)

type ScoringRepository struct {
	mu     sync.RWMutex
	byUser map[string]scoring.UserPoints
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{byUser: make(map[string]scoring.UserPoints)}
}

func (r *ScoringRepository) Get(_ context.Context, userID string) (scoring.UserPoints, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byUser[userID]
	if !ok {
		return scoring.UserPoints{}, false, nil
	}
	return cloneUserPoints(item), true, nil
}

func (r *ScoringRepository) List(_ context.Context) ([]scoring.UserPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.UserPoints, 0, len(r.byUser))
	for _, item := range r.byUser {
		out = append(out, cloneUserPoints(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *ScoringRepository) UpsertMany(_ context.Context, points []scoring.UserPoints) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range points {
		r.byUser[item.UserID] = cloneUserPoints(item)
	}
	return nil
}

func cloneUserPoints(item scoring.UserPoints) scoring.UserPoints {
	copied := item
	copied.BracketRounds = append([]bracket.RoundScore(nil), item.BracketRounds...)
	return copied
}
