package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/prediction"
)

type PredictionRepository struct {
	mu     sync.RWMutex
	byUser map[string]prediction.Picks
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{byUser: make(map[string]prediction.Picks)}
}

func (r *PredictionRepository) Load(_ context.Context, userID string) (prediction.Picks, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byUser[userID]
	if !ok {
		return nil, false, nil
	}
	return item.Clone(), true, nil
}

func (r *PredictionRepository) Save(_ context.Context, userID string, picks prediction.Picks) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[userID] = picks.Clone()
	return nil
}

func (r *PredictionRepository) ListAll(_ context.Context) ([]prediction.UserPicks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.UserPicks, 0, len(r.byUser))
	for userID, picks := range r.byUser {
		out = append(out, prediction.UserPicks{UserID: userID, Picks: picks.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
