package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams []team.Team
	index map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	index := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		index[t.Code] = t
	}

	return &TeamRepository{
		teams: append([]team.Team(nil), teams...),
		index: index,
	}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	out = append(out, r.teams...)
	return out, nil
}

func (r *TeamRepository) GetByCode(_ context.Context, code string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.index[strings.ToUpper(strings.TrimSpace(code))]
	return item, ok, nil
}
