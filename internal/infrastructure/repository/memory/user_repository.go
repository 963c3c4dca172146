package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []user.User
}

func NewUserRepository(users []user.User) *UserRepository {
	return &UserRepository{users: append([]user.User(nil), users...)}
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]user.User(nil), r.users...), nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == userID {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) GetByTeamName(_ context.Context, teamName string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.TeamName, teamName) {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

// Add registers a user; used by seeds and tests.
func (r *UserRepository) Add(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = append(r.users, u)
}
