package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
)

type UserService struct {
	userRepo user.Repository
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetByTeamName(ctx context.Context, teamName string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.GetByTeamName")
	defer span.End()

	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return user.User{}, fmt.Errorf("%w: teamName is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByTeamName(ctx, teamName)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by team name: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamName)
	}

	return item, nil
}

// requireUser resolves a trimmed user id or reports why it cannot.
func requireUser(ctx context.Context, repo user.Repository, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if repo == nil {
		return userID, nil
	}

	_, exists, err := repo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return userID, nil
}
