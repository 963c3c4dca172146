package usecase

import (
	"context"
	"fmt"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
)

type TeamService struct {
	teamRepo team.Repository
}

func NewTeamService(teamRepo team.Repository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return items, nil
}
