package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/prediction"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
)

type PredictionSummary struct {
	UserID  string
	Summary prediction.Summary
	Points  int
}

type PredictionService struct {
	predictionRepo prediction.Repository
	playerRepo     player.Repository
	userRepo       user.Repository
	pointsPerPick  int
}

func NewPredictionService(
	predictionRepo prediction.Repository,
	playerRepo player.Repository,
	userRepo user.Repository,
	pointsPerPick int,
) *PredictionService {
	return &PredictionService{
		predictionRepo: predictionRepo,
		playerRepo:     playerRepo,
		userRepo:       userRepo,
		pointsPerPick:  pointsPerPick,
	}
}

// Save stores a complete prediction sheet. Wire category names are resolved
// first, so legacy aliases are accepted.
func (s *PredictionService) Save(ctx context.Context, userID string, raw map[string][]string) (prediction.Picks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Save")
	defer span.End()

	userID, err := requireUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}

	picks := make(prediction.Picks, len(raw))
	ids := make([]string, 0, len(raw)*prediction.PicksPerCategory)
	for name, values := range raw {
		c, ok := prediction.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", prediction.ErrInvalidPicks, name)
		}
		if _, dup := picks[c]; dup {
			return nil, fmt.Errorf("%w: category %s given twice", prediction.ErrInvalidPicks, c)
		}
		trimmed := make([]string, 0, len(values))
		for _, v := range values {
			trimmed = append(trimmed, strings.TrimSpace(v))
		}
		picks[c] = trimmed
		ids = append(ids, trimmed...)
	}

	items, err := s.playerRepo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}
	players := make(map[string]player.Player, len(items))
	for _, p := range items {
		players[p.ID] = p
	}

	if err := prediction.Validate(picks, players); err != nil {
		return nil, err
	}
	if err := s.predictionRepo.Save(ctx, userID, picks); err != nil {
		return nil, fmt.Errorf("save predictions: %w", err)
	}

	return picks, nil
}

func (s *PredictionService) Get(ctx context.Context, userID string) (prediction.Picks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	picks, exists, err := s.predictionRepo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load predictions: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: predictions for user=%s", ErrNotFound, userID)
	}
	return picks, nil
}

func (s *PredictionService) Summary(ctx context.Context, userID string) (PredictionSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Summary")
	defer span.End()

	picks, err := s.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return PredictionSummary{}, err
	}

	players, err := s.playerRepo.List(ctx, player.Filter{})
	if err != nil {
		return PredictionSummary{}, fmt.Errorf("list players: %w", err)
	}

	summary := prediction.Summarize(picks, players)
	return PredictionSummary{
		UserID:  strings.TrimSpace(userID),
		Summary: summary,
		Points:  summary.Points(s.pointsPerPick),
	}, nil
}
