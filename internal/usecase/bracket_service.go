package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/bracket"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/team"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

type MatchupInput struct {
	MatchupCode string
	Team1       string
	Team2       string
}

type SaveMatchupsInput struct {
	Round bracket.Round
	East  []MatchupInput
	West  []MatchupInput
	Final []MatchupInput
}

type ResultInput struct {
	MatchupCode string
	Winner      string
	Games       int
}

type SaveResultsInput struct {
	Round   bracket.Round
	Results []ResultInput
}

type RecordPickInput struct {
	UserID  string
	Matchup string
	Team    string
	Games   *int
}

type BracketSummary struct {
	UserID string
	Score  bracket.Score
}

type BracketService struct {
	matchupRepo bracket.MatchupRepository
	resultRepo  bracket.ResultRepository
	picksRepo   bracket.PicksRepository
	teamRepo    team.Repository
	userRepo    user.Repository
	weights     bracket.Weights
	events      EventPublisher
	logger      *logging.Logger
}

func NewBracketService(
	matchupRepo bracket.MatchupRepository,
	resultRepo bracket.ResultRepository,
	picksRepo bracket.PicksRepository,
	teamRepo team.Repository,
	userRepo user.Repository,
	weights bracket.Weights,
	events EventPublisher,
	logger *logging.Logger,
) *BracketService {
	if weights == nil {
		weights = bracket.DefaultWeights()
	}
	if events == nil {
		events = NoopPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &BracketService{
		matchupRepo: matchupRepo,
		resultRepo:  resultRepo,
		picksRepo:   picksRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		weights:     weights,
		events:      events,
		logger:      logger,
	}
}

func (s *BracketService) RoundView(ctx context.Context, round bracket.Round) (bracket.RoundView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.RoundView")
	defer span.End()

	if !round.Valid() {
		return bracket.RoundView{}, fmt.Errorf("%w: round must be between 1 and 4", ErrInvalidInput)
	}

	items, err := s.matchupRepo.ListByRound(ctx, round)
	if err != nil {
		return bracket.RoundView{}, fmt.Errorf("list matchups by round: %w", err)
	}

	return bracket.NewRoundView(items), nil
}

// SaveMatchups replaces the official matchups of a round. Admin-entered
// codes are mapped to canonical bracket codes first.
func (s *BracketService) SaveMatchups(ctx context.Context, input SaveMatchupsInput) ([]bracket.Matchup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.SaveMatchups")
	defer span.End()

	if input.Round == 0 {
		input.Round = bracket.RoundOne
	}
	if !input.Round.Valid() {
		return nil, fmt.Errorf("%w: round must be between 1 and 4", ErrInvalidInput)
	}

	groups := []struct {
		conf  team.Conference
		items []MatchupInput
	}{
		{team.ConferenceWest, input.West},
		{team.ConferenceEast, input.East},
		{"", input.Final},
	}

	out := make([]bracket.Matchup, 0, len(input.West)+len(input.East)+len(input.Final))
	for _, g := range groups {
		for _, item := range g.items {
			code, ok := bracket.BracketKey(input.Round, item.MatchupCode)
			if !ok {
				return nil, fmt.Errorf("%w: matchup code %q is not valid for round %d", bracket.ErrInvalidMatchups, item.MatchupCode, input.Round)
			}
			conf := g.conf
			if input.Round == bracket.RoundFinal {
				conf = ""
			} else if conf == "" {
				conf = bracket.ConferenceOf(code)
			}
			out = append(out, bracket.Matchup{
				ID:          int64(len(out) + 1),
				Round:       input.Round,
				Conference:  conf,
				Team1:       strings.ToUpper(strings.TrimSpace(item.Team1)),
				Team2:       strings.ToUpper(strings.TrimSpace(item.Team2)),
				MatchupCode: code,
			})
		}
	}

	if err := bracket.ValidateMatchups(input.Round, out); err != nil {
		return nil, err
	}
	if err := s.ensureTeamsExist(ctx, out); err != nil {
		return nil, err
	}

	if err := s.matchupRepo.ReplaceRound(ctx, input.Round, out); err != nil {
		return nil, fmt.Errorf("replace matchups: %w", err)
	}

	s.logger.InfoContext(ctx, "matchups saved", "round", int(input.Round), "count", len(out))
	return out, nil
}

func (s *BracketService) ensureTeamsExist(ctx context.Context, matchups []bracket.Matchup) error {
	if s.teamRepo == nil {
		return nil
	}
	for _, m := range matchups {
		for _, code := range []string{m.Team1, m.Team2} {
			_, exists, err := s.teamRepo.GetByCode(ctx, code)
			if err != nil {
				return fmt.Errorf("get team: %w", err)
			}
			if !exists {
				return fmt.Errorf("%w: unknown team %s in %s", bracket.ErrInvalidMatchups, code, m.MatchupCode)
			}
		}
	}
	return nil
}

// ListResults lists results of one round, or all results for round 0.
func (s *BracketService) ListResults(ctx context.Context, round bracket.Round) ([]bracket.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.ListResults")
	defer span.End()

	if round == 0 {
		items, err := s.resultRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
		return items, nil
	}
	if !round.Valid() {
		return nil, fmt.Errorf("%w: round must be between 1 and 4", ErrInvalidInput)
	}

	items, err := s.resultRepo.ListByRound(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("list results by round: %w", err)
	}
	return items, nil
}

// SaveResults creates or overwrites series outcomes of a round. When the
// round has official matchups the winner must be one of the two teams.
func (s *BracketService) SaveResults(ctx context.Context, input SaveResultsInput) ([]bracket.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.SaveResults")
	defer span.End()

	if !input.Round.Valid() {
		return nil, fmt.Errorf("%w: round must be between 1 and 4", ErrInvalidInput)
	}
	if len(input.Results) == 0 {
		return nil, fmt.Errorf("%w: results are required", ErrInvalidInput)
	}

	official, err := s.matchupRepo.ListByRound(ctx, input.Round)
	if err != nil {
		return nil, fmt.Errorf("list matchups by round: %w", err)
	}
	pairs := make(map[string]bracket.Pair, len(official))
	for _, m := range official {
		pairs[m.MatchupCode] = m.Pair()
	}

	out := make([]bracket.Result, 0, len(input.Results))
	codes := make([]string, 0, len(input.Results))
	for _, item := range input.Results {
		code, ok := bracket.BracketKey(input.Round, item.MatchupCode)
		if !ok {
			return nil, fmt.Errorf("%w: matchup code %q is not valid for round %d", bracket.ErrInvalidResult, item.MatchupCode, input.Round)
		}
		result := bracket.Result{
			MatchupCode: code,
			Round:       input.Round,
			Winner:      strings.ToUpper(strings.TrimSpace(item.Winner)),
			Games:       item.Games,
		}
		if err := result.Validate(); err != nil {
			return nil, err
		}
		if pair, ok := pairs[code]; ok && !pair.Contains(result.Winner) {
			return nil, fmt.Errorf("%w: %s did not play in %s", bracket.ErrInvalidResult, result.Winner, code)
		}
		out = append(out, result)
		codes = append(codes, code)
	}

	if err := s.resultRepo.Upsert(ctx, out); err != nil {
		return nil, fmt.Errorf("upsert results: %w", err)
	}

	publishBestEffort(ctx, s.events, s.logger, EventResultsSaved, ResultsSavedEvent{Round: int(input.Round), MatchupCodes: codes})
	return out, nil
}

func (s *BracketService) DeleteResult(ctx context.Context, matchupCode string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.DeleteResult")
	defer span.End()

	ref, err := bracket.ParseMatchupRef(matchupCode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	code := ref.Code()

	deleted, err := s.resultRepo.Delete(ctx, code)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: result=%s", ErrNotFound, code)
	}

	publishBestEffort(ctx, s.events, s.logger, EventResultsDeleted, ResultDeletedEvent{MatchupCode: code})
	return nil
}

// SavePicks stores a user's bracket. Picks are pruned and re-derived, never
// rejected for inconsistency.
func (s *BracketService) SavePicks(ctx context.Context, userID string, picks bracket.Picks) (bracket.Picks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.SavePicks")
	defer span.End()

	userID, err := requireUser(ctx, s.userRepo, userID)
	if err != nil {
		return bracket.Picks{}, err
	}

	official, err := s.matchupRepo.ListByRound(ctx, bracket.RoundOne)
	if err != nil {
		return bracket.Picks{}, fmt.Errorf("list round one matchups: %w", err)
	}

	derived := bracket.PruneRoundOne(picks, official)
	if err := s.picksRepo.Save(ctx, userID, derived); err != nil {
		return bracket.Picks{}, fmt.Errorf("save picks: %w", err)
	}

	return derived, nil
}

func (s *BracketService) GetPicks(ctx context.Context, userID string) (bracket.Picks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.GetPicks")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return bracket.Picks{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	picks, exists, err := s.picksRepo.Load(ctx, userID)
	if err != nil {
		return bracket.Picks{}, fmt.Errorf("load picks: %w", err)
	}
	if !exists {
		return bracket.Picks{}, fmt.Errorf("%w: picks for user=%s", ErrNotFound, userID)
	}

	return bracket.Derive(picks), nil
}

// RecordPick applies one winner pick, and optionally a series length, to
// the stored bracket.
func (s *BracketService) RecordPick(ctx context.Context, input RecordPickInput) (bracket.Picks, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.RecordPick")
	defer span.End()

	userID, err := requireUser(ctx, s.userRepo, input.UserID)
	if err != nil {
		return bracket.Picks{}, err
	}
	ref, err := bracket.ParseMatchupRef(input.Matchup)
	if err != nil {
		return bracket.Picks{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	teamCode := strings.ToUpper(strings.TrimSpace(input.Team))
	if teamCode == "" {
		return bracket.Picks{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	current, exists, err := s.picksRepo.Load(ctx, userID)
	if err != nil {
		return bracket.Picks{}, fmt.Errorf("load picks: %w", err)
	}
	if !exists {
		current = bracket.NewPicks()
	}

	official, err := s.matchupRepo.ListByRound(ctx, bracket.RoundOne)
	if err != nil {
		return bracket.Picks{}, fmt.Errorf("list round one matchups: %w", err)
	}

	next, ok := bracket.RecordPick(current, ref, teamCode, bracket.RoundOnePairs(official))
	if !ok {
		return bracket.Picks{}, fmt.Errorf("%w: %s is not in matchup %s", ErrInvalidInput, teamCode, ref.Code())
	}
	if input.Games != nil {
		if next, ok = bracket.SetGames(next, ref, *input.Games); !ok {
			return bracket.Picks{}, fmt.Errorf("%w: games must be between %d and %d", ErrInvalidInput, bracket.MinGames, bracket.MaxGames)
		}
	}

	if err := s.picksRepo.Save(ctx, userID, next); err != nil {
		return bracket.Picks{}, fmt.Errorf("save picks: %w", err)
	}
	return next, nil
}

func (s *BracketService) Summary(ctx context.Context, userID string) (BracketSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BracketService.Summary")
	defer span.End()

	picks, err := s.GetPicks(ctx, userID)
	if err != nil {
		return BracketSummary{}, err
	}
	results, err := s.resultRepo.List(ctx)
	if err != nil {
		return BracketSummary{}, fmt.Errorf("list results: %w", err)
	}

	return BracketSummary{
		UserID: strings.TrimSpace(userID),
		Score:  bracket.ScorePicks(picks, results, s.weights),
	}, nil
}

