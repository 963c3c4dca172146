package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
	"github.com/Joona374/BracketChallenge2.0/internal/domain/user"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/id"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

// SaveLineupInput is a full desired lineup. TradesUsed and UnusedBudget are
// the client's own bookkeeping; the server recomputes both.
type SaveLineupInput struct {
	UserID       string
	Lineup       map[lineup.Slot]string
	TradesUsed   *int
	UnusedBudget *int64
}

// LineupView is a saved lineup hydrated with current player data.
type LineupView struct {
	UserID          string
	Players         map[lineup.Slot]player.Player
	RemainingTrades int
	EffectiveBudget int64
	UnusedBudget    int64
	UsedBudget      int64
	Locked          bool
	Phase           lineup.Phase
	UpdatedAt       time.Time
}

type SaveLineupResult struct {
	View       LineupView
	TradesUsed int
	Trades     []lineup.Trade
}

type LineupSummary struct {
	UserID        string
	SeasonPoints  int
	GameLogPoints int
	Slots         []lineup.SlotPoints
}

type LineupService struct {
	playerRepo  player.Repository
	gameLogRepo player.GameLogRepository
	lineupRepo  lineup.Repository
	userRepo    user.Repository
	deadline    *DeadlineService
	rules       lineup.Rules
	idGen       id.Generator
	events      EventPublisher
	logger      *logging.Logger
}

func NewLineupService(
	playerRepo player.Repository,
	gameLogRepo player.GameLogRepository,
	lineupRepo lineup.Repository,
	userRepo user.Repository,
	deadline *DeadlineService,
	rules lineup.Rules,
	idGen id.Generator,
	events EventPublisher,
	logger *logging.Logger,
) *LineupService {
	if rules.TotalBudget <= 0 || rules.MaxTrades <= 0 {
		rules = lineup.DefaultRules()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if events == nil {
		events = NoopPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LineupService{
		playerRepo:  playerRepo,
		gameLogRepo: gameLogRepo,
		lineupRepo:  lineupRepo,
		userRepo:    userRepo,
		deadline:    deadline,
		rules:       rules,
		idGen:       idGen,
		events:      events,
		logger:      logger,
	}
}

func (s *LineupService) Get(ctx context.Context, userID string) (LineupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return LineupView{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	record, exists, err := s.lineupRepo.Load(ctx, userID)
	if err != nil {
		return LineupView{}, fmt.Errorf("load lineup: %w", err)
	}
	if !exists {
		return LineupView{}, fmt.Errorf("%w: lineup for user=%s", ErrNotFound, userID)
	}

	players, err := s.playersByID(ctx, recordIDs(record))
	if err != nil {
		return LineupView{}, err
	}

	state := s.stateFromRecord(record, true, players)
	return s.view(record, state, players), nil
}

// Save replaces the user's lineup with the desired one, atomically with
// respect to other saves of the same user.
func (s *LineupService) Save(ctx context.Context, input SaveLineupInput) (SaveLineupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Save")
	defer span.End()

	userID, err := requireUser(ctx, s.userRepo, input.UserID)
	if err != nil {
		return SaveLineupResult{}, err
	}

	desired := make(map[lineup.Slot]string, len(input.Lineup))
	for slot, playerID := range input.Lineup {
		slot = lineup.Slot(strings.ToUpper(strings.TrimSpace(string(slot))))
		if !slot.Valid() {
			return SaveLineupResult{}, fmt.Errorf("%w: %s", lineup.ErrUnknownSlot, slot)
		}
		if playerID = strings.TrimSpace(playerID); playerID != "" {
			desired[slot] = playerID
		}
	}

	if s.deadline != nil && s.deadline.InGracePeriod() {
		return SaveLineupResult{}, lineup.ErrGracePeriod
	}
	deadlinePassed := s.deadline != nil && s.deadline.Passed()
	now := time.Now().UTC()
	if s.deadline != nil {
		now = s.deadline.Now().UTC()
	}

	var result SaveLineupResult
	var hydrated map[string]player.Player
	record, err := s.lineupRepo.Update(ctx, userID, func(current lineup.Record, exists bool) (lineup.Record, []lineup.Trade, error) {
		ids := recordIDs(current)
		for _, playerID := range desired {
			ids = append(ids, playerID)
		}
		players, err := s.playersByID(ctx, ids)
		if err != nil {
			return lineup.Record{}, nil, err
		}
		hydrated = players

		state := s.stateFromRecord(current, exists, players)
		phase := lineup.PhaseFor(deadlinePassed, state)

		state, err = applyDesired(lineup.Reset(state), phase, desired, players)
		if err != nil {
			return lineup.Record{}, nil, err
		}

		commit, err := lineup.Save(state, phase)
		if err != nil {
			return lineup.Record{}, nil, err
		}

		var trades []lineup.Trade
		if phase == lineup.PhaseLocked {
			for _, change := range commit.Changes {
				tradeID, err := s.idGen.NewID()
				if err != nil {
					return lineup.Record{}, nil, fmt.Errorf("generate trade id: %w", err)
				}
				trades = append(trades, lineup.Trade{
					ID:        tradeID,
					UserID:    userID,
					Slot:      change.Slot,
					PlayerOut: change.Out.PlayerID,
					PlayerIn:  change.In.PlayerID,
					PriceOut:  change.Out.Price,
					PriceIn:   change.In.Price,
					CreatedAt: now,
				})
			}
		}

		result.TradesUsed = commit.TradesUsed
		result.Trades = trades
		return lineup.Record{
			UserID:          userID,
			Lineup:          commit.State.Lineup.IDs(),
			RemainingTrades: commit.State.RemainingTrades,
			UnusedBudget:    commit.UnusedBudget,
			Locked:          commit.State.Locked,
			UpdatedAt:       now,
		}, trades, nil
	})
	if err != nil {
		if isLineupRejection(err) || errors.Is(err, ErrInvalidInput) {
			return SaveLineupResult{}, err
		}
		return SaveLineupResult{}, fmt.Errorf("update lineup: %w", err)
	}

	s.warnOnClientDrift(ctx, userID, input, result.TradesUsed, record.UnusedBudget)

	state := s.stateFromRecord(record, true, hydrated)
	result.View = s.view(record, state, hydrated)

	publishBestEffort(ctx, s.events, s.logger, EventLineupSaved, LineupSavedEvent{
		UserID:          userID,
		TradesUsed:      result.TradesUsed,
		RemainingTrades: record.RemainingTrades,
		Locked:          record.Locked,
	})
	return result, nil
}

func (s *LineupService) History(ctx context.Context, userID string) ([]lineup.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.History")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	items, err := s.lineupRepo.ListTrades(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return items, nil
}

// Summary scores the saved lineup with playoff totals and with game logs
// attributed through the lineup history.
func (s *LineupService) Summary(ctx context.Context, userID string) (LineupSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Summary")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return LineupSummary{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	record, exists, err := s.lineupRepo.Load(ctx, userID)
	if err != nil {
		return LineupSummary{}, fmt.Errorf("load lineup: %w", err)
	}
	if !exists {
		return LineupSummary{}, fmt.Errorf("%w: lineup for user=%s", ErrNotFound, userID)
	}

	history, err := s.lineupRepo.ListHistory(ctx, userID)
	if err != nil {
		return LineupSummary{}, fmt.Errorf("list lineup history: %w", err)
	}

	ids := recordIDs(record)
	for _, h := range history {
		ids = append(ids, h.PlayerID)
	}
	players, err := s.playersByID(ctx, ids)
	if err != nil {
		return LineupSummary{}, err
	}

	season, slots := lineup.SeasonPoints(record.Lineup, players)
	summary := LineupSummary{UserID: userID, SeasonPoints: season, Slots: slots}

	if s.gameLogRepo != nil {
		logs, err := s.gameLogRepo.ListAll(ctx)
		if err != nil {
			return LineupSummary{}, fmt.Errorf("list game logs: %w", err)
		}
		summary.GameLogPoints = lineup.GameLogPoints(history, logs, players)
	}
	return summary, nil
}

// stateFromRecord rebuilds the editable state. The effective budget is the
// banked unused budget plus what the saved players are worth today.
func (s *LineupService) stateFromRecord(record lineup.Record, exists bool, players map[string]player.Player) lineup.State {
	state := lineup.NewState(s.rules)
	if !exists {
		return state
	}

	saved := lineup.Lineup{}
	for slot, playerID := range record.Lineup {
		p, ok := players[playerID]
		if !ok {
			continue
		}
		saved[slot] = lineup.PickOf(p)
	}

	state.Lineup = saved.Clone()
	state.Original = saved
	state.RemainingTrades = record.RemainingTrades
	state.TotalBudget = record.UnusedBudget + saved.UsedBudget()
	state.Locked = record.Locked
	return state
}

func (s *LineupService) view(record lineup.Record, state lineup.State, players map[string]player.Player) LineupView {
	out := make(map[lineup.Slot]player.Player, len(record.Lineup))
	for slot, playerID := range record.Lineup {
		if p, ok := players[playerID]; ok {
			out[slot] = p
		}
	}

	deadlinePassed := s.deadline != nil && s.deadline.Passed()
	return LineupView{
		UserID:          record.UserID,
		Players:         out,
		RemainingTrades: record.RemainingTrades,
		EffectiveBudget: state.TotalBudget,
		UnusedBudget:    record.UnusedBudget,
		UsedBudget:      state.UsedBudget(),
		Locked:          record.Locked,
		Phase:           lineup.PhaseFor(deadlinePassed, state),
		UpdatedAt:       record.UpdatedAt,
	}
}

func (s *LineupService) warnOnClientDrift(ctx context.Context, userID string, input SaveLineupInput, tradesUsed int, unusedBudget int64) {
	if input.TradesUsed != nil && *input.TradesUsed != tradesUsed {
		s.logger.WarnContext(ctx, "client trade count differs from server",
			"user_id", userID, "client_trades_used", *input.TradesUsed, "trades_used", tradesUsed)
	}
	if input.UnusedBudget != nil && *input.UnusedBudget != unusedBudget {
		s.logger.WarnContext(ctx, "client unused budget differs from server",
			"user_id", userID, "client_unused_budget", *input.UnusedBudget, "unused_budget", unusedBudget)
	}
}

func (s *LineupService) playersByID(ctx context.Context, ids []string) (map[string]player.Player, error) {
	ids = uniqueIDs(ids)
	out := make(map[string]player.Player, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	items, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

// applyDesired empties every slot that changes and then fills the new
// occupants in slot order, so a player may move between slots.
func applyDesired(state lineup.State, phase lineup.Phase, desired map[lineup.Slot]string, players map[string]player.Player) (lineup.State, error) {
	var err error
	for _, slot := range lineup.Slots {
		if state.Lineup.Occupant(slot) != desired[slot] {
			if state, err = lineup.Vacate(state, slot); err != nil {
				return state, err
			}
		}
	}

	for _, slot := range lineup.Slots {
		playerID := desired[slot]
		if playerID == "" || state.Lineup.Occupant(slot) == playerID {
			continue
		}
		p, ok := players[playerID]
		if !ok {
			return state, fmt.Errorf("%w: unknown player %s", ErrInvalidInput, playerID)
		}
		if state, err = lineup.Assign(state, phase, slot, lineup.PickOf(p)); err != nil {
			return state, err
		}
	}
	return state, nil
}

func isLineupRejection(err error) bool {
	for _, target := range []error{
		lineup.ErrOverBudget,
		lineup.ErrNoTradesLeft,
		lineup.ErrSlotEmpty,
		lineup.ErrPositionMismatch,
		lineup.ErrDuplicatePlayer,
		lineup.ErrLineupLocked,
		lineup.ErrGracePeriod,
		lineup.ErrUnknownSlot,
		lineup.ErrNoOpenSlot,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func recordIDs(record lineup.Record) []string {
	ids := make([]string, 0, len(record.Lineup))
	for _, playerID := range record.Lineup {
		ids = append(ids, playerID)
	}
	return ids
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
