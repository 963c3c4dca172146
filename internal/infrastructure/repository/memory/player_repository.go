package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
	index   map[string]int
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	index := make(map[string]int, len(players))
	for i, p := range players {
		index[p.ID] = i
	}

	return &PlayerRepository{
		players: append([]player.Player(nil), players...),
		index:   index,
	}
}

func (r *PlayerRepository) List(_ context.Context, filter player.Filter) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		if matchesFilter(p, filter) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		i, ok := r.index[id]
		if !ok {
			continue
		}
		out = append(out, r.players[i])
	}
	return out, nil
}

func (r *PlayerRepository) UpdatePrices(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		i, ok := r.index[p.ID]
		if !ok {
			continue
		}
		r.players[i].Price = p.Price
		r.players[i].LastPriceUpdateGameID = p.LastPriceUpdateGameID
	}
	return nil
}

func matchesFilter(p player.Player, filter player.Filter) bool {
	if filter.Position != "" && p.Position != filter.Position {
		return false
	}
	if filter.Team != "" && p.Team != filter.Team {
		return false
	}
	if filter.Goalies != nil && p.IsGoalie() != *filter.Goalies {
		return false
	}
	return true
}

type GameLogRepository struct {
	mu   sync.RWMutex
	logs map[string]map[int64]player.GameLog
}

func NewGameLogRepository() *GameLogRepository {
	return &GameLogRepository{logs: make(map[string]map[int64]player.GameLog)}
}

func (r *GameLogRepository) ListByPlayer(_ context.Context, playerID string) ([]player.GameLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.GameLog, 0, len(r.logs[playerID]))
	for _, log := range r.logs[playerID] {
		out = append(out, log)
	}
	sortGameLogs(out)
	return out, nil
}

func (r *GameLogRepository) ListAll(_ context.Context) ([]player.GameLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.GameLog, 0)
	for _, byGame := range r.logs {
		for _, log := range byGame {
			out = append(out, log)
		}
	}
	sortGameLogs(out)
	return out, nil
}

func (r *GameLogRepository) Upsert(_ context.Context, logs []player.GameLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, log := range logs {
		byGame, ok := r.logs[log.PlayerID]
		if !ok {
			byGame = make(map[int64]player.GameLog)
			r.logs[log.PlayerID] = byGame
		}
		byGame[log.GameID] = log
	}
	return nil
}

func sortGameLogs(logs []player.GameLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].PlayerID != logs[j].PlayerID {
			return logs[i].PlayerID < logs[j].PlayerID
		}
		if !logs[i].GameDate.Equal(logs[j].GameDate) {
			return logs[i].GameDate.Before(logs[j].GameDate)
		}
		return logs[i].GameID < logs[j].GameID
	})
}
