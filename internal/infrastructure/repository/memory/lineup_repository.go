package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
)

// LineupRepository serialises every write behind one mutex, which keeps
// Update atomic per user.
type LineupRepository struct {
	mu      sync.RWMutex
	records map[string]lineup.Record
	trades  map[string][]lineup.Trade
	history map[string][]lineup.HistoryEntry
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{
		records: make(map[string]lineup.Record),
		trades:  make(map[string][]lineup.Trade),
		history: make(map[string][]lineup.HistoryEntry),
	}
}

func (r *LineupRepository) Load(_ context.Context, userID string) (lineup.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.records[userID]
	if !ok {
		return lineup.Record{}, false, nil
	}
	return cloneRecord(item), true, nil
}

func (r *LineupRepository) Save(_ context.Context, record lineup.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store(record, nil)
	return nil
}

func (r *LineupRepository) Update(ctx context.Context, userID string, fn lineup.UpdateFunc) (lineup.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return lineup.Record{}, err
	}

	current, exists := r.records[userID]
	next, trades, err := fn(cloneRecord(current), exists)
	if err != nil {
		return lineup.Record{}, err
	}
	next.UserID = userID
	r.store(next, trades)
	return cloneRecord(next), nil
}

func (r *LineupRepository) ListAll(_ context.Context) ([]lineup.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lineup.Record, 0, len(r.records))
	for _, item := range r.records {
		out = append(out, cloneRecord(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *LineupRepository) ListTrades(_ context.Context, userID string) ([]lineup.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]lineup.Trade(nil), r.trades[userID]...), nil
}

func (r *LineupRepository) ListHistory(_ context.Context, userID string) ([]lineup.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.history[userID]
	out := make([]lineup.HistoryEntry, 0, len(items))
	for _, item := range items {
		out = append(out, cloneHistoryEntry(item))
	}
	return out, nil
}

// store must be called with the write lock held.
func (r *LineupRepository) store(record lineup.Record, trades []lineup.Trade) {
	at := record.UpdatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	prev := r.records[record.UserID].Lineup
	history := r.history[record.UserID]
	for _, slot := range lineup.ChangedSlots(prev, record.Lineup) {
		for i := range history {
			if history[i].Slot == slot && history[i].RemovedAt == nil {
				removed := at
				history[i].RemovedAt = &removed
			}
		}
		if playerID := record.Lineup[slot]; playerID != "" {
			history = append(history, lineup.HistoryEntry{
				UserID:   record.UserID,
				Slot:     slot,
				PlayerID: playerID,
				AddedAt:  at,
			})
		}
	}
	r.history[record.UserID] = history

	r.records[record.UserID] = cloneRecord(record)
	r.trades[record.UserID] = append(r.trades[record.UserID], trades...)
}

func cloneRecord(item lineup.Record) lineup.Record {
	copied := item
	copied.Lineup = maps.Clone(item.Lineup)
	if copied.Lineup == nil {
		copied.Lineup = map[lineup.Slot]string{}
	}
	return copied
}

func cloneHistoryEntry(item lineup.HistoryEntry) lineup.HistoryEntry {
	copied := item
	if item.RemovedAt != nil {
		removed := *item.RemovedAt
		copied.RemovedAt = &removed
	}
	return copied
}
