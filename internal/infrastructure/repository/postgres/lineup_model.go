package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
)

type lineupTableModel struct {
	UserID          string         `db:"user_id"`
	SlotPlayerIDs   pq.StringArray `db:"slot_player_ids"`
	RemainingTrades int            `db:"remaining_trades"`
	UnusedBudget    int64          `db:"unused_budget"`
	Locked          bool           `db:"locked"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type lineupTradeTableModel struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Slot      string    `db:"slot"`
	PlayerOut string    `db:"player_out"`
	PlayerIn  string    `db:"player_in"`
	PriceOut  int64     `db:"price_out"`
	PriceIn   int64     `db:"price_in"`
	CreatedAt time.Time `db:"created_at"`
}

type lineupHistoryTableModel struct {
	ID        int64        `db:"id"`
	UserID    string       `db:"user_id"`
	Slot      string       `db:"slot"`
	PlayerID  string       `db:"player_id"`
	AddedAt   time.Time    `db:"added_at"`
	RemovedAt sql.NullTime `db:"removed_at"`
}

type lineupHistoryInsertModel struct {
	UserID   string    `db:"user_id"`
	Slot     string    `db:"slot"`
	PlayerID string    `db:"player_id"`
	AddedAt  time.Time `db:"added_at"`
}

// slotArray flattens a lineup into lineup.Slots order, "" for empty slots.
func slotArray(ids map[lineup.Slot]string) pq.StringArray {
	out := make(pq.StringArray, len(lineup.Slots))
	for i, slot := range lineup.Slots {
		out[i] = ids[slot]
	}
	return out
}

func slotMap(arr pq.StringArray) map[lineup.Slot]string {
	out := make(map[lineup.Slot]string, len(lineup.Slots))
	for i, slot := range lineup.Slots {
		if i < len(arr) && arr[i] != "" {
			out[slot] = arr[i]
		}
	}
	return out
}

func recordFromRow(row lineupTableModel) lineup.Record {
	return lineup.Record{
		UserID:          row.UserID,
		Lineup:          slotMap(row.SlotPlayerIDs),
		RemainingTrades: row.RemainingTrades,
		UnusedBudget:    row.UnusedBudget,
		Locked:          row.Locked,
		UpdatedAt:       row.UpdatedAt,
	}
}

func tradeFromRow(row lineupTradeTableModel) lineup.Trade {
	return lineup.Trade{
		ID:        row.ID,
		UserID:    row.UserID,
		Slot:      lineup.Slot(row.Slot),
		PlayerOut: row.PlayerOut,
		PlayerIn:  row.PlayerIn,
		PriceOut:  row.PriceOut,
		PriceIn:   row.PriceIn,
		CreatedAt: row.CreatedAt,
	}
}

func historyFromRow(row lineupHistoryTableModel) lineup.HistoryEntry {
	entry := lineup.HistoryEntry{
		UserID:   row.UserID,
		Slot:     lineup.Slot(row.Slot),
		PlayerID: row.PlayerID,
		AddedAt:  row.AddedAt,
	}
	if row.RemovedAt.Valid {
		removed := row.RemovedAt.Time
		entry.RemovedAt = &removed
	}
	return entry
}
