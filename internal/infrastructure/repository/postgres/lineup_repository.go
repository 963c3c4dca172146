package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	qb "github.com/Joona374/BracketChallenge2.0/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) Load(ctx context.Context, userID string) (lineup.Record, bool, error) {
	query, args, err := qb.Select("*").From("lineups").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return lineup.Record{}, false, fmt.Errorf("build get lineup query: %w", err)
	}

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineup.Record{}, false, nil
		}
		return lineup.Record{}, false, fmt.Errorf("get lineup user=%s: %w", userID, err)
	}
	return recordFromRow(row), true, nil
}

func (r *LineupRepository) Save(ctx context.Context, record lineup.Record) error {
	_, err := r.Update(ctx, record.UserID, func(lineup.Record, bool) (lineup.Record, []lineup.Trade, error) {
		return record, nil, nil
	})
	return err
}

// Update locks the user's lineup for the whole transaction. The advisory
// lock also covers users without a row yet, where FOR UPDATE has nothing
// to hold.
func (r *LineupRepository) Update(ctx context.Context, userID string, fn lineup.UpdateFunc) (lineup.Record, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return lineup.Record{}, fmt.Errorf("begin tx update lineup: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return lineup.Record{}, fmt.Errorf("lock lineup user=%s: %w", userID, err)
	}

	query, args, err := qb.Select("*").From("lineups").
		Where(qb.Eq("user_id", userID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return lineup.Record{}, fmt.Errorf("build select lineup for update query: %w", err)
	}

	var (
		current lineup.Record
		exists  bool
		row     lineupTableModel
	)
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if !isNotFound(err) {
			return lineup.Record{}, fmt.Errorf("select lineup for update user=%s: %w", userID, err)
		}
		current = lineup.Record{UserID: userID, Lineup: map[lineup.Slot]string{}}
	} else {
		current = recordFromRow(row)
		exists = true
	}

	next, trades, err := fn(current, exists)
	if err != nil {
		return lineup.Record{}, err
	}
	next.UserID = userID
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = time.Now().UTC()
	}

	if err := upsertLineup(ctx, tx, next); err != nil {
		return lineup.Record{}, err
	}
	if err := insertTrades(ctx, tx, trades); err != nil {
		return lineup.Record{}, err
	}
	if err := moveHistory(ctx, tx, userID, current.Lineup, next.Lineup, next.UpdatedAt); err != nil {
		return lineup.Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return lineup.Record{}, fmt.Errorf("commit update lineup tx: %w", err)
	}
	return next, nil
}

func upsertLineup(ctx context.Context, tx *sqlx.Tx, record lineup.Record) error {
	query, args, err := qb.InsertModel("lineups", lineupTableModel{
		UserID:          record.UserID,
		SlotPlayerIDs:   slotArray(record.Lineup),
		RemainingTrades: record.RemainingTrades,
		UnusedBudget:    record.UnusedBudget,
		Locked:          record.Locked,
		UpdatedAt:       record.UpdatedAt,
	}, `ON CONFLICT (user_id)
DO UPDATE SET
    slot_player_ids = EXCLUDED.slot_player_ids,
    remaining_trades = EXCLUDED.remaining_trades,
    unused_budget = EXCLUDED.unused_budget,
    locked = EXCLUDED.locked,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert lineup query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert lineup user=%s: %w", record.UserID, err)
	}
	return nil
}

func insertTrades(ctx context.Context, tx *sqlx.Tx, trades []lineup.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	models := make([]lineupTradeTableModel, 0, len(trades))
	for _, trade := range trades {
		models = append(models, lineupTradeTableModel{
			ID:        trade.ID,
			UserID:    trade.UserID,
			Slot:      string(trade.Slot),
			PlayerOut: trade.PlayerOut,
			PlayerIn:  trade.PlayerIn,
			PriceOut:  trade.PriceOut,
			PriceIn:   trade.PriceIn,
			CreatedAt: trade.CreatedAt,
		})
	}

	query, args, err := qb.InsertModels("lineup_trades", models, "")
	if err != nil {
		return fmt.Errorf("build insert trades query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert trades: %w", err)
	}
	return nil
}

// moveHistory closes the open interval of every changed slot and opens one
// for its new occupant.
func moveHistory(ctx context.Context, tx *sqlx.Tx, userID string, prev, next map[lineup.Slot]string, at time.Time) error {
	changed := lineup.ChangedSlots(prev, next)
	if len(changed) == 0 {
		return nil
	}

	slots := make([]any, 0, len(changed))
	opened := make([]lineupHistoryInsertModel, 0, len(changed))
	for _, slot := range changed {
		slots = append(slots, string(slot))
		if playerID := next[slot]; playerID != "" {
			opened = append(opened, lineupHistoryInsertModel{
				UserID:   userID,
				Slot:     string(slot),
				PlayerID: playerID,
				AddedAt:  at,
			})
		}
	}

	closeQuery, closeArgs, err := qb.Update("lineup_history").
		Set("removed_at", at).
		Where(
			qb.Eq("user_id", userID),
			qb.In("slot", slots),
			qb.IsNull("removed_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close lineup history query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, closeQuery, closeArgs...); err != nil {
		return fmt.Errorf("close lineup history user=%s: %w", userID, err)
	}

	if len(opened) == 0 {
		return nil
	}
	openQuery, openArgs, err := qb.InsertModels("lineup_history", opened, "")
	if err != nil {
		return fmt.Errorf("build open lineup history query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, openQuery, openArgs...); err != nil {
		return fmt.Errorf("open lineup history user=%s: %w", userID, err)
	}
	return nil
}

func (r *LineupRepository) ListAll(ctx context.Context) ([]lineup.Record, error) {
	query, args, err := qb.Select("*").From("lineups").
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineups query: %w", err)
	}

	var rows []lineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineups: %w", err)
	}

	out := make([]lineup.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, recordFromRow(row))
	}
	return out, nil
}

func (r *LineupRepository) ListTrades(ctx context.Context, userID string) ([]lineup.Trade, error) {
	query, args, err := qb.Select("*").From("lineup_trades").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list trades query: %w", err)
	}

	var rows []lineupTradeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list trades user=%s: %w", userID, err)
	}

	out := make([]lineup.Trade, 0, len(rows))
	for _, row := range rows {
		out = append(out, tradeFromRow(row))
	}
	return out, nil
}

func (r *LineupRepository) ListHistory(ctx context.Context, userID string) ([]lineup.HistoryEntry, error) {
	query, args, err := qb.Select("*").From("lineup_history").
		Where(qb.Eq("user_id", userID)).
		OrderBy("added_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineup history query: %w", err)
	}

	var rows []lineupHistoryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineup history user=%s: %w", userID, err)
	}

	out := make([]lineup.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, historyFromRow(row))
	}
	return out, nil
}
