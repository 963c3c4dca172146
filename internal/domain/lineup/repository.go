package lineup

import "context"

// UpdateFunc receives the current record, if any, and returns the record to
// store plus the trades it confirms. Returning an error aborts the update.
type UpdateFunc func(current Record, exists bool) (Record, []Trade, error)

// Repository exposes lineup persistence operations. Update is atomic per
// user: concurrent updates for the same user are serialised, and lineup
// history intervals are closed and opened for every slot whose saved
// occupant changed.
type Repository interface {
	Load(ctx context.Context, userID string) (Record, bool, error)
	Save(ctx context.Context, record Record) error
	Update(ctx context.Context, userID string, fn UpdateFunc) (Record, error)
	ListAll(ctx context.Context) ([]Record, error)
	ListTrades(ctx context.Context, userID string) ([]Trade, error)
	ListHistory(ctx context.Context, userID string) ([]HistoryEntry, error)
}

// ChangedSlots lists, in slot order, the slots whose saved occupant differs.
func ChangedSlots(prev, next map[Slot]string) []Slot {
	var out []Slot
	for _, slot := range Slots {
		if prev[slot] != next[slot] {
			out = append(out, slot)
		}
	}
	return out
}
