package lineup

import (
	"errors"
	"fmt"
)

var (
	ErrOverBudget       = errors.New("over budget")
	ErrNoTradesLeft     = errors.New("no trades left")
	ErrSlotEmpty        = errors.New("lineup slot empty")
	ErrPositionMismatch = errors.New("position does not fit slot")
	ErrDuplicatePlayer  = errors.New("player already in lineup")
	ErrLineupLocked     = errors.New("lineup locked")
	ErrGracePeriod      = errors.New("lineup changes paused during grace period")
	ErrUnknownSlot      = errors.New("unknown lineup slot")
	ErrNoOpenSlot       = errors.New("no open slot for position")
)

// BudgetError rejects an assignment that would exceed the total budget.
type BudgetError struct {
	Slot      Slot
	Price     int64
	Available int64
	Shortfall int64
}

func (e *BudgetError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("%s: short by %d", ErrOverBudget, e.Shortfall)
	}
	return fmt.Sprintf("%s: short by %d for slot %s", ErrOverBudget, e.Shortfall, e.Slot)
}

func (e *BudgetError) Unwrap() error { return ErrOverBudget }

// TradeLimitError rejects a change that needs more trades than remain.
type TradeLimitError struct {
	Remaining int
	Required  int
}

func (e *TradeLimitError) Error() string {
	return fmt.Sprintf("%s: %d trades remaining, %d required", ErrNoTradesLeft, e.Remaining, e.Required)
}

func (e *TradeLimitError) Unwrap() error { return ErrNoTradesLeft }

// IncompleteError rejects a save with empty slots.
type IncompleteError struct {
	Missing []Slot
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSlotEmpty, e.Missing)
}

func (e *IncompleteError) Unwrap() error { return ErrSlotEmpty }
