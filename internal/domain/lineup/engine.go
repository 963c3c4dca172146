package lineup

import "fmt"

// EffectiveRemainingTrades is the trade allowance left after pending
// changes. It is the raw signed value; callers clamp for display.
func EffectiveRemainingTrades(s State, phase Phase, rules Rules) int {
	if phase == PhaseOpen {
		return rules.MaxTrades
	}
	return s.RemainingTrades - s.PendingTrades()
}

// Assign places the candidate in the slot. The returned state is a copy;
// on rejection the input state is returned unchanged with the error.
func Assign(s State, phase Phase, slot Slot, candidate Pick) (State, error) {
	if !slot.Valid() {
		return s, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	if candidate.PlayerID == "" {
		return s, fmt.Errorf("%w: candidate has no id", ErrPositionMismatch)
	}
	if !slot.Accepts(candidate.Position) {
		return s, fmt.Errorf("%w: %s cannot play %s", ErrPositionMismatch, candidate.Position, slot)
	}
	if s.Lineup.Occupant(slot) == candidate.PlayerID {
		return s, nil
	}
	if other, ok := s.Lineup.SlotOf(candidate.PlayerID); ok {
		return s, fmt.Errorf("%w: %s already in %s", ErrDuplicatePlayer, candidate.PlayerID, other)
	}

	next := s
	next.Lineup = s.Lineup.Clone()
	next.Lineup[slot] = candidate

	if phase == PhaseLocked && candidate.PlayerID != s.Original.Occupant(slot) {
		if pending := next.PendingTrades(); pending > s.RemainingTrades {
			return s, &TradeLimitError{Remaining: s.RemainingTrades - (pending - 1), Required: 1}
		}
	}

	used := s.Lineup.usedExcluding(slot)
	if wouldUse := used + candidate.Price; wouldUse > s.TotalBudget {
		return s, &BudgetError{
			Slot:      slot,
			Price:     candidate.Price,
			Available: s.TotalBudget - used,
			Shortfall: wouldUse - s.TotalBudget,
		}
	}

	return next, nil
}

// AutoAssign places the candidate in the first empty slot accepting its
// position.
func AutoAssign(s State, phase Phase, candidate Pick) (State, Slot, error) {
	for _, slot := range Slots {
		if slot.Accepts(candidate.Position) && s.Lineup.IsEmpty(slot) {
			next, err := Assign(s, phase, slot, candidate)
			return next, slot, err
		}
	}
	return s, "", fmt.Errorf("%w: %s", ErrNoOpenSlot, candidate.Position)
}

// Vacate empties a slot. Reset brings the snapshot occupant back.
func Vacate(s State, slot Slot) (State, error) {
	if !slot.Valid() {
		return s, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	next := s
	next.Lineup = s.Lineup.Clone()
	delete(next.Lineup, slot)
	return next, nil
}

// Reset discards pending changes.
func Reset(s State) State {
	next := s
	next.Lineup = s.Original.Clone()
	return next
}

// Clear empties every slot. Only allowed while open.
func Clear(s State, phase Phase) (State, error) {
	if phase == PhaseLocked {
		return s, ErrLineupLocked
	}
	next := s
	next.Lineup = Lineup{}
	return next, nil
}

// Change is a slot whose occupant moved during a save.
type Change struct {
	Slot Slot
	Out  Pick
	In   Pick
}

// Commit is the outcome of a successful save.
type Commit struct {
	State        State
	TradesUsed   int
	Changes      []Change
	UnusedBudget int64
}

// Save validates the lineup and snapshots it. When locked, every changed
// slot consumes one trade and the state stays locked from then on.
func Save(s State, phase Phase) (Commit, error) {
	if missing := s.Lineup.MissingSlots(); len(missing) > 0 {
		return Commit{}, &IncompleteError{Missing: missing}
	}
	if used := s.Lineup.UsedBudget(); used > s.TotalBudget {
		return Commit{}, &BudgetError{Available: s.TotalBudget, Shortfall: used - s.TotalBudget}
	}

	var changes []Change
	for _, slot := range Slots {
		if s.Lineup.Occupant(slot) != s.Original.Occupant(slot) {
			changes = append(changes, Change{Slot: slot, Out: s.Original[slot], In: s.Lineup[slot]})
		}
	}

	next := s
	tradesUsed := 0
	if phase == PhaseLocked {
		tradesUsed = len(changes)
		if tradesUsed > s.RemainingTrades {
			return Commit{}, &TradeLimitError{Remaining: s.RemainingTrades, Required: tradesUsed}
		}
		next.RemainingTrades = s.RemainingTrades - tradesUsed
		next.Locked = true
	}
	next.Lineup = s.Lineup.Clone()
	next.Original = s.Lineup.Clone()

	return Commit{
		State:        next,
		TradesUsed:   tradesUsed,
		Changes:      changes,
		UnusedBudget: next.TotalBudget - next.Lineup.UsedBudget(),
	}, nil
}
