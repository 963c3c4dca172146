package lineup

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
)

func pick(id string, pos player.Position, price int64) Pick {
	return Pick{PlayerID: id, Position: pos, Price: price}
}

func fullLineup() Lineup {
	return Lineup{
		SlotLeftWing:  pick("l1", player.PositionLeftWing, 300_000),
		SlotCenter:    pick("c1", player.PositionCenter, 400_000),
		SlotRightWing: pick("r1", player.PositionRightWing, 300_000),
		SlotLeftD:     pick("d1", player.PositionDefense, 250_000),
		SlotRightD:    pick("d2", player.PositionDefense, 250_000),
		SlotGoalie:    pick("g1", player.PositionGoalie, 400_000),
	}
}

func lockedState(remaining int) State {
	s := NewState(DefaultRules())
	s.Lineup = fullLineup()
	s.Original = fullLineup()
	s.RemainingTrades = remaining
	s.Locked = true
	return s
}

func TestAssign_OverBudgetReportsShortfall(t *testing.T) {
	s := NewState(DefaultRules())
	s.Lineup = Lineup{
		SlotLeftWing:  pick("l1", player.PositionLeftWing, 450_000),
		SlotCenter:    pick("c1", player.PositionCenter, 500_000),
		SlotRightWing: pick("r1", player.PositionRightWing, 450_000),
		SlotLeftD:     pick("d1", player.PositionDefense, 300_000),
		SlotRightD:    pick("d2", player.PositionDefense, 250_000),
	}
	if s.UsedBudget() != 1_950_000 {
		t.Fatalf("fixture budget mismatch: %d", s.UsedBudget())
	}

	got, err := Assign(s, PhaseOpen, SlotGoalie, pick("g9", player.PositionGoalie, 100_000))
	var budgetErr *BudgetError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("expected BudgetError, got %v", err)
	}
	if budgetErr.Shortfall != 50_000 {
		t.Fatalf("unexpected shortfall: got=%d want=50000", budgetErr.Shortfall)
	}
	if !errors.Is(err, ErrOverBudget) {
		t.Fatalf("BudgetError must wrap ErrOverBudget")
	}
	if !got.Lineup.IsEmpty(SlotGoalie) || len(s.Lineup) != 5 {
		t.Fatalf("lineup must stay unchanged on rejection")
	}
}

func TestAssign_ReplacementUsesBudgetExcludingSlot(t *testing.T) {
	s := NewState(DefaultRules())
	s.Lineup = fullLineup()

	got, err := Assign(s, PhaseOpen, SlotCenter, pick("c2", player.PositionCenter, 500_000))
	if err != nil {
		t.Fatalf("assign replacement: %v", err)
	}
	if got.UsedBudget() != 2_000_000 {
		t.Fatalf("unexpected used budget: %d", got.UsedBudget())
	}
	if s.Lineup.Occupant(SlotCenter) != "c1" {
		t.Fatalf("input state must not be mutated")
	}
}

func TestAssign_RejectsPositionMismatchAndDuplicates(t *testing.T) {
	s := NewState(DefaultRules())
	s.Lineup = Lineup{SlotLeftD: pick("d1", player.PositionDefense, 200_000)}

	if _, err := Assign(s, PhaseOpen, SlotGoalie, pick("d9", player.PositionDefense, 100_000)); !errors.Is(err, ErrPositionMismatch) {
		t.Fatalf("expected ErrPositionMismatch, got %v", err)
	}
	if _, err := Assign(s, PhaseOpen, SlotRightD, pick("d1", player.PositionDefense, 200_000)); !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}
	if _, err := Assign(s, PhaseOpen, Slot("X"), pick("c1", player.PositionCenter, 1)); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("expected ErrUnknownSlot, got %v", err)
	}
}

func TestAssign_LockedWithoutTrades(t *testing.T) {
	s := lockedState(0)

	_, err := Assign(s, PhaseLocked, SlotCenter, pick("c2", player.PositionCenter, 100_000))
	var limitErr *TradeLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected TradeLimitError, got %v", err)
	}
	if limitErr.Remaining != 0 || limitErr.Required != 1 {
		t.Fatalf("unexpected trade numbers: %+v", limitErr)
	}

	got, err := Assign(s, PhaseLocked, SlotCenter, pick("c1", player.PositionCenter, 400_000))
	if err != nil {
		t.Fatalf("reassigning the original occupant must succeed: %v", err)
	}
	if got.PendingTrades() != 0 {
		t.Fatalf("no-op must not create a pending trade")
	}
}

func TestAssign_VacatedSlotCanBeRefilledWithLastTrade(t *testing.T) {
	s := lockedState(1)

	s, err := Vacate(s, SlotCenter)
	if err != nil {
		t.Fatalf("vacate: %v", err)
	}
	if got := EffectiveRemainingTrades(s, PhaseLocked, DefaultRules()); got != 0 {
		t.Fatalf("vacated slot counts as pending: got=%d", got)
	}

	s, err = Assign(s, PhaseLocked, SlotCenter, pick("c2", player.PositionCenter, 400_000))
	if err != nil {
		t.Fatalf("refill vacated slot with last trade: %v", err)
	}
	if _, err := Assign(s, PhaseLocked, SlotLeftWing, pick("l2", player.PositionLeftWing, 100_000)); !errors.Is(err, ErrNoTradesLeft) {
		t.Fatalf("second trade must be rejected, got %v", err)
	}
}

func TestEffectiveRemainingTrades(t *testing.T) {
	rules := DefaultRules()
	s := lockedState(1)

	if got := EffectiveRemainingTrades(s, PhaseOpen, rules); got != rules.MaxTrades {
		t.Fatalf("open phase must report max trades, got %d", got)
	}

	s.Lineup[SlotCenter] = pick("c2", player.PositionCenter, 100_000)
	s.Lineup[SlotGoalie] = pick("g2", player.PositionGoalie, 100_000)
	if got := EffectiveRemainingTrades(s, PhaseLocked, rules); got != -1 {
		t.Fatalf("expected raw signed value -1, got %d", got)
	}
}

func TestSave_TradeAccounting(t *testing.T) {
	s := lockedState(9)

	s, err := Assign(s, PhaseLocked, SlotCenter, pick("c2", player.PositionCenter, 350_000))
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	commit, err := Save(s, PhaseLocked)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if commit.State.RemainingTrades != 8 || commit.TradesUsed != 1 {
		t.Fatalf("expected 8 remaining after one trade, got %d (used %d)", commit.State.RemainingTrades, commit.TradesUsed)
	}
	if commit.State.Original.Occupant(SlotCenter) != "c2" {
		t.Fatalf("snapshot must hold the new occupant")
	}
	if len(commit.Changes) != 1 || commit.Changes[0].Out.PlayerID != "c1" || commit.Changes[0].In.PlayerID != "c2" {
		t.Fatalf("unexpected changes: %+v", commit.Changes)
	}

	s = lockedState(9)
	s, _ = Assign(s, PhaseLocked, SlotCenter, pick("c2", player.PositionCenter, 350_000))
	s, _ = Assign(s, PhaseLocked, SlotCenter, pick("c1", player.PositionCenter, 400_000))
	commit, err = Save(s, PhaseLocked)
	if err != nil {
		t.Fatalf("save after swap back: %v", err)
	}
	if commit.State.RemainingTrades != 9 || commit.TradesUsed != 0 {
		t.Fatalf("net-zero swap must keep 9 trades, got %d", commit.State.RemainingTrades)
	}
}

func TestSave_OpenPhaseSnapshotsWithoutCounters(t *testing.T) {
	s := NewState(DefaultRules())
	for _, p := range fullLineup() {
		var err error
		s, _, err = AutoAssign(s, PhaseOpen, p)
		if err != nil {
			t.Fatalf("auto assign %s: %v", p.PlayerID, err)
		}
	}

	commit, err := Save(s, PhaseOpen)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if commit.State.Locked || commit.TradesUsed != 0 || commit.State.RemainingTrades != DefaultMaxTrades {
		t.Fatalf("open save must not touch counters: %+v", commit)
	}
	if commit.UnusedBudget != 100_000 {
		t.Fatalf("unexpected unused budget: %d", commit.UnusedBudget)
	}
	if commit.State.Original.Occupant(SlotGoalie) != "g1" {
		t.Fatalf("snapshot missing goalie")
	}
}

func TestSave_RejectsEmptySlots(t *testing.T) {
	s := NewState(DefaultRules())
	s.Lineup = fullLineup()
	delete(s.Lineup, SlotRightD)

	_, err := Save(s, PhaseOpen)
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != SlotRightD {
		t.Fatalf("unexpected missing slots: %v", incomplete.Missing)
	}
}

func TestAutoAssign_DefenseFillsLeftThenRight(t *testing.T) {
	s := NewState(DefaultRules())
	s, slot, err := AutoAssign(s, PhaseOpen, pick("d1", player.PositionDefense, 100_000))
	if err != nil || slot != SlotLeftD {
		t.Fatalf("first defenseman must go to LD, got %s (%v)", slot, err)
	}
	s, slot, err = AutoAssign(s, PhaseOpen, pick("d2", player.PositionDefense, 100_000))
	if err != nil || slot != SlotRightD {
		t.Fatalf("second defenseman must go to RD, got %s (%v)", slot, err)
	}
	if _, _, err := AutoAssign(s, PhaseOpen, pick("d3", player.PositionDefense, 100_000)); !errors.Is(err, ErrNoOpenSlot) {
		t.Fatalf("expected ErrNoOpenSlot, got %v", err)
	}
}

func TestClearAndReset(t *testing.T) {
	s := lockedState(3)
	if _, err := Clear(s, PhaseLocked); !errors.Is(err, ErrLineupLocked) {
		t.Fatalf("clear must be rejected when locked, got %v", err)
	}

	s, _ = Vacate(s, SlotGoalie)
	s, _ = Assign(s, PhaseLocked, SlotCenter, pick("c2", player.PositionCenter, 100_000))
	s = Reset(s)
	if s.PendingTrades() != 0 || s.Lineup.Occupant(SlotGoalie) != "g1" {
		t.Fatalf("reset must restore the snapshot")
	}

	open := NewState(DefaultRules())
	open.Lineup = fullLineup()
	cleared, err := Clear(open, PhaseOpen)
	if err != nil || len(cleared.Lineup) != 0 {
		t.Fatalf("clear while open: %v", err)
	}
}

func TestInvariants_RandomOperations(t *testing.T) {
	pool := []Pick{
		pick("l1", player.PositionLeftWing, 450_000), pick("l2", player.PositionLeftWing, 150_000),
		pick("c1", player.PositionCenter, 600_000), pick("c2", player.PositionCenter, 200_000),
		pick("r1", player.PositionRightWing, 500_000), pick("r2", player.PositionRightWing, 120_000),
		pick("d1", player.PositionDefense, 400_000), pick("d2", player.PositionDefense, 300_000), pick("d3", player.PositionDefense, 110_000),
		pick("g1", player.PositionGoalie, 650_000), pick("g2", player.PositionGoalie, 100_000),
	}
	rng := rand.New(rand.NewPCG(1, 2))

	for run := 0; run < 50; run++ {
		s := NewState(DefaultRules())
		phase := PhaseOpen
		for step := 0; step < 200; step++ {
			switch rng.IntN(6) {
			case 0:
				s, _ = Vacate(s, Slots[rng.IntN(len(Slots))])
			case 1:
				s = Reset(s)
			case 2:
				if commit, err := Save(s, phase); err == nil {
					s = commit.State
					if rng.IntN(3) == 0 {
						phase = PhaseLocked
					}
				}
			default:
				s, _ = Assign(s, phase, Slots[rng.IntN(len(Slots))], pool[rng.IntN(len(pool))])
			}

			if s.UsedBudget() > s.TotalBudget {
				t.Fatalf("budget invariant broken: used=%d total=%d", s.UsedBudget(), s.TotalBudget)
			}
			seen := map[string]Slot{}
			for slot, p := range s.Lineup {
				if other, dup := seen[p.PlayerID]; dup {
					t.Fatalf("player %s in %s and %s", p.PlayerID, slot, other)
				}
				seen[p.PlayerID] = slot
			}
			if phase == PhaseLocked && s.RemainingTrades < 0 {
				t.Fatalf("persisted trades went negative")
			}
		}
	}
}
