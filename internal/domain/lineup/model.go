package lineup

import (
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/player"
)

// Slot is one of the six lineup positions.
type Slot string

const (
	SlotLeftWing  Slot = "L"
	SlotCenter    Slot = "C"
	SlotRightWing Slot = "R"
	SlotLeftD     Slot = "LD"
	SlotRightD    Slot = "RD"
	SlotGoalie    Slot = "G"
)

const (
	DefaultBudget    int64 = 2_000_000
	DefaultMaxTrades       = 9
)

// Slots lists every slot in display and auto-assign order.
var Slots = []Slot{SlotLeftWing, SlotCenter, SlotRightWing, SlotLeftD, SlotRightD, SlotGoalie}

func (s Slot) Valid() bool {
	_, ok := requiredPosition[s]
	return ok
}

var requiredPosition = map[Slot]player.Position{
	SlotLeftWing:  player.PositionLeftWing,
	SlotCenter:    player.PositionCenter,
	SlotRightWing: player.PositionRightWing,
	SlotLeftD:     player.PositionDefense,
	SlotRightD:    player.PositionDefense,
	SlotGoalie:    player.PositionGoalie,
}

// RequiredPosition is the only position a slot accepts.
func (s Slot) RequiredPosition() player.Position {
	return requiredPosition[s]
}

func (s Slot) Accepts(pos player.Position) bool {
	req, ok := requiredPosition[s]
	return ok && req == pos
}

// Pick is a player placed in a slot, carrying the price used for budget math.
type Pick struct {
	PlayerID string
	Position player.Position
	Price    int64
}

func PickOf(p player.Player) Pick {
	return Pick{PlayerID: p.ID, Position: p.Position, Price: p.Price}
}

// Lineup maps slots to picks. A missing slot is empty.
type Lineup map[Slot]Pick

func (l Lineup) Occupant(slot Slot) string {
	return l[slot].PlayerID
}

func (l Lineup) IsEmpty(slot Slot) bool {
	return l[slot].PlayerID == ""
}

// UsedBudget sums the prices of every assigned pick.
func (l Lineup) UsedBudget() int64 {
	var total int64
	for _, pick := range l {
		if pick.PlayerID != "" {
			total += pick.Price
		}
	}
	return total
}

func (l Lineup) usedExcluding(slot Slot) int64 {
	var total int64
	for s, pick := range l {
		if s != slot && pick.PlayerID != "" {
			total += pick.Price
		}
	}
	return total
}

// SlotOf reports which slot holds the player.
func (l Lineup) SlotOf(playerID string) (Slot, bool) {
	for _, slot := range Slots {
		if l[slot].PlayerID == playerID {
			return slot, true
		}
	}
	return "", false
}

func (l Lineup) Complete() bool {
	return len(l.MissingSlots()) == 0
}

func (l Lineup) MissingSlots() []Slot {
	var missing []Slot
	for _, slot := range Slots {
		if l.IsEmpty(slot) {
			missing = append(missing, slot)
		}
	}
	return missing
}

// IDs flattens the lineup to slot -> player id, empty slots omitted.
func (l Lineup) IDs() map[Slot]string {
	out := make(map[Slot]string, len(l))
	for slot, pick := range l {
		if pick.PlayerID != "" {
			out[slot] = pick.PlayerID
		}
	}
	return out
}

func (l Lineup) Clone() Lineup {
	out := make(Lineup, len(l))
	for slot, pick := range l {
		if pick.PlayerID != "" {
			out[slot] = pick
		}
	}
	return out
}

// Phase is the editing mode of a lineup.
type Phase int

const (
	PhaseOpen Phase = iota
	PhaseLocked
)

func (p Phase) String() string {
	if p == PhaseLocked {
		return "locked"
	}
	return "open"
}

// PhaseFor derives the phase from the deadline and the persisted lock flag.
func PhaseFor(deadlinePassed bool, s State) Phase {
	if deadlinePassed || s.Locked {
		return PhaseLocked
	}
	return PhaseOpen
}

// Rules carries the contest limits.
type Rules struct {
	TotalBudget int64
	MaxTrades   int
}

func DefaultRules() Rules {
	return Rules{TotalBudget: DefaultBudget, MaxTrades: DefaultMaxTrades}
}

// State is one user's editable lineup. Original is the last saved snapshot.
type State struct {
	Lineup          Lineup
	Original        Lineup
	RemainingTrades int
	TotalBudget     int64
	Locked          bool
}

// NewState is the state of a user who never saved a lineup.
func NewState(rules Rules) State {
	return State{
		Lineup:          Lineup{},
		Original:        Lineup{},
		RemainingTrades: rules.MaxTrades,
		TotalBudget:     rules.TotalBudget,
	}
}

func (s State) UsedBudget() int64 {
	return s.Lineup.UsedBudget()
}

func (s State) RemainingBudget() int64 {
	return s.TotalBudget - s.Lineup.UsedBudget()
}

// PendingTrades counts slots whose occupant differs from the snapshot.
func (s State) PendingTrades() int {
	count := 0
	for _, slot := range Slots {
		if s.Lineup.Occupant(slot) != s.Original.Occupant(slot) {
			count++
		}
	}
	return count
}

// Record is the persisted form of a saved lineup.
type Record struct {
	UserID          string
	Lineup          map[Slot]string
	RemainingTrades int
	UnusedBudget    int64
	Locked          bool
	UpdatedAt       time.Time
}

// Trade is one confirmed slot change of a locked save.
type Trade struct {
	ID        string
	UserID    string
	Slot      Slot
	PlayerOut string
	PlayerIn  string
	PriceOut  int64
	PriceIn   int64
	CreatedAt time.Time
}

// HistoryEntry is the interval a player spent in a user's slot.
type HistoryEntry struct {
	UserID    string
	Slot      Slot
	PlayerID  string
	AddedAt   time.Time
	RemovedAt *time.Time
}

// ActiveAt reports whether the player was in the slot at start and stayed
// for at least minStay afterwards.
func (h HistoryEntry) ActiveAt(start time.Time, minStay time.Duration) bool {
	if h.AddedAt.After(start) {
		return false
	}
	return h.RemovedAt == nil || !h.RemovedAt.Before(start.Add(minStay))
}
