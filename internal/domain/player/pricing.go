package player

const (
	MinPrice       int64 = 100_000
	MaxSkaterPrice int64 = 700_000
	MaxGoaliePrice int64 = 650_000

	highSavePct = 0.92
	lowSavePct  = 0.83
)

// SkaterPerformance scores a skater's game for price movement.
func SkaterPerformance(pos Position, log GameLog) int {
	goalWeight := 2
	if pos == PositionDefense {
		goalWeight = 3
	}
	return goalWeight*log.Goals + log.Assists + log.PlusMinus
}

// GoaliePerformance scores a goalie's game for price movement.
func GoaliePerformance(log GameLog) int {
	perf := 1 + log.Wins + log.Shutouts
	if pct, ok := log.SavePct(); ok {
		switch {
		case pct > highSavePct:
			perf++
		case pct < lowSavePct:
			perf--
		}
	}
	return perf
}

// skaterBasisPoints maps a performance score to a price change in 1/100 of a percent.
func skaterBasisPoints(perf int) int64 {
	switch {
	case perf <= -3:
		return -500
	case perf == -2:
		return -300
	case perf == -1:
		return -100
	case perf == 0:
		return 0
	case perf == 1:
		return 120
	case perf == 2:
		return 270
	case perf == 3:
		return 350
	default:
		return 600
	}
}

func goalieBasisPoints(perf int) int64 {
	switch {
	case perf <= 0:
		return -500
	case perf == 1:
		return -250
	case perf == 2:
		return 0
	case perf == 3:
		return 250
	default:
		return 500
	}
}

// AdjustPrice moves the player's price according to the given game. A game
// that already moved the price is ignored and reported as unchanged.
func AdjustPrice(p Player, log GameLog) (Player, bool) {
	if log.GameID == 0 || p.LastPriceUpdateGameID == log.GameID {
		return p, false
	}

	var bp, ceiling int64
	if p.IsGoalie() {
		bp = goalieBasisPoints(GoaliePerformance(log))
		ceiling = MaxGoaliePrice
	} else {
		bp = skaterBasisPoints(SkaterPerformance(p.Position, log))
		ceiling = MaxSkaterPrice
	}

	price := p.Price * (10_000 + bp) / 10_000
	p.Price = min(max(price, MinPrice), ceiling)
	p.LastPriceUpdateGameID = log.GameID
	return p, true
}
