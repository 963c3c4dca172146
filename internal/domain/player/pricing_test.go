package player

import "testing"

func TestAdjustPrice_SkaterBands(t *testing.T) {
	tests := []struct {
		name     string
		position Position
		log      GameLog
		price    int64
		want     int64
	}{
		{name: "bad night", position: PositionCenter, log: GameLog{GameID: 1, PlusMinus: -3}, price: 500_000, want: 475_000},
		{name: "minus two", position: PositionCenter, log: GameLog{GameID: 1, PlusMinus: -2}, price: 500_000, want: 485_000},
		{name: "minus one", position: PositionLeftWing, log: GameLog{GameID: 1, PlusMinus: -1}, price: 500_000, want: 495_000},
		{name: "quiet", position: PositionRightWing, log: GameLog{GameID: 1}, price: 500_000, want: 500_000},
		{name: "one assist", position: PositionCenter, log: GameLog{GameID: 1, Assists: 1}, price: 500_000, want: 506_000},
		{name: "one goal", position: PositionCenter, log: GameLog{GameID: 1, Goals: 1}, price: 500_000, want: 513_500},
		{name: "defense goal", position: PositionDefense, log: GameLog{GameID: 1, Goals: 1}, price: 400_000, want: 414_000},
		{name: "big night", position: PositionCenter, log: GameLog{GameID: 1, Goals: 2, Assists: 1}, price: 500_000, want: 530_000},
		{name: "clamped high", position: PositionCenter, log: GameLog{GameID: 1, Goals: 3}, price: 690_000, want: MaxSkaterPrice},
		{name: "clamped low", position: PositionCenter, log: GameLog{GameID: 1, PlusMinus: -4}, price: 101_000, want: MinPrice},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := AdjustPrice(Player{Position: tc.position, Price: tc.price}, tc.log)
			if !changed {
				t.Fatalf("expected price update")
			}
			if got.Price != tc.want {
				t.Fatalf("unexpected price: got=%d want=%d", got.Price, tc.want)
			}
			if got.LastPriceUpdateGameID != tc.log.GameID {
				t.Fatalf("unexpected last game id: %d", got.LastPriceUpdateGameID)
			}
		})
	}
}

func TestAdjustPrice_GoalieBands(t *testing.T) {
	tests := []struct {
		name string
		log  GameLog
		want int64
	}{
		{name: "loss and leaky", log: GameLog{GameID: 7, IsGoalie: true, Saves: 20, ShotsAgainst: 25}, want: 380_000},
		{name: "loss", log: GameLog{GameID: 7, IsGoalie: true, Saves: 22, ShotsAgainst: 25}, want: 390_000},
		{name: "win", log: GameLog{GameID: 7, IsGoalie: true, Wins: 1, Saves: 22, ShotsAgainst: 25}, want: 400_000},
		{name: "sharp win", log: GameLog{GameID: 7, IsGoalie: true, Wins: 1, Saves: 24, ShotsAgainst: 25}, want: 410_000},
		{name: "shutout", log: GameLog{GameID: 7, IsGoalie: true, Wins: 1, Shutouts: 1, Saves: 30, ShotsAgainst: 30}, want: 420_000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := AdjustPrice(Player{Position: PositionGoalie, Price: 400_000}, tc.log)
			if got.Price != tc.want {
				t.Fatalf("unexpected price: got=%d want=%d", got.Price, tc.want)
			}
		})
	}
}

func TestAdjustPrice_SameGameIgnored(t *testing.T) {
	p := Player{Position: PositionCenter, Price: 500_000, LastPriceUpdateGameID: 42}
	got, changed := AdjustPrice(p, GameLog{GameID: 42, Goals: 3})
	if changed {
		t.Fatalf("expected no change for already applied game")
	}
	if got.Price != p.Price {
		t.Fatalf("price changed: got=%d want=%d", got.Price, p.Price)
	}
}
