package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/lineup"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

const (
	idConnor     = "8478398"
	idSlafkovsky = "8481553"
	idMacKinnon  = "8477492"
	idHintz      = "8478449"
	idAho        = "8478427"
	idStutzle    = "8482116"
	idKucherov   = "8476453"
	idDemidov    = "8483441"
	idMakar      = "8480069"
	idLindell    = "8476902"
	idSlavin     = "8477346"
	idAndersen   = "8475883"
)

func budgetLineup() map[lineup.Slot]string {
	return map[lineup.Slot]string{
		lineup.SlotLeftWing:  idSlafkovsky,
		lineup.SlotCenter:    idHintz,
		lineup.SlotRightWing: idDemidov,
		lineup.SlotLeftD:     idLindell,
		lineup.SlotRightD:    idSlavin,
		lineup.SlotGoalie:    idAndersen,
	}
}

func withSlot(in map[lineup.Slot]string, slot lineup.Slot, playerID string) map[lineup.Slot]string {
	out := make(map[lineup.Slot]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	out[slot] = playerID
	return out
}

func TestLineupService_SaveBeforeDeadline(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-24*time.Hour), time.Hour)
	svc := env.lineupService(nil)

	got, err := svc.Save(t.Context(), SaveLineupInput{UserID: "demo-user-1", Lineup: budgetLineup()})
	if err != nil {
		t.Fatalf("save lineup: %v", err)
	}

	if got.TradesUsed != 0 || len(got.Trades) != 0 {
		t.Fatalf("open save must not use trades, got %d", got.TradesUsed)
	}
	if got.View.UsedBudget != 1_590_000 || got.View.UnusedBudget != 410_000 {
		t.Fatalf("unexpected budget split: used=%d unused=%d", got.View.UsedBudget, got.View.UnusedBudget)
	}
	if got.View.EffectiveBudget != lineup.DefaultBudget {
		t.Fatalf("expected effective budget %d, got %d", lineup.DefaultBudget, got.View.EffectiveBudget)
	}
	if got.View.RemainingTrades != lineup.DefaultMaxTrades || got.View.Locked {
		t.Fatalf("unexpected trade state: %+v", got.View)
	}
	if got.View.Players[lineup.SlotCenter].LastName != "Hintz" {
		t.Fatalf("expected Hintz at center, got %+v", got.View.Players[lineup.SlotCenter])
	}
	if env.publisher.published(EventLineupSaved) != 1 {
		t.Fatalf("expected one %s event", EventLineupSaved)
	}

	view, err := svc.Get(t.Context(), "demo-user-1")
	if err != nil {
		t.Fatalf("get lineup: %v", err)
	}
	if view.UnusedBudget != 410_000 || len(view.Players) != len(lineup.Slots) {
		t.Fatalf("unexpected stored lineup: %+v", view)
	}
}

func TestLineupService_SaveOverBudget(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-24*time.Hour), time.Hour)
	svc := env.lineupService(nil)

	_, err := svc.Save(t.Context(), SaveLineupInput{
		UserID: "demo-user-1",
		Lineup: map[lineup.Slot]string{
			lineup.SlotLeftWing:  idConnor,
			lineup.SlotCenter:    idMacKinnon,
			lineup.SlotRightWing: idKucherov,
			lineup.SlotLeftD:     idMakar,
			lineup.SlotRightD:    idSlavin,
			lineup.SlotGoalie:    idAndersen,
		},
	})

	var budgetErr *lineup.BudgetError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("expected BudgetError, got %v", err)
	}
	if budgetErr.Slot != lineup.SlotLeftD || budgetErr.Shortfall != 470_000 {
		t.Fatalf("unexpected budget error: %+v", budgetErr)
	}
	if _, err := svc.Get(t.Context(), "demo-user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rejected save must not be stored, got %v", err)
	}
}

func TestLineupService_SaveAfterDeadlineUsesTrades(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-24*time.Hour), time.Hour)
	svc := env.lineupService(nil)
	ctx := t.Context()

	if _, err := svc.Save(ctx, SaveLineupInput{UserID: "demo-user-1", Lineup: budgetLineup()}); err != nil {
		t.Fatalf("initial save: %v", err)
	}

	env.clock.Advance(26 * time.Hour)

	traded := withSlot(budgetLineup(), lineup.SlotCenter, idAho)
	got, err := svc.Save(ctx, SaveLineupInput{UserID: "demo-user-1", Lineup: traded})
	if err != nil {
		t.Fatalf("trade save: %v", err)
	}
	if got.TradesUsed != 1 || got.View.RemainingTrades != 8 || !got.View.Locked {
		t.Fatalf("expected one trade and a locked lineup, got %+v", got)
	}
	if len(got.Trades) != 1 {
		t.Fatalf("expected one trade, got %d", len(got.Trades))
	}
	trade := got.Trades[0]
	if trade.ID != "trade-1" || trade.Slot != lineup.SlotCenter || trade.PlayerOut != idHintz || trade.PlayerIn != idAho {
		t.Fatalf("unexpected trade: %+v", trade)
	}
	if trade.PriceOut != 380_000 || trade.PriceIn != 430_000 {
		t.Fatalf("unexpected trade prices: %+v", trade)
	}
	if got.View.UnusedBudget != 360_000 {
		t.Fatalf("expected 360000 unused after trade, got %d", got.View.UnusedBudget)
	}

	again, err := svc.Save(ctx, SaveLineupInput{UserID: "demo-user-1", Lineup: traded})
	if err != nil {
		t.Fatalf("unchanged save: %v", err)
	}
	if again.TradesUsed != 0 || again.View.RemainingTrades != 8 {
		t.Fatalf("unchanged save must not spend trades, got %+v", again)
	}

	history, err := svc.History(ctx, "demo-user-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != "trade-1" {
		t.Fatalf("unexpected trade history: %+v", history)
	}
}

func TestLineupService_SaveWithoutTradesLeft(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(48*time.Hour), time.Hour)
	svc := env.lineupService(nil)

	seeded := lineup.Record{
		UserID:          "demo-user-2",
		Lineup:          budgetLineup(),
		RemainingTrades: 0,
		UnusedBudget:    410_000,
		Locked:          true,
		UpdatedAt:       testDeadline.Add(-time.Hour),
	}
	if err := env.lineups.Save(t.Context(), seeded); err != nil {
		t.Fatalf("seed lineup: %v", err)
	}

	_, err := svc.Save(t.Context(), SaveLineupInput{
		UserID: "demo-user-2",
		Lineup: withSlot(budgetLineup(), lineup.SlotCenter, idAho),
	})
	var limitErr *lineup.TradeLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected TradeLimitError, got %v", err)
	}
	if limitErr.Remaining != 0 || limitErr.Required != 1 {
		t.Fatalf("unexpected trade numbers: %+v", limitErr)
	}

	stored, _, err := env.lineups.Load(t.Context(), "demo-user-2")
	if err != nil {
		t.Fatalf("load lineup: %v", err)
	}
	if stored.Lineup[lineup.SlotCenter] != idHintz {
		t.Fatalf("rejected trade must keep Hintz, got %s", stored.Lineup[lineup.SlotCenter])
	}
}

func TestLineupService_SaveInGracePeriod(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(10*time.Minute), time.Hour)
	svc := env.lineupService(nil)

	_, err := svc.Save(t.Context(), SaveLineupInput{UserID: "demo-user-1", Lineup: budgetLineup()})
	if !errors.Is(err, lineup.ErrGracePeriod) {
		t.Fatalf("expected ErrGracePeriod, got %v", err)
	}
}

func TestLineupService_SaveValidation(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-24*time.Hour), time.Hour)
	svc := env.lineupService(nil)

	cases := []struct {
		name  string
		input SaveLineupInput
		want  error
	}{
		{name: "unknown user", input: SaveLineupInput{UserID: "nobody", Lineup: budgetLineup()}, want: ErrNotFound},
		{name: "missing user", input: SaveLineupInput{Lineup: budgetLineup()}, want: ErrInvalidInput},
		{name: "unknown slot", input: SaveLineupInput{UserID: "demo-user-1", Lineup: withSlot(budgetLineup(), "X", idAho)}, want: lineup.ErrUnknownSlot},
		{name: "unknown player", input: SaveLineupInput{UserID: "demo-user-1", Lineup: withSlot(budgetLineup(), lineup.SlotCenter, "999")}, want: ErrInvalidInput},
		{name: "wrong position", input: SaveLineupInput{UserID: "demo-user-1", Lineup: withSlot(budgetLineup(), lineup.SlotCenter, idSlavin)}, want: lineup.ErrPositionMismatch},
		{name: "incomplete", input: SaveLineupInput{UserID: "demo-user-1", Lineup: withSlot(budgetLineup(), lineup.SlotGoalie, "")}, want: lineup.ErrSlotEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Save(t.Context(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLineupService_ConcurrentTradesSpendOnce(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(48*time.Hour), time.Hour)
	svc := env.lineupService(nil)

	seeded := lineup.Record{
		UserID:          "demo-user-3",
		Lineup:          budgetLineup(),
		RemainingTrades: 1,
		UnusedBudget:    410_000,
		Locked:          true,
	}
	if err := env.lineups.Save(t.Context(), seeded); err != nil {
		t.Fatalf("seed lineup: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := range 10 {
		candidate := idAho
		if i%2 == 1 {
			candidate = idStutzle
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Save(t.Context(), SaveLineupInput{
				UserID: "demo-user-3",
				Lineup: withSlot(budgetLineup(), lineup.SlotCenter, candidate),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil && !errors.Is(err, lineup.ErrNoTradesLeft) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	trades, err := svc.History(t.Context(), "demo-user-3")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected exactly one trade, got %d", len(trades))
	}

	stored, _, err := env.lineups.Load(t.Context(), "demo-user-3")
	if err != nil {
		t.Fatalf("load lineup: %v", err)
	}
	if stored.RemainingTrades != 0 || stored.Lineup[lineup.SlotCenter] != trades[0].PlayerIn {
		t.Fatalf("unexpected stored lineup: %+v", stored)
	}
}

func TestLineupService_WarnsOnClientDrift(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-24*time.Hour), time.Hour)
	core, logs := observer.New(zapcore.WarnLevel)
	svc := env.lineupService(logging.FromZap(zap.New(core)))

	tradesUsed := 3
	unused := int64(1)
	_, err := svc.Save(t.Context(), SaveLineupInput{
		UserID:       "demo-user-1",
		Lineup:       budgetLineup(),
		TradesUsed:   &tradesUsed,
		UnusedBudget: &unused,
	})
	if err != nil {
		t.Fatalf("save lineup: %v", err)
	}

	if got := logs.FilterMessage("client trade count differs from server").Len(); got != 1 {
		t.Fatalf("expected one trade drift warning, got %d", got)
	}
	if got := logs.FilterMessage("client unused budget differs from server").Len(); got != 1 {
		t.Fatalf("expected one budget drift warning, got %d", got)
	}
}

func TestLineupService_Summary(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-24*time.Hour), time.Hour)
	svc := env.lineupService(nil)

	if _, err := svc.Summary(t.Context(), "demo-user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.Save(t.Context(), SaveLineupInput{UserID: "demo-user-1", Lineup: budgetLineup()}); err != nil {
		t.Fatalf("save lineup: %v", err)
	}

	got, err := svc.Summary(t.Context(), "demo-user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(got.Slots) != len(lineup.Slots) {
		t.Fatalf("expected %d scored slots, got %d", len(lineup.Slots), len(got.Slots))
	}
	if got.GameLogPoints != 0 {
		t.Fatalf("no game logs yet, got %d", got.GameLogPoints)
	}
}
