package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/Joona374/BracketChallenge2.0/internal/domain/prediction"
)

func validPredictionSheet() map[string][]string {
	return map[string][]string{
		"connSmythe":     {"8478402", "8477492", "8476453"},
		"penaltyMinutes": {"8479314", "8473419", idConnor},
		"goals":          {"8478420", "8478483", idHintz},
		"defensePoints":  {idMakar, "8480803", "8480036"},
		"U23Points":      {idSlafkovsky, idStutzle, idDemidov},
		"goalieGaa":      {"8476945", "8476883", "8475683"},
		"finnishPoints":  {idHintz, " " + idAho + " ", "8478420"},
	}
}

func TestPredictionService_Save(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-time.Hour), 0)
	svc := NewPredictionService(env.predictions, env.players, env.users, 2)

	got, err := svc.Save(t.Context(), "demo-user-1", validPredictionSheet())
	if err != nil {
		t.Fatalf("save predictions: %v", err)
	}
	if len(got[prediction.CategoryGoalieWins]) != prediction.PicksPerCategory {
		t.Fatalf("legacy goalieGaa must land in goalieWins, got %+v", got)
	}
	if got[prediction.CategoryFinnishPoints][1] != idAho {
		t.Fatalf("expected trimmed ids, got %+v", got[prediction.CategoryFinnishPoints])
	}

	stored, err := svc.Get(t.Context(), "demo-user-1")
	if err != nil {
		t.Fatalf("get predictions: %v", err)
	}
	if len(stored) != len(prediction.Categories) {
		t.Fatalf("expected %d categories, got %d", len(prediction.Categories), len(stored))
	}

	summary, err := svc.Summary(t.Context(), "demo-user-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Summary.TotalToComplete != 18 {
		t.Fatalf("expected 18 ranked picks, got %d", summary.Summary.TotalToComplete)
	}
	if summary.Points != summary.Summary.TotalCorrect*2 {
		t.Fatalf("points must be two per correct pick, got %d for %d", summary.Points, summary.Summary.TotalCorrect)
	}
}

func TestPredictionService_SaveRejects(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-time.Hour), 0)
	svc := NewPredictionService(env.predictions, env.players, env.users, 1)

	withCategory := func(name string, ids []string) map[string][]string {
		sheet := validPredictionSheet()
		sheet[name] = ids
		return sheet
	}
	withoutCategory := func(name string) map[string][]string {
		sheet := validPredictionSheet()
		delete(sheet, name)
		return sheet
	}

	cases := []struct {
		name  string
		sheet map[string][]string
	}{
		{name: "unknown category", sheet: withCategory("hits", []string{idMakar, idHintz, idAho})},
		{name: "alias and canonical", sheet: withCategory("goalieWins", []string{"8476945", "8476883", "8475683"})},
		{name: "missing category", sheet: withoutCategory("goals")},
		{name: "too few picks", sheet: withCategory("goals", []string{idHintz})},
		{name: "duplicate pick", sheet: withCategory("goals", []string{idHintz, idHintz, idAho})},
		{name: "goalie as defense", sheet: withCategory("defensePoints", []string{idMakar, idAndersen, "8480036"})},
		{name: "unknown player", sheet: withCategory("goals", []string{idHintz, idAho, "1"})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Save(t.Context(), "demo-user-1", tc.sheet); !errors.Is(err, prediction.ErrInvalidPicks) {
				t.Fatalf("expected ErrInvalidPicks, got %v", err)
			}
		})
	}

	if _, err := svc.Get(t.Context(), "demo-user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rejected sheets must not be stored, got %v", err)
	}
}

func TestPredictionService_SummaryWithoutPicks(t *testing.T) {
	env := newTestEnv(t, testDeadline.Add(-time.Hour), 0)
	svc := NewPredictionService(env.predictions, env.players, env.users, 1)

	got, err := svc.Summary(t.Context(), "demo-user-2")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.Points != 0 || got.Summary.TotalCorrect != 0 {
		t.Fatalf("expected an empty scorecard, got %+v", got)
	}
}
