package service

import (
	"strings"
	"testing"

	"screenrate/internal/core/lexicon"
	"screenrate/internal/core/screenplay"
	"screenrate/internal/core/scoring"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/services/rating/domain"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return New(lexicon.MustLoad(), Config{})
}

func TestRateEmptyText(t *testing.T) {
	_, err := newService(t).Rate(domain.RateRequest{Text: "   \n"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
}

func TestRateMildOfficeScene(t *testing.T) {
	res, err := newService(t).Rate(domain.RateRequest{
		Text: "INT. OFFICE - DAY\n\nSarah types on her computer.\nHer phone rings.",
	})
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if res.PredictedRating != scoring.Rating6 && res.PredictedRating != scoring.Rating12 {
		t.Fatalf("rating = %s, want 6+ or 12+", res.PredictedRating)
	}
	for _, dim := range []string{"violence", "gore", "sex_act"} {
		if res.AggScores[dim] > 0.1 {
			t.Fatalf("%s = %v, want <= 0.1", dim, res.AggScores[dim])
		}
	}
	if res.TotalScenes != 1 {
		t.Fatalf("total scenes = %d", res.TotalScenes)
	}
	if res.ModelVersion == "" {
		t.Fatalf("model version missing")
	}
}

func TestRateWarehouseViolence(t *testing.T) {
	res, err := newService(t).Rate(domain.RateRequest{
		Text: "INT. WAREHOUSE - NIGHT\n\nHe pulls out a gun and shoots twice.\n" +
			"Blood splatters across the crates.\nCorpse on the floor.\nMurder scene, plain and simple.",
	})
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if res.PredictedRating != scoring.Rating16 && res.PredictedRating != scoring.Rating18 {
		t.Fatalf("rating = %s, want 16+ or 18+", res.PredictedRating)
	}
	if res.AggScores["violence"] <= 0.3 {
		t.Fatalf("violence = %v, want > 0.3", res.AggScores["violence"])
	}
	if len(res.TopTriggerScenes) == 0 {
		t.Fatalf("trigger scenes empty")
	}
}

func TestRateExplicitIntimacy(t *testing.T) {
	res, err := newService(t).Rate(domain.RateRequest{
		Text: "INT. BEDROOM - NIGHT\n\nA sexual intercourse scene.\nNudity throughout.\nVery graphic sexual activity.",
	})
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if res.PredictedRating != scoring.Rating18 {
		t.Fatalf("rating = %s, want 18+", res.PredictedRating)
	}
	if res.AggScores["sex_act"] <= 0.5 {
		t.Fatalf("sex_act = %v, want > 0.5", res.AggScores["sex_act"])
	}
}

func TestRateHeroicDampener(t *testing.T) {
	svc := newService(t)
	// long neutral filler keeps violence below the normalization clamp so
	// the dampener shows up in the aggregate
	filler := strings.Repeat("The camera pans across the quiet city while people walk home. ", 80)
	base := "He pulls out a gun and shoots twice.\nBlood splatters across the crates.\nThey attack again.\n" + filler
	plain, err := svc.Rate(domain.RateRequest{Text: "INT. WAREHOUSE - NIGHT\n\n" + base})
	if err != nil {
		t.Fatalf("Rate plain: %v", err)
	}
	heroic, err := svc.Rate(domain.RateRequest{
		Text: "INT. METROPOLIS - NIGHT\n\nSuperman faces Lex Luthor.\n" + base,
	})
	if err != nil {
		t.Fatalf("Rate heroic: %v", err)
	}
	if heroic.AggScores["violence"] >= plain.AggScores["violence"] {
		t.Fatalf("heroic violence %v must be below plain %v",
			heroic.AggScores["violence"], plain.AggScores["violence"])
	}
}

func TestRateGoreExclusion(t *testing.T) {
	res, err := newService(t).Rate(domain.RateRequest{
		Text: "He swore a blood oath; ink dribbled on the page.",
	})
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if res.AggScores["gore"] != 0 {
		t.Fatalf("gore = %v, want 0", res.AggScores["gore"])
	}
	if res.PredictedRating != scoring.Rating6 {
		t.Fatalf("rating = %s, want 6+", res.PredictedRating)
	}
}

func TestTopTriggersOrderAndCap(t *testing.T) {
	scenes := []domain.SceneScore{
		{Scene: screenplay.Scene{ID: 0}, Weight: 0.1},
		{Scene: screenplay.Scene{ID: 1}, Weight: 0.9},
		{Scene: screenplay.Scene{ID: 2}, Weight: 0.5},
	}
	top := TopTriggers(scenes, 2)
	if len(top) != 2 {
		t.Fatalf("len = %d", len(top))
	}
	if top[0].SceneID != 1 || top[1].SceneID != 2 {
		t.Fatalf("order wrong: %d, %d", top[0].SceneID, top[1].SceneID)
	}

	// asking for more scenes than exist returns them all, best first
	all := TopTriggers(scenes, 10)
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].SceneID != 1 || all[1].SceneID != 2 || all[2].SceneID != 0 {
		t.Fatalf("order wrong: %d, %d, %d", all[0].SceneID, all[1].SceneID, all[2].SceneID)
	}
}

func TestSample(t *testing.T) {
	long := strings.Repeat("слово ", 200)
	s := Sample(long, 400)
	if len([]rune(s)) > 400 {
		t.Fatalf("sample too long: %d runes", len([]rune(s)))
	}
	if strings.Contains(s, "\n") {
		t.Fatalf("sample contains newline")
	}
}
