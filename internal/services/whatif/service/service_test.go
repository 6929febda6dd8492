package service

import (
	"context"
	"strings"
	"testing"

	"screenrate/internal/core/lexicon"
	ratingsvc "screenrate/internal/services/rating/service"
	"screenrate/internal/services/whatif/classify"
	"screenrate/internal/services/whatif/domain"
	"screenrate/internal/services/whatif/engine"
	"screenrate/internal/services/whatif/parser"
)

const violentScript = `INT. OFFICE - DAY

JOHN reviews the quarterly report and sighs.

INT. HALLWAY - DAY

MARY walks past with a coffee and waves at JOHN.

INT. WAREHOUSE - NIGHT

JOHN attacks the guard with a knife. He stabs him and the fight turns
into a brutal beating. Blood covers the floor as he kills another man.

EXT. STREET - DAY

JOHN and MARY talk quietly about the weather.

INT. CAFE - DAY

MARY orders tea. JOHN reads the newspaper.

EXT. PARK - DAY

Children play in the distance while JOHN feeds the pigeons.`

func newTestService() *Service {
	rater := ratingsvc.New(lexicon.MustLoad(), ratingsvc.Config{})
	return New(rater, parser.New(nil), engine.NewRegistry(nil), classify.New(nil))
}

func TestSimulateSceneRemovalLowersViolence(t *testing.T) {
	s := newTestService()
	res, err := s.Simulate(context.Background(), domain.Request{
		ScriptText:          violentScript,
		ModificationRequest: "Remove scene 2",
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if res.ModifiedScores["violence"] >= res.OriginalScores["violence"] {
		t.Fatalf("violence did not drop: %.3f -> %.3f",
			res.OriginalScores["violence"], res.ModifiedScores["violence"])
	}
	if len(res.ChangesApplied) == 0 || res.ChangesApplied[0].Type != "remove_scenes" {
		t.Fatalf("changes = %+v", res.ChangesApplied)
	}
	if res.RatingChanged != (res.OriginalRating != res.ModifiedRating) {
		t.Fatalf("rating_changed inconsistent")
	}
	if !strings.Contains(res.Explanation, "rating") {
		t.Fatalf("english request must get an english explanation: %q", res.Explanation)
	}
}

func TestSimulateRussianRequestGetsRussianExplanation(t *testing.T) {
	s := newTestService()
	res, err := s.Simulate(context.Background(), domain.Request{
		ScriptText:          violentScript,
		ModificationRequest: "Смягчить драку и убрать кровь",
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !strings.Contains(res.Explanation, "Рейтинг") {
		t.Fatalf("russian request must get a russian explanation: %q", res.Explanation)
	}
	if res.ModifiedScores["violence"] >= res.OriginalScores["violence"] {
		t.Fatalf("violence did not drop after mitigation")
	}
}

func TestSimulateValidation(t *testing.T) {
	s := newTestService()
	if _, err := s.Simulate(context.Background(), domain.Request{ScriptText: "", ModificationRequest: "x"}); err == nil {
		t.Fatalf("empty script must fail")
	}
	if _, err := s.Simulate(context.Background(), domain.Request{ScriptText: "x", ModificationRequest: " "}); err == nil {
		t.Fatalf("empty request must fail")
	}
}

func TestApplyStructured(t *testing.T) {
	s := newTestService()
	res, err := s.ApplyStructured(context.Background(), domain.StructuredRequest{
		ScriptText: violentScript,
		Modifications: []domain.Modification{
			{Type: "remove_scenes", Params: map[string]any{"scene_ids": []any{float64(2)}}},
		},
		PreserveStructure: true,
	})
	if err != nil {
		t.Fatalf("ApplyStructured: %v", err)
	}
	if len(res.ChangesApplied) != 1 || res.ChangesApplied[0].Error != "" {
		t.Fatalf("changes = %+v", res.ChangesApplied)
	}
	if res.ModifiedScript == "" || strings.Contains(res.ModifiedScript, "stabs") {
		t.Fatalf("violent scene still in modified script")
	}
	if len(res.SceneAnalysis) == 0 {
		t.Fatalf("scene analysis missing")
	}
	for _, sc := range res.SceneAnalysis {
		if sc.SceneType != "unknown" {
			t.Fatalf("no embedder: scene type = %q", sc.SceneType)
		}
	}
	if !strings.HasPrefix(res.Explanation, "Applied 1 modification(s)") {
		t.Fatalf("explanation = %q", res.Explanation)
	}
}

func TestApplyStructuredRecordsFailures(t *testing.T) {
	s := newTestService()
	res, err := s.ApplyStructured(context.Background(), domain.StructuredRequest{
		ScriptText: violentScript,
		Modifications: []domain.Modification{
			{Type: "teleport_scenes"},
			{Type: "remove_scenes"}, // missing params
		},
	})
	if err != nil {
		t.Fatalf("ApplyStructured: %v", err)
	}
	if len(res.ChangesApplied) != 2 {
		t.Fatalf("changes = %+v", res.ChangesApplied)
	}
	for _, c := range res.ChangesApplied {
		if c.Error == "" {
			t.Fatalf("expected recorded failure, got %+v", c)
		}
	}
	if !strings.Contains(res.Explanation, "Failed") {
		t.Fatalf("explanation = %q", res.Explanation)
	}
}

func TestSuggestRussianDefault(t *testing.T) {
	s := newTestService()
	res, err := s.Suggest(context.Background(), domain.SuggestRequest{ScriptText: violentScript})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(res.Suggestions) == 0 {
		t.Fatalf("violent script produced no suggestions")
	}
	var violence *domain.SmartSuggestion
	for i := range res.Suggestions {
		if res.Suggestions[i].Category == "violence" {
			violence = &res.Suggestions[i]
		}
	}
	if violence == nil {
		t.Fatalf("no violence suggestion: %+v", res.Suggestions)
	}
	if violence.Icon != "💬" {
		t.Fatalf("icon = %q", violence.Icon)
	}
	if !strings.Contains(violence.Text, "насилие") {
		t.Fatalf("default language must be russian: %q", violence.Text)
	}
	if violence.Priority < 2 || violence.Priority > 10 {
		t.Fatalf("priority = %d", violence.Priority)
	}
	if violence.Confidence <= 0 || violence.Confidence > 1 {
		t.Fatalf("confidence = %f", violence.Confidence)
	}
	for i := 1; i < len(res.Suggestions); i++ {
		if res.Suggestions[i].Priority > res.Suggestions[i-1].Priority {
			t.Fatalf("suggestions not sorted by priority")
		}
	}
	if res.TotalScenes != 6 {
		t.Fatalf("total scenes = %d", res.TotalScenes)
	}
}

func TestSuggestEnglish(t *testing.T) {
	s := newTestService()
	res, err := s.Suggest(context.Background(), domain.SuggestRequest{
		ScriptText: violentScript,
		Language:   "en",
	})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	for _, sug := range res.Suggestions {
		if strings.ContainsAny(sug.Text, "абвгде") {
			t.Fatalf("english suggestion contains cyrillic: %q", sug.Text)
		}
	}
}

func TestSuggestEmptyScript(t *testing.T) {
	s := newTestService()
	if _, err := s.Suggest(context.Background(), domain.SuggestRequest{}); err == nil {
		t.Fatalf("empty script must fail")
	}
}
