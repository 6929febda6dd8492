package features

import (
	"testing"

	"screenrate/internal/core/lexicon"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(lexicon.MustLoad())
}

func TestExtractMildScene(t *testing.T) {
	e := newExtractor(t)
	r := e.Extract("INT. OFFICE - DAY\n\nSarah types on her computer.\nHer phone rings.")
	if r.Violence != 0 || r.Gore != 0 || r.SexAct != 0 {
		t.Fatalf("mild scene scored: %+v", r)
	}
	if r.Length < 1 {
		t.Fatalf("length must be at least 1, got %d", r.Length)
	}
}

func TestExtractViolentScene(t *testing.T) {
	e := newExtractor(t)
	r := e.Extract("He pulls out a gun and shoots. Blood splatters. Corpse on the floor. Murder scene.")
	if r.Violence == 0 {
		t.Fatalf("violence not counted")
	}
	if r.Gore == 0 {
		t.Fatalf("gore not counted")
	}
}

func TestExtractGoreExclusion(t *testing.T) {
	e := newExtractor(t)
	r := e.Extract("He swore a blood oath; ink dribbled on the page.")
	if r.Gore != 0 {
		t.Fatalf("gore should be suppressed by exclusion, got %v", r.Gore)
	}
}

func TestExtractHeroicDampener(t *testing.T) {
	e := newExtractor(t)
	base := "They shoot and attack. Blood everywhere."
	plain := e.Extract(base)
	heroic := e.Extract("Superman faces Lex Luthor over Metropolis. " + base)
	if heroic.Violence >= plain.Violence {
		t.Fatalf("heroic context must dampen violence: %v >= %v", heroic.Violence, plain.Violence)
	}
}

func TestExtractVisceralGate(t *testing.T) {
	e := newExtractor(t)
	gated := e.Extract("They shoot and attack across the field.")
	visceral := e.Extract("They shoot and attack. Blood covers the wound.")
	if gated.Violence >= visceral.Violence {
		t.Fatalf("missing visceral evidence must dampen violence: %v >= %v", gated.Violence, visceral.Violence)
	}
}

func TestExtractChildMentions(t *testing.T) {
	e := newExtractor(t)
	r := e.Extract("The children hide. A child cries. Kids run past.")
	if r.ChildMentions < 3 {
		t.Fatalf("child mentions = %v, want >= 3", r.ChildMentions)
	}
}

func TestExtractElongatedProfanity(t *testing.T) {
	e := newExtractor(t)
	plain := e.Extract("Fuck this.")
	stretched := e.Extract("Fuuuuuck this.")
	if stretched.Profanity < plain.Profanity {
		t.Fatalf("elongated spelling lost: %v < %v", stretched.Profanity, plain.Profanity)
	}
	if stretched.Profanity == 0 {
		t.Fatalf("elongated profanity not counted")
	}
}

func TestExtractEmptyBody(t *testing.T) {
	e := newExtractor(t)
	r := e.Extract("")
	if r.Length != 1 {
		t.Fatalf("empty body length = %d, want 1", r.Length)
	}
}
