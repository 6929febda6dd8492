// Package lexicon loads and compiles the content-dimension patterns from the
// embedded lexicon.json. It prepares per-dimension regex lists plus the
// exclusion and context keyword sets consulted by the feature extractor
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed lexicon.json
var embedded []byte

// Dimension names in canonical order. child_risk is derived from the child
// counter at normalization time and has no direct pattern list here
var Dimensions = []string{"violence", "gore", "sex_act", "nudity", "profanity", "drugs"}

type rawPack struct {
	Version        int                 `json:"version"`
	Meta           map[string]any      `json:"meta"`
	Dimensions     map[string][]string `json:"dimensions"`
	Child          []string            `json:"child"`
	Psychological  []string            `json:"psychological"`
	GoreExclusions []string            `json:"gore_exclusions"`
	Heroic         []string            `json:"heroic"`
	Visceral       []string            `json:"visceral"`
}

// Pack is the compiled lexicon shared read-only by the pipeline.
// Pattern text is matched against case-folded scene bodies; English entries
// carry ASCII word bounds, Cyrillic stems match as substrings
type Pack struct {
	Version int
	Meta    map[string]any

	// Dimensions maps dimension name to its compiled positive patterns
	Dimensions map[string][]*regexp.Regexp

	// Child counts mentions of minors (presence, not danger)
	Child []*regexp.Regexp

	// Psychological is the auxiliary counter folded into violence at 0.5x
	Psychological []*regexp.Regexp

	// GoreExclusions are substrings that suppress all gore hits in a scene
	GoreExclusions []string

	// Heroic keywords dampen raw violence counts by 0.6x
	Heroic []string

	// Visceral keywords gate violence; absent co-occurrence dampens by 0.7x
	Visceral []string
}

// Load returns the compiled pack from the embedded lexicon.json
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("lexicon: parse lexicon.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("lexicon: unsupported lexicon.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version:    rp.Version,
		Meta:       rp.Meta,
		Dimensions: make(map[string][]*regexp.Regexp, len(rp.Dimensions)),
	}

	for _, dim := range Dimensions {
		pats, ok := rp.Dimensions[dim]
		if !ok || len(pats) == 0 {
			return nil, fmt.Errorf("lexicon: dimension %q has no patterns", dim)
		}
		compiled, err := compileAll(dim, pats)
		if err != nil {
			return nil, err
		}
		p.Dimensions[dim] = compiled
	}
	for dim := range rp.Dimensions {
		if _, ok := p.Dimensions[dim]; !ok {
			return nil, fmt.Errorf("lexicon: unknown dimension %q", dim)
		}
	}

	var err error
	if p.Child, err = compileAll("child", rp.Child); err != nil {
		return nil, err
	}
	if p.Psychological, err = compileAll("psychological", rp.Psychological); err != nil {
		return nil, err
	}

	p.GoreExclusions = lowerAll(rp.GoreExclusions)
	p.Heroic = lowerAll(rp.Heroic)
	p.Visceral = lowerAll(rp.Visceral)

	return p, nil
}

// MustLoad loads the embedded pack or panics; startup-only
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

func compileAll(group string, pats []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(pats))
	for _, pat := range pats {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			return nil, fmt.Errorf("lexicon: compile %s pattern %q: %w", group, pat, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
