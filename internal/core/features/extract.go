// Package features turns scene bodies into raw per-dimension counters.
// Extraction is pattern counting over normalized text with the context
// modulation the lexicon pack describes (gore exclusions, heroic dampener,
// visceral gate, psychological fold)
package features

import (
	"regexp"
	"strings"

	"screenrate/internal/core/lexicon"
	"screenrate/internal/core/normalize"
)

// Raw holds unnormalized counters for one scene. All counts are sums of
// regex match occurrences, not distinct patterns
type Raw struct {
	Violence      float64
	Gore          float64
	SexAct        float64
	Nudity        float64
	Profanity     float64
	Drugs         float64
	ChildMentions float64

	// Length is max(1, word count) of the normalized body
	Length int
}

// Extractor counts dimension hits against a compiled lexicon pack.
// Safe for concurrent use; the pack is read-only after load
type Extractor struct {
	pack *lexicon.Pack
	norm *normalize.Normalizer
}

func New(p *lexicon.Pack) *Extractor {
	return &Extractor{pack: p, norm: normalize.New()}
}

// Extract produces raw counters for one scene body.
//
// Violence modulation order matters: the psychological counter folds in at
// 0.5x first, then the heroic dampener (0.6x) and the visceral gate (0.7x)
// scale the combined count
func (e *Extractor) Extract(body string) Raw {
	t := e.norm.Normalize(body)

	var r Raw
	r.Violence = e.count("violence", t)
	r.Gore = e.count("gore", t)
	r.SexAct = e.count("sex_act", t)
	r.Nudity = e.count("nudity", t)
	r.Profanity = e.profanity(t)
	r.Drugs = e.count("drugs", t)
	r.ChildMentions = countAll(e.pack.Child, t)

	if containsAny(t, e.pack.GoreExclusions) {
		r.Gore = 0
	}

	r.Violence += 0.5 * countAll(e.pack.Psychological, t)
	if containsAny(t, e.pack.Heroic) {
		r.Violence *= 0.6
	}
	if r.Violence > 0 && !containsAny(t, e.pack.Visceral) {
		r.Violence *= 0.7
	}

	r.Length = wordCount(t)
	return r
}

func (e *Extractor) count(dim, t string) float64 {
	return countAll(e.pack.Dimensions[dim], t)
}

// profanity counts against the base projection plus the repeat-squashed
// shadow so elongated dialogue ("fuuuuuck") still registers. The larger
// count wins; the projections overlap on clean text
func (e *Extractor) profanity(t string) float64 {
	n := e.count("profanity", t)
	sh := normalize.BuildShadows(t)
	if alt := e.count("profanity", sh.RepeatSquash); alt > n {
		n = alt
	}
	return n
}

func countAll(pats []*regexp.Regexp, t string) float64 {
	var n int
	for _, re := range pats {
		n += len(re.FindAllStringIndex(t, -1))
	}
	return float64(n)
}

func containsAny(t string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

func wordCount(t string) int {
	n := len(strings.Fields(t))
	if n < 1 {
		return 1
	}
	return n
}
