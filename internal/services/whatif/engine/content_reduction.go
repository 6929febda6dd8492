package engine

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	perr "screenrate/internal/platform/errors"
	"screenrate/internal/core/screenplay"
)

// matches any word rune, unlike RE2's ASCII-only \w
const wordClass = `[\p{L}\p{N}_]`

// rule is one compiled replacement. Entries written with explicit \b
// markers (word-bounded profanity forms) keep exact boundaries on both
// sides; bare words get a stem pattern that also swallows suffixes.
// Boundaries are checked rune-wise because RE2's \b never matches next
// to Cyrillic
type rule struct {
	re         *regexp.Regexp
	with       string
	boundStart bool
	boundEnd   bool
}

func compileRules(repls map[string]string) []rule {
	out := make([]rule, 0, len(repls))
	for pat, with := range repls {
		r := rule{with: with}
		if strings.Contains(pat, `\b`) {
			r.boundStart = strings.HasPrefix(pat, `\b`)
			r.boundEnd = strings.HasSuffix(pat, `\b`)
			core := strings.ReplaceAll(pat, `\b`, "")
			core = strings.ReplaceAll(core, `\w`, wordClass)
			r.re = regexp.MustCompile(`(?i)` + core)
		} else {
			r.boundStart = true
			r.re = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(pat) + wordClass + `*`)
		}
		out = append(out, r)
	}
	return out
}

func applyRules(text string, rules []rule) (string, int) {
	count := 0
	for _, r := range rules {
		hits := r.re.FindAllStringIndex(text, -1)
		if len(hits) == 0 {
			continue
		}
		var b strings.Builder
		prev, n := 0, 0
		for _, h := range hits {
			if r.boundStart && wordRuneBefore(text, h[0]) {
				continue
			}
			if r.boundEnd && wordRuneAt(text, h[1]) {
				continue
			}
			b.WriteString(text[prev:h[0]])
			b.WriteString(r.with)
			prev = h[1]
			n++
		}
		if n == 0 {
			continue
		}
		b.WriteString(text[prev:])
		text = b.String()
		count += n
	}
	return text, count
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ContentReduction swaps risky words and phrases for milder ones per
// content class, scoped by scene id or character lists
type ContentReduction struct {
	defaults map[string]map[string]string
}

// NewContentReduction builds the strategy with its default replacement
// tables (English + Russian)
func NewContentReduction() *ContentReduction {
	return &ContentReduction{defaults: map[string]map[string]string{
		"violence": {
			"kill": "confront", "shoot": "point at", "stab": "threaten",
			"murder": "argue with", "attack": "approach", "beating": "pushing",
			"fight": "argue", "punch": "push", "kick": "shove",
			"убить": "противостоять", "убийство": "конфликт",
			"стрелять": "направить на", "зарезать": "угрожать",
			"атаковать": "приблизиться", "избиение": "толкание", "драка": "спор",
		},
		"profanity": {
			`\bfuck\w*\b`: "darn", `\bshit\b`: "crap", `\bmotherfucker\b`: "jerk",
			`\bbitch\b`: "witch", `\basshole\b`: "idiot",
			`\bблядь\b`: "черт", `\bбля\b`: "блин", `\bсука\b`: "зараза",
			`\bхуй\w*\b`: "черт", `\bпизд\w*\b`: "черт",
			`\bебать\b`: "черт", `\bебал\w*\b`: "черт",
		},
		"gore": {
			"blood": "mark", "bloody": "marked", "bleeding": "injured",
			"wound": "injury", "guts": "injury",
			"кровь": "след", "кровавый": "помеченный",
			"кровоточ": "ранен", "рана": "повреждение",
		},
		"sexual": {
			`\brape\b`: "assault", `\bsex scene\b`: "romantic scene",
			`\bnaked\b`: "undressed", `\bnude\b`: "unclothed",
			`\bизнасилов\w*\b`: "напад", `\bсексуальн\w*\b`: "романтическ",
			`\bголый\b`: "раздетый", `\bголая\b`: "раздетая",
		},
		"drugs": {
			`\bheroin\b`: "substance", `\bcocaine\b`: "substance",
			`\bmarijuana\b`: "substance",
			`\bгероин\b`: "вещество", `\bкокаин\b`: "вещество",
			`\bмарихуан\w*\b`: "вещество",
		},
	}}
}

func (*ContentReduction) CanHandle(t string) bool {
	switch t {
	case "reduce_violence", "reduce_profanity", "reduce_gore",
		"reduce_sexual", "reduce_drugs", "reduce_content":
		return true
	}
	return false
}

func (c *ContentReduction) Validate(params map[string]any) error {
	for _, ct := range stringsParam(params, "content_types") {
		if _, ok := c.defaults[ct]; !ok {
			return perr.InvalidArgf("unknown content type %q", ct)
		}
	}
	return nil
}

func (c *ContentReduction) Apply(_ context.Context, scenes []screenplay.Scene, params map[string]any, _ screenplay.Entities) ([]screenplay.Scene, map[string]any, error) {
	contentTypes := stringsParam(params, "content_types")
	if len(contentTypes) == 0 {
		contentTypes = []string{"violence", "profanity"}
	}

	repls := map[string]string{}
	for k, v := range stringMapParam(params, "custom_replacements") {
		repls[k] = v
	}
	for _, ct := range contentTypes {
		for k, v := range c.defaults[ct] {
			// custom entries override defaults
			if _, ok := repls[k]; !ok {
				repls[k] = v
			}
		}
	}
	rules := compileRules(repls)

	scope := intSet(intsParam(params, "scope"))
	targets := stringSet(stringsParam(params, "target_characters"))

	out := make([]screenplay.Scene, len(scenes))
	copy(out, scenes)

	total := 0
	modified := 0
	for i := range out {
		if len(scope) > 0 {
			if _, ok := scope[out[i].ID]; !ok {
				continue
			}
		}
		if len(targets) > 0 && !anyCharacterIn(out[i], targets) {
			continue
		}
		text, n := applyRules(out[i].Body, rules)
		if n > 0 {
			out[i].Body = text
			total += n
			modified++
		}
	}

	meta := map[string]any{
		"content_types_reduced": contentTypes,
		"total_replacements":    total,
		"scenes_modified":       modified,
	}
	return out, meta, nil
}
