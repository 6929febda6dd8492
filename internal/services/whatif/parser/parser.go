// Package parser turns free-form what-if requests, English or Russian,
// into the structured modifications the engine executes
package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"screenrate/internal/ml/embed"
	"screenrate/internal/platform/logger"
	"screenrate/internal/services/whatif/domain"
)

// Intent is the parsed shape of one natural-language request
type Intent struct {
	RemoveScenes    []int
	ReduceViolence  bool
	ReduceProfanity bool
	ReduceGore      bool
	ReduceSexual    bool
	ReduceDrugs     bool

	// ViolenceReplacement is the user's own phrasing for what fights
	// should become, when they gave one
	ViolenceReplacement string

	// ViolenceStyle is "verbal" or "mild", chosen by semantic similarity
	// of the replacement phrase against anchor examples
	ViolenceStyle string
}

// Empty reports whether nothing actionable was recognized
func (in Intent) Empty() bool {
	return len(in.RemoveScenes) == 0 && !in.ReduceViolence && !in.ReduceProfanity &&
		!in.ReduceGore && !in.ReduceSexual && !in.ReduceDrugs
}

type patternGroup struct {
	kind string
	res  []*regexp.Regexp
}

// styleThreshold gates the verbal classification; below it the mild
// tables apply
const styleThreshold = 0.5

// Parser recognizes modification intents with bilingual patterns and an
// optional embedder for replacement-style classification
type Parser struct {
	groups []patternGroup
	embed  embed.Embedder

	verbalAnchors []string
	mildAnchors   []string

	log logger.Logger
}

// New builds a parser. A nil embedder is fine; replacement phrases then
// always classify as mild
func New(e embed.Embedder) *Parser {
	compile := func(pats ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(pats))
		for i, p := range pats {
			out[i] = regexp.MustCompile(`(?i)` + p)
		}
		return out
	}

	return &Parser{
		embed: e,
		log:   *logger.Named("whatif-parser"),
		groups: []patternGroup{
			{kind: "remove_scenes", res: compile(
				`убрать сцен[уы]?\s+(\d+)(?:\s*[-–—]\s*(\d+))?`,
				`удалить сцен[уы]?\s+(\d+)(?:\s*[-–—]\s*(\d+))?`,
				`без сцен[ыи]?\s+(\d+)(?:\s*[-–—]\s*(\d+))?`,
				`remove scene[s]?\s+(\d+)(?:\s*[-–—]\s*(\d+))?`,
				`delete scene[s]?\s+(\d+)(?:\s*[-–—]\s*(\d+))?`,
			)},
			{kind: "reduce_violence", res: compile(
				`заменить\s+.*?(драк[уи]|насилие|бой|убийств[оа]).*?на\s+(.*?)(?:\.|$|,)`,
				`смягчить\s+.*?(драк[уи]|насилие|бой)`,
				`убрать\s+.*?(драк[уи]|насилие|бой|убийств[оа]|оружи)`,
				`replace\s+.*?(fight|violence|battle|killing|weapon).*?with\s+(.*?)(?:\.|$|,)`,
				`reduce\s+.*?(fight|violence|battle|weapon)`,
				`remove\s+.*?(fight|violence|battle|killing|weapon)`,
				`без\s+.*?(драк|насил|бо[ея]|оружи)`,
				`no\s+.*?(fight|violence|weapon)`,
			)},
			{kind: "reduce_profanity", res: compile(
				`убрать\s+мат`,
				`удалить\s+мат`,
				`без\s+мат[аи]`,
				`убрать\s+.*?(?:мат|ненормативн|нецензурн)`,
				`у\s+персонаж[ае]\s+(\p{L}+)`,
				`remove\s+profanity`,
				`remove\s+swearing`,
				`no\s+profanity`,
			)},
			{kind: "reduce_gore", res: compile(
				`убрать\s+кров[ьи]`,
				`без\s+кров[ии]`,
				`смягчить\s+.*?кров[ьи]`,
				`убрать\s+.*?увечи`,
				`без\s+.*?(?:крови|увечи)`,
				`remove\s+blood`,
				`remove\s+gore`,
				`reduce\s+gore`,
				`no\s+blood`,
			)},
			{kind: "reduce_sexual", res: compile(
				`убрать\s+.*?(секс|интим|наг)`,
				`без\s+.*?(секс|интим|наг)`,
				`смягчить\s+.*?(секс|интим)`,
				`remove\s+.*?(sex|nudity|intimate|sexual)`,
				`reduce\s+.*?(sex|sexual)`,
				`no\s+.*?(sex|sexual)`,
			)},
			{kind: "reduce_drugs", res: compile(
				`убрать\s+.*?(?:наркотик|алкоголь|курен)`,
				`без\s+.*?(?:наркотик|алкоголь|курен)`,
				`remove\s+.*?(?:drug|alcohol|smoking)`,
				`no\s+.*?(?:drug|alcohol|smoking)`,
			)},
		},
		verbalAnchors: []string{
			"verbal confrontation without physical violence",
			"heated argument instead of fight",
			"словесный конфликт вместо драки",
			"напряженный спор вместо боя",
		},
		mildAnchors: []string{
			"stylized action without graphic violence",
			"cartoon-style action sequence",
			"стилизованный экшн без графического насилия",
			"мультяшный стиль боевых сцен",
		},
	}
}

// Parse extracts the modification intent from a free-form request
func (p *Parser) Parse(ctx context.Context, request string) Intent {
	request = strings.ToLower(request)
	var in Intent

	for _, g := range p.groups {
		for _, re := range g.res {
			m := re.FindStringSubmatch(request)
			if m == nil {
				continue
			}
			switch g.kind {
			case "remove_scenes":
				start, _ := strconv.Atoi(m[1])
				end := start
				if len(m) > 2 && m[2] != "" {
					end, _ = strconv.Atoi(m[2])
				}
				for i := start; i <= end; i++ {
					in.RemoveScenes = append(in.RemoveScenes, i)
				}
			case "reduce_violence":
				in.ReduceViolence = true
				// two-group patterns capture the user's replacement phrase
				if len(m) >= 3 {
					if repl := strings.TrimSpace(m[len(m)-1]); repl != "" {
						in.ViolenceReplacement = repl
					}
				}
			case "reduce_profanity":
				in.ReduceProfanity = true
			case "reduce_gore":
				in.ReduceGore = true
			case "reduce_sexual":
				in.ReduceSexual = true
			case "reduce_drugs":
				in.ReduceDrugs = true
			}
		}
	}

	if in.ReduceViolence {
		in.ViolenceStyle = p.classifyStyle(ctx, in.ViolenceReplacement)
	}
	return in
}

// classifyStyle picks verbal vs mild by the closest anchor example.
// Anything below the threshold, an empty phrase, or a missing embedder
// lands on mild
func (p *Parser) classifyStyle(ctx context.Context, phrase string) string {
	if phrase == "" || p.embed == nil {
		return "mild"
	}
	vec, err := p.embed.Embed(ctx, phrase)
	if err != nil {
		p.log.Warn().Err(err).Msg("style embedding failed, defaulting to mild")
		return "mild"
	}
	anchors, err := p.embed.EmbedBatch(ctx, p.verbalAnchors)
	if err != nil {
		p.log.Warn().Err(err).Msg("anchor embedding failed, defaulting to mild")
		return "mild"
	}
	if embed.MaxSimilarity(vec, anchors) > styleThreshold {
		return "verbal"
	}
	return "mild"
}

// Modifications converts the intent into the engine's modification list.
// Scene removal always goes first so numbered scene references resolve
// against the user's original numbering
func (in Intent) Modifications() []domain.Modification {
	var mods []domain.Modification

	if len(in.RemoveScenes) > 0 {
		mods = append(mods, domain.Modification{
			Type:   "remove_scenes",
			Params: map[string]any{"scene_ids": in.RemoveScenes},
		})
	}
	if in.ReduceViolence {
		mods = append(mods, domain.Modification{
			Type: "reduce_violence",
			Params: map[string]any{
				"content_types":       []string{"violence"},
				"custom_replacements": violenceTable(in.ViolenceStyle),
			},
		})
	}
	if in.ReduceProfanity {
		mods = append(mods, domain.Modification{
			Type: "reduce_profanity",
			Params: map[string]any{
				"content_types":       []string{"profanity"},
				"custom_replacements": profanityExtras,
			},
		})
	}
	if in.ReduceGore {
		mods = append(mods, domain.Modification{
			Type: "reduce_gore",
			Params: map[string]any{
				"content_types":       []string{"gore"},
				"custom_replacements": goreExtras,
			},
		})
	}
	if in.ReduceSexual {
		mods = append(mods, domain.Modification{
			Type:   "reduce_sexual",
			Params: map[string]any{"content_types": []string{"sexual"}},
		})
	}
	if in.ReduceDrugs {
		mods = append(mods, domain.Modification{
			Type:   "reduce_drugs",
			Params: map[string]any{"content_types": []string{"drugs"}},
		})
	}
	return mods
}

// violenceTable widens the default violence replacements with weapon
// nouns and the style-sensitive fight words
func violenceTable(style string) map[string]string {
	fight, scuffle := "scuffle", "потасовка"
	if style == "verbal" {
		fight, scuffle = "argue", "спор"
	}
	return map[string]string{
		"fight": fight, "драка": scuffle,
		"автомат": "устройство", "винтовка": "инструмент",
		"пистолет": "предмет", "оружие": "предмет",
		"gun": "device", "rifle": "tool", "weapon": "item",
		"бьет": "толкает", "ударил": "подтолкнул", "ломает": "скручивает",
		"broke": "twisted", "smashed": "pushed", "crushed": "squeezed",
	}
}

var profanityExtras = map[string]string{
	`\bдерьм\w*\b`: "ерунда",
	`\bговн\w*\b`:  "ерунда",
}

var goreExtras = map[string]string{
	"dismember": "injured", "gore": "impact", "mutilate": "harm",
	"кишки": "повреждение", "увечь": "поврежд",
	"изуродован": "поврежден", "расчленен": "поврежден",
	"брызга": "полет", "текла": "появилась", "пролилась": "образовалась",
}
