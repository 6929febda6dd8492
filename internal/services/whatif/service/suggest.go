package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"screenrate/internal/core/scoring"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/services/whatif/domain"
)

const (
	defaultMaxSuggestions = 8

	// a scene counts as affected when its own score passes this
	affectedSceneScore = 0.5

	// affected scene lists are previews, not inventories
	maxAffectedShown = 5
)

type categoryConfig struct {
	key       string
	threshold float64
	icon      string
	ru        string
	en        string
}

// order fixes the evaluation and tie-break sequence
var categories = []categoryConfig{
	{key: "violence", threshold: 0.3, icon: "💬", ru: "насилие", en: "violence"},
	{key: "gore", threshold: 0.25, icon: "🩹", ru: "кровь", en: "gore"},
	{key: "profanity", threshold: 0.3, icon: "🤐", ru: "мат", en: "profanity"},
	{key: "sex_act", threshold: 0.2, icon: "🔞", ru: "секс", en: "sexual content"},
	{key: "nudity", threshold: 0.2, icon: "👗", ru: "нагота", en: "nudity"},
	{key: "drugs", threshold: 0.2, icon: "💊", ru: "наркотики", en: "drugs"},
}

// Suggest analyzes the script and returns ranked, localized reduction
// hints for every category above its threshold
func (s *Service) Suggest(_ context.Context, req domain.SuggestRequest) (domain.Suggestions, error) {
	if strings.TrimSpace(req.ScriptText) == "" {
		return domain.Suggestions{}, perr.InvalidArgf("script_text must not be empty")
	}
	lang := req.Language
	if lang == "" {
		lang = "ru"
	}
	maxSuggestions := req.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = defaultMaxSuggestions
	}

	a := s.rater.Analyze(req.ScriptText)
	scores := req.CurrentScores
	if scores == nil {
		scores = a.Agg.Map()
	}

	var out []domain.SmartSuggestion
	for _, cat := range categories {
		score := scores[cat.key]
		if score <= cat.threshold {
			continue
		}

		var affected []int
		for _, sc := range a.Scenes {
			if sc.Scores.Get(cat.key) > affectedSceneScore {
				affected = append(affected, sc.Scene.ID)
			}
		}

		name := cat.en
		if lang == "ru" {
			name = cat.ru
		}

		shown := affected
		if len(shown) > maxAffectedShown {
			shown = shown[:maxAffectedShown]
		}

		out = append(out, domain.SmartSuggestion{
			Text:           suggestionText(lang, name, affected),
			Category:       cat.key,
			Icon:           cat.icon,
			Priority:       min(10, int(score*10)+2),
			Confidence:     min1(score * 1.2),
			AffectedScenes: shown,
			Reasoning:      reasoning(lang, name, score),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}

	s.log.Info().
		Str("rating", a.Rating).
		Int("suggestions", len(out)).
		Msg("smart suggestions generated")

	return domain.Suggestions{
		Suggestions:     out,
		AnalysisSummary: summary(lang, scores, a.Rating),
		CurrentRating:   a.Rating,
		TotalScenes:     len(a.Scenes),
	}, nil
}

func suggestionText(lang, name string, affected []int) string {
	ids := make([]string, 0, 3)
	for i, id := range affected {
		if i == 3 {
			break
		}
		ids = append(ids, fmt.Sprintf("%d", id))
	}

	if lang == "ru" {
		switch {
		case len(affected) == 1:
			return fmt.Sprintf("убрать %s в сцене %d", name, affected[0])
		case len(affected) > 1 && len(affected) <= 3:
			return fmt.Sprintf("убрать %s в сценах %s", name, strings.Join(ids, ", "))
		case len(affected) > 3:
			return fmt.Sprintf("смягчить %s (%d сцен)", name, len(affected))
		}
		return fmt.Sprintf("убрать %s", name)
	}

	switch {
	case len(affected) == 1:
		return fmt.Sprintf("remove %s in scene %d", name, affected[0])
	case len(affected) > 1 && len(affected) <= 3:
		return fmt.Sprintf("remove %s in scenes %s", name, strings.Join(ids, ", "))
	case len(affected) > 3:
		return fmt.Sprintf("reduce %s (%d scenes)", name, len(affected))
	}
	return fmt.Sprintf("remove %s", name)
}

func reasoning(lang, name string, score float64) string {
	if lang == "ru" {
		return fmt.Sprintf("Уровень %s: %d%% - выше нормы для более низкого рейтинга", name, int(score*100))
	}
	return fmt.Sprintf("%s level: %d%% - above threshold for lower rating", capitalize(name), int(score*100))
}

func summary(lang string, scores map[string]float64, rating string) string {
	var high []string
	for _, k := range scoring.DimensionOrder {
		if scores[k] > 0.5 {
			high = append(high, k)
		}
	}

	if lang == "ru" {
		if len(high) > 0 {
			return fmt.Sprintf("Обнаружены высокие показатели: %s. Рекомендуется смягчить контент для получения более низкого рейтинга.", strings.Join(high, ", "))
		}
		return fmt.Sprintf("Сценарий имеет рейтинг %s. Предложены улучшения для снижения возрастных ограничений.", rating)
	}
	if len(high) > 0 {
		return fmt.Sprintf("High levels detected: %s. Consider reducing content for lower rating.", strings.Join(high, ", "))
	}
	return fmt.Sprintf("Script rated %s. Suggestions provided to reduce age restrictions.", rating)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func min1(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}
