// Package service implements the rating advisor: score the script, diff
// it against the target rating's thresholds, and turn the gaps into
// prioritized, localized edit recommendations
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"screenrate/internal/core/langhint"
	"screenrate/internal/core/scoring"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/logger"
	"screenrate/internal/services/advisor/domain"
	ratingdomain "screenrate/internal/services/rating/domain"
)

// Analyzer is the slice of the rating pipeline the advisor consumes
type Analyzer interface {
	Analyze(text string) ratingdomain.Analysis
}

// Service implements domain.AdvisorPort
type Service struct {
	rater Analyzer
	log   logger.Logger
}

// New wires the advisor over the shared rating pipeline
func New(rater Analyzer) *Service {
	return &Service{rater: rater, log: *logger.Named("advisor")}
}

var dimensionNames = map[string]map[string]string{
	"violence":   {"en": "Violence", "ru": "Насилие"},
	"gore":       {"en": "Gore", "ru": "Жестокость"},
	"sex_act":    {"en": "Sexual Content", "ru": "Сексуальный контент"},
	"nudity":     {"en": "Nudity", "ru": "Нагота"},
	"profanity":  {"en": "Profanity", "ru": "Ненормативная лексика"},
	"drugs":      {"en": "Drugs", "ru": "Наркотики"},
	"child_risk": {"en": "Child Risk", "ru": "Риск для детей"},
}

// Advise builds the full advisory report for one script and target
func (s *Service) Advise(_ context.Context, req domain.AdviseRequest) (domain.AdviseResponse, error) {
	if strings.TrimSpace(req.ScriptText) == "" {
		return domain.AdviseResponse{}, perr.InvalidArgf("script_text must not be empty")
	}
	if scoring.RatingIndex(req.TargetRating) < 0 {
		return domain.AdviseResponse{}, perr.InvalidArgf("unknown target rating %q", req.TargetRating)
	}
	lang := req.Language
	if lang == "" {
		lang = langhint.Hint(req.ScriptText)
	}

	a := s.rater.Analyze(req.ScriptText)

	current := req.CurrentRating
	if current == "" {
		current = a.Rating
	}
	if scoring.RatingIndex(current) < 0 {
		return domain.AdviseResponse{}, perr.InvalidArgf("unknown current rating %q", current)
	}

	currentScores := a.Agg.Map()
	target := scoring.Thresholds[req.TargetRating]
	targetScores := target.Map()

	achievable, confidence := achievability(current, req.TargetRating, currentScores, targetScores)
	gaps := calculateGaps(currentScores, targetScores, lang)
	scenes := problematicScenes(a.Scenes, targetScores, lang)
	actions := s.recommendations(scenes, a.Scenes, lang)

	var alternatives []string
	if !achievable {
		alternatives = suggestAlternatives(current, req.TargetRating, currentScores)
	}

	s.log.Info().
		Str("current_rating", current).
		Str("target_rating", req.TargetRating).
		Bool("achievable", achievable).
		Int("problem_scenes", len(scenes)).
		Msg("advisory generated")

	return domain.AdviseResponse{
		CurrentRating:      current,
		TargetRating:       req.TargetRating,
		IsAchievable:       achievable,
		Confidence:         confidence,
		CurrentScores:      currentScores,
		TargetScores:       targetScores,
		RatingGaps:         gaps,
		ProblematicScenes:  scenes,
		RecommendedActions: actions,
		Summary:            summary(current, req.TargetRating, achievable, gaps, len(scenes), lang),
		EstimatedEffort:    estimateEffort(scenes, gaps),
		AlternativeTargets: alternatives,
	}, nil
}

// achievability reports whether the target can be reached and how
// confident the report is. Targets stricter than the current rating are
// never achievable; matching ratings are certain
func achievability(current, target string, scores, thresholds map[string]float64) (bool, float64) {
	currentIdx := scoring.RatingIndex(current)
	targetIdx := scoring.RatingIndex(target)

	if targetIdx > currentIdx {
		return false, 0.0
	}
	if targetIdx == currentIdx {
		return true, 1.0
	}

	var violations []float64
	for _, dim := range scoring.DimensionOrder {
		if scores[dim] > thresholds[dim] {
			violations = append(violations, scores[dim]-thresholds[dim])
		}
	}
	if len(violations) == 0 {
		return true, 1.0
	}

	var sum, maxViolation float64
	for _, v := range violations {
		sum += v
		if v > maxViolation {
			maxViolation = v
		}
	}
	avg := sum / float64(len(violations))

	switch {
	case maxViolation > 0.5:
		return true, 0.3
	case maxViolation > 0.3:
		return true, 0.5
	case avg > 0.2:
		return true, 0.7
	default:
		return true, 0.9
	}
}

func calculateGaps(current, target map[string]float64, lang string) []domain.RatingGap {
	var gaps []domain.RatingGap
	for _, dim := range scoring.DimensionOrder {
		gap := current[dim] - target[dim]
		if gap <= 0 {
			continue
		}
		var priority string
		switch {
		case gap > 0.5:
			priority = "critical"
		case gap > 0.3:
			priority = "high"
		case gap > 0.15:
			priority = "medium"
		default:
			priority = "low"
		}
		gaps = append(gaps, domain.RatingGap{
			Dimension:    dimensionNames[dim][lang],
			CurrentScore: round3(current[dim]),
			TargetScore:  round3(target[dim]),
			Gap:          round3(gap),
			Priority:     priority,
		})
	}
	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Gap > gaps[j].Gap })
	return gaps
}

const previewChars = 200

func problematicScenes(scenes []ratingdomain.SceneScore, thresholds map[string]float64, lang string) []domain.SceneIssue {
	var out []domain.SceneIssue
	for _, sc := range scenes {
		issues := map[string]float64{}
		severityScore := 0.0
		for _, dim := range scoring.DimensionOrder {
			if v := sc.Scores.Get(dim); v > thresholds[dim] {
				excess := v - thresholds[dim]
				issues[dimensionNames[dim][lang]] = round3(excess)
				severityScore += excess
			}
		}
		if len(issues) == 0 {
			continue
		}

		var severity string
		switch {
		case severityScore > 1.5:
			severity = "critical"
		case severityScore > 0.8:
			severity = "high"
		case severityScore > 0.4:
			severity = "medium"
		default:
			severity = "low"
		}

		preview := sc.Scene.Body
		if r := []rune(preview); len(r) > previewChars {
			preview = string(r[:previewChars])
		}

		out = append(out, domain.SceneIssue{
			SceneID:         sc.Scene.ID,
			SceneNumber:     sc.Scene.ID + 1,
			ContentPreview:  preview,
			Issues:          issues,
			Severity:        severity,
			Recommendations: sceneRecommendations(issues, lang),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return issueSum(out[i].Issues) > issueSum(out[j].Issues)
	})
	return out
}

func issueSum(m map[string]float64) float64 {
	var s float64
	for _, v := range m {
		s += v
	}
	return s
}

var sceneAdvice = map[string]map[string]string{
	"en": {
		"Violence":       "Reduce or remove violent actions and combat descriptions",
		"Gore":           "Remove graphic descriptions of injuries and blood",
		"Sexual Content": "Remove or tone down sexual scenes",
		"Nudity":         "Remove nudity descriptions or make them implicit",
		"Profanity":      "Replace profane language with milder alternatives",
		"Drugs":          "Remove or reduce drug and alcohol references",
		"Child Risk":     "Remove children from dangerous situations",
	},
	"ru": {
		"Насилие":              "Уменьшить или удалить описания насилия и боевых действий",
		"Жестокость":           "Убрать графические описания ранений и крови",
		"Сексуальный контент":  "Удалить или смягчить сексуальные сцены",
		"Нагота":               "Убрать описания наготы или сделать их косвенными",
		"Ненормативная лексика": "Заменить нецензурную лексику на более мягкие варианты",
		"Наркотики":            "Убрать или уменьшить упоминания наркотиков и алкоголя",
		"Риск для детей":       "Убрать детей из опасных ситуаций",
	},
}

// sceneRecommendations keeps the advice list in dimension order so output
// is stable across runs
func sceneRecommendations(issues map[string]float64, lang string) []string {
	var out []string
	for _, dim := range scoring.DimensionOrder {
		name := dimensionNames[dim][lang]
		if _, ok := issues[name]; !ok {
			continue
		}
		if advice, ok := sceneAdvice[lang][name]; ok {
			out = append(out, advice)
		}
	}
	return out
}

func summary(current, target string, achievable bool, gaps []domain.RatingGap, numScenes int, lang string) string {
	topGaps := gaps
	if len(topGaps) > 3 {
		topGaps = topGaps[:3]
	}
	descs := make([]string, len(topGaps))
	for i, g := range topGaps {
		descs[i] = fmt.Sprintf("%s (↓%.1f%%)", g.Dimension, g.Gap*100)
	}
	gapDesc := strings.Join(descs, ", ")

	if lang == "ru" {
		if !achievable {
			return fmt.Sprintf("Невозможно понизить рейтинг с %s до %s. Целевой рейтинг выше текущего.", current, target)
		}
		if current == target {
			return fmt.Sprintf("Сценарий уже имеет рейтинг %s.", target)
		}
		return fmt.Sprintf(
			"Для достижения рейтинга %s необходимо уменьшить: %s. Найдено %d проблемных сцен. Приоритетные изменения показаны в рекомендациях.",
			target, gapDesc, numScenes)
	}

	if !achievable {
		return fmt.Sprintf("Cannot lower rating from %s to %s. Target rating is higher than current.", current, target)
	}
	if current == target {
		return fmt.Sprintf("Script already has %s rating.", target)
	}
	return fmt.Sprintf(
		"To achieve %s rating, reduce: %s. Found %d problematic scenes. Priority changes shown in recommendations.",
		target, gapDesc, numScenes)
}

func estimateEffort(scenes []domain.SceneIssue, gaps []domain.RatingGap) string {
	var critical, high, criticalGaps int
	for _, sc := range scenes {
		switch sc.Severity {
		case "critical":
			critical++
		case "high":
			high++
		}
	}
	for _, g := range gaps {
		if g.Priority == "critical" || g.Priority == "high" {
			criticalGaps++
		}
	}

	total := critical*3 + high*2 + criticalGaps*2
	switch {
	case total > 15:
		return "extensive"
	case total > 10:
		return "significant"
	case total > 5:
		return "moderate"
	default:
		return "minimal"
	}
}

// suggestAlternatives walks down from the current rating looking for
// targets with at most two threshold violations
func suggestAlternatives(current, target string, scores map[string]float64) []string {
	var out []string
	for i := scoring.RatingIndex(current) - 1; i >= 0 && len(out) < 2; i-- {
		rating := scoring.RatingOrder[i]
		if rating == target {
			continue
		}
		thresholds := scoring.Thresholds[rating].Map()
		violations := 0
		for _, dim := range scoring.DimensionOrder {
			if scores[dim] > thresholds[dim] {
				violations++
			}
		}
		if violations <= 2 {
			out = append(out, rating)
		}
	}
	return out
}

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
