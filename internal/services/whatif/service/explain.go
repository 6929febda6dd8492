package service

import (
	"fmt"
	"sort"
	"strings"

	"screenrate/internal/core/scoring"
	ratingdomain "screenrate/internal/services/rating/domain"
	"screenrate/internal/services/whatif/domain"
)

// child_risk stays out of user-facing score diffs
var diffKeys = []string{"violence", "gore", "sex_act", "nudity", "profanity", "drugs"}

// simpleExplanation narrates the rating delta for the free-form flow in
// the request's language
func simpleExplanation(lang string, orig, mod ratingdomain.Analysis, changes []string) string {
	if lang == "ru" {
		return russianExplanation(orig, mod, changes)
	}
	return englishExplanation(orig, mod, changes)
}

func russianExplanation(orig, mod ratingdomain.Analysis, changes []string) string {
	origScores, modScores := orig.Agg.Map(), mod.Agg.Map()

	if orig.Rating == mod.Rating {
		out := fmt.Sprintf(
			"Рейтинг остался прежним: %s. Внесенные изменения (%s) не были достаточно значительными для изменения возрастного рейтинга.",
			orig.Rating, strings.Join(changes, ", "))

		var deltas []string
		for _, k := range diffKeys {
			diff := modScores[k] - origScores[k]
			if abs(diff) > 0.05 {
				dir := "снизился"
				if diff > 0 {
					dir = "увеличился"
				}
				deltas = append(deltas, fmt.Sprintf("%s: %s на %.2f", k, dir, abs(diff)))
			}
		}
		if len(deltas) > 0 {
			out += fmt.Sprintf(" Изменения в оценках: %s.", strings.Join(deltas, ", "))
		}
		return out
	}

	dir := "понизился"
	if scoring.RatingIndex(mod.Rating) > scoring.RatingIndex(orig.Rating) {
		dir = "повысился"
	}
	out := fmt.Sprintf("Рейтинг %s: было %s, стало %s. Изменения: %s. ",
		dir, orig.Rating, mod.Rating, strings.Join(changes, ", "))

	var deltas []string
	for _, k := range diffKeys {
		diff := modScores[k] - origScores[k]
		if abs(diff) > 0.1 {
			d := "снижен"
			if diff > 0 {
				d = "увеличен"
			}
			deltas = append(deltas, fmt.Sprintf("%s %s с %.2f до %.2f", k, d, origScores[k], modScores[k]))
		}
	}
	if len(deltas) > 0 {
		out += fmt.Sprintf("Ключевые изменения: %s.", strings.Join(deltas, ", "))
	}
	return out
}

func englishExplanation(orig, mod ratingdomain.Analysis, changes []string) string {
	origScores, modScores := orig.Agg.Map(), mod.Agg.Map()

	if orig.Rating == mod.Rating {
		out := fmt.Sprintf(
			"The rating remained %s. The applied changes (%s) were not significant enough to change the age rating.",
			orig.Rating, strings.Join(changes, ", "))

		var deltas []string
		for _, k := range diffKeys {
			diff := modScores[k] - origScores[k]
			if abs(diff) > 0.05 {
				dir := "decreased"
				if diff > 0 {
					dir = "increased"
				}
				deltas = append(deltas, fmt.Sprintf("%s %s by %.2f", k, dir, abs(diff)))
			}
		}
		if len(deltas) > 0 {
			out += fmt.Sprintf(" Score changes: %s.", strings.Join(deltas, ", "))
		}
		return out
	}

	dir := "decreased"
	if scoring.RatingIndex(mod.Rating) > scoring.RatingIndex(orig.Rating) {
		dir = "increased"
	}
	out := fmt.Sprintf("The rating %s: was %s, now %s. Changes: %s. ",
		dir, orig.Rating, mod.Rating, strings.Join(changes, ", "))

	var deltas []string
	for _, k := range diffKeys {
		diff := modScores[k] - origScores[k]
		if abs(diff) > 0.1 {
			d := "decreased"
			if diff > 0 {
				d = "increased"
			}
			deltas = append(deltas, fmt.Sprintf("%s %s from %.2f to %.2f", k, d, origScores[k], modScores[k]))
		}
	}
	if len(deltas) > 0 {
		out += fmt.Sprintf("Key changes: %s.", strings.Join(deltas, ", "))
	}
	return out
}

// advancedExplanation is the multi-line report for the structured flow
func advancedExplanation(orig, mod ratingdomain.Analysis, records []domain.Applied) string {
	parts := []string{fmt.Sprintf("Applied %d modification(s) to the script.", len(records))}

	for _, r := range records {
		if r.Error != "" {
			parts = append(parts, fmt.Sprintf("- %s: Failed (%s)", r.Type, r.Error))
			continue
		}
		parts = append(parts, fmt.Sprintf("- %s: %s", r.Type, formatMetadata(r.Metadata)))
	}

	if orig.Rating == mod.Rating {
		parts = append(parts, fmt.Sprintf(
			"\nRating remained: %s. Modifications were not significant enough to change the age rating.",
			orig.Rating))
	} else {
		dir := "decreased"
		if scoring.RatingIndex(mod.Rating) > scoring.RatingIndex(orig.Rating) {
			dir = "increased"
		}
		parts = append(parts, fmt.Sprintf("\nRating %s: %s -> %s", dir, orig.Rating, mod.Rating))
	}

	origScores, modScores := orig.Agg.Map(), mod.Agg.Map()
	var deltas []string
	for _, k := range diffKeys {
		diff := modScores[k] - origScores[k]
		if abs(diff) > 0.1 {
			dir := "decreased"
			if diff > 0 {
				dir = "increased"
			}
			deltas = append(deltas, fmt.Sprintf("%s %s by %.2f", k, dir, abs(diff)))
		}
	}
	if len(deltas) > 0 {
		parts = append(parts, fmt.Sprintf("\nScore changes: %s", strings.Join(deltas, ", ")))
	}

	return strings.Join(parts, "\n")
}

// formatMetadata flattens scalar and short-list metadata, keys sorted for
// stable output
func formatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return "applied"
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		switch v := meta[k].(type) {
		case int, int64, float64, string:
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		case []int:
			if len(v) <= 5 {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
		case []string:
			if len(v) <= 5 {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
		}
	}
	if len(parts) == 0 {
		return "applied"
	}
	return strings.Join(parts, ", ")
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
