// Package domain defines the types and ports of the rating pipeline
package domain

import (
	"screenrate/internal/core/screenplay"
	"screenrate/internal/core/scoring"
)

// RateRequest is the scoring input
type RateRequest struct {
	Text     string `json:"text" validate:"required"`
	ScriptID string `json:"script_id,omitempty"`
}

// SceneScore pairs a scene with its normalized vector and ranking weight
type SceneScore struct {
	Scene  screenplay.Scene `json:"scene"`
	Scores scoring.Scores   `json:"scores"`
	Weight float64          `json:"weight"`
}

// TriggerScene is one top-weight scene surfaced in the rating response
type TriggerScene struct {
	SceneID int    `json:"scene_id"`
	Heading string `json:"heading"`
	scoring.Scores
	Weight     float64 `json:"weight"`
	SampleText string  `json:"sample_text"`
}

// Analysis is the full pipeline output over one script text
type Analysis struct {
	Scenes  []SceneScore   `json:"scenes"`
	Agg     scoring.Scores `json:"agg_scores"`
	Rating  string         `json:"predicted_rating"`
	Reasons []string       `json:"reasons"`
}

// RateResult is the /rate_script response shape
type RateResult struct {
	ScriptID         string             `json:"script_id,omitempty"`
	PredictedRating  string             `json:"predicted_rating"`
	Reasons          []string           `json:"reasons"`
	AggScores        map[string]float64 `json:"agg_scores"`
	TopTriggerScenes []TriggerScene     `json:"top_trigger_scenes"`
	ModelVersion     string             `json:"model_version"`
	TotalScenes      int                `json:"total_scenes"`
}
