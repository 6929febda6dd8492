// Package domain defines the rating advisor request and response shapes
package domain

import "context"

// AdviseRequest asks how to move a script to a lower target rating
type AdviseRequest struct {
	ScriptText      string `json:"script_text" validate:"required"`
	CurrentRating   string `json:"current_rating,omitempty"`
	TargetRating    string `json:"target_rating" validate:"required,oneof=0+ 6+ 12+ 16+ 18+"`
	Language        string `json:"language,omitempty" validate:"omitempty,oneof=en ru"`
	IncludeRewrites bool   `json:"include_rewrites,omitempty"`
}

// RatingGap is one dimension still above the target threshold
type RatingGap struct {
	Dimension    string  `json:"dimension"`
	CurrentScore float64 `json:"current_score"`
	TargetScore  float64 `json:"target_score"`
	Gap          float64 `json:"gap"`
	Priority     string  `json:"priority"` // critical, high, medium, low
}

// SceneIssue flags one scene whose scores break the target thresholds
type SceneIssue struct {
	SceneID         int                `json:"scene_id"`
	SceneNumber     int                `json:"scene_number"`
	ContentPreview  string             `json:"content_preview"`
	Issues          map[string]float64 `json:"issues"`
	Severity        string             `json:"severity"` // critical, high, medium, low
	Recommendations []string           `json:"recommendations"`
}

// Action is one concrete recommended edit
type Action struct {
	ActionType      string   `json:"action_type"` // remove_scene, reduce_content, modify_dialogue, rewrite_scene
	SceneID         int      `json:"scene_id"`
	Description     string   `json:"description"`
	ImpactScore     float64  `json:"impact_score"`
	Category        string   `json:"category"`
	SpecificChanges []string `json:"specific_changes"`
	Difficulty      string   `json:"difficulty"` // easy, medium, hard
}

// AdviseResponse is the full advisory report
type AdviseResponse struct {
	CurrentRating string  `json:"current_rating"`
	TargetRating  string  `json:"target_rating"`
	IsAchievable  bool    `json:"is_achievable"`
	Confidence    float64 `json:"confidence"`

	CurrentScores map[string]float64 `json:"current_scores"`
	TargetScores  map[string]float64 `json:"target_scores"`
	RatingGaps    []RatingGap        `json:"rating_gaps"`

	ProblematicScenes  []SceneIssue `json:"problematic_scenes"`
	RecommendedActions []Action     `json:"recommended_actions"`

	Summary         string `json:"summary"`
	EstimatedEffort string `json:"estimated_effort"` // minimal, moderate, significant, extensive

	AlternativeTargets []string `json:"alternative_targets,omitempty"`
}

// AdvisorPort is the service surface the transports mount
type AdvisorPort interface {
	Advise(ctx context.Context, req AdviseRequest) (AdviseResponse, error)
}
