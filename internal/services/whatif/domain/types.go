// Package domain defines the modification and simulation types shared by
// the what-if engine, parser and service
package domain

import "screenrate/internal/core/screenplay"

// EntityTarget narrows a modification to named entities
type EntityTarget struct {
	EntityType  string   `json:"entity_type,omitempty"` // character, location, object, all
	EntityNames []string `json:"entity_names,omitempty"`
}

// Modification is one tagged transformation of the scene stream
type Modification struct {
	Type    string         `json:"type" validate:"required"`
	Params  map[string]any `json:"params"`
	Targets *EntityTarget  `json:"targets,omitempty"`
	Scope   []int          `json:"scope,omitempty"`
}

// Request is the natural-language what-if input
type Request struct {
	ScriptText          string `json:"script_text" validate:"required"`
	ModificationRequest string `json:"modification_request" validate:"required"`
}

// StructuredRequest carries an explicit modification list
type StructuredRequest struct {
	ScriptText        string         `json:"script_text" validate:"required"`
	Modifications     []Modification `json:"modifications" validate:"required,min=1"`
	PreserveStructure bool           `json:"preserve_structure"`
}

// Applied records the outcome of one modification
type Applied struct {
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// EntityInfo summarizes one extracted entity in the response
type EntityInfo struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
	Scenes   []int  `json:"scenes"`
}

// SceneInfo summarizes one classified scene in the response
type SceneInfo struct {
	SceneID    int      `json:"scene_id"`
	SceneType  string   `json:"scene_type"`
	Characters []string `json:"characters"`
	Location   string   `json:"location,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

// Result is the what-if simulation output
type Result struct {
	OriginalRating string             `json:"original_rating"`
	ModifiedRating string             `json:"modified_rating"`
	OriginalScores map[string]float64 `json:"original_scores"`
	ModifiedScores map[string]float64 `json:"modified_scores"`
	ChangesApplied []Applied          `json:"changes_applied"`
	Entities       []EntityInfo       `json:"entities_extracted,omitempty"`
	SceneAnalysis  []SceneInfo        `json:"scene_analysis,omitempty"`
	Explanation    string             `json:"explanation"`
	ModifiedScript string             `json:"modified_script,omitempty"`
	RatingChanged  bool               `json:"rating_changed"`
}

// SmartSuggestion is one ranked content-reduction hint
type SmartSuggestion struct {
	Text           string  `json:"text"`
	Category       string  `json:"category"`
	Icon           string  `json:"icon"`
	Priority       int     `json:"priority"`
	Confidence     float64 `json:"confidence"`
	AffectedScenes []int   `json:"affected_scenes"`
	Reasoning      string  `json:"reasoning"`
}

// Suggestions is the smart-suggestion response
type Suggestions struct {
	Suggestions     []SmartSuggestion `json:"suggestions"`
	AnalysisSummary string            `json:"analysis_summary"`
	CurrentRating   string            `json:"current_rating"`
	TotalScenes     int               `json:"total_scenes"`
}

// SceneStream is the working view strategies operate on
type SceneStream = []screenplay.Scene
