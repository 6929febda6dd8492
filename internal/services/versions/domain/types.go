// Package domain defines the script versioning types and ports
package domain

import (
	"context"
	"time"

	scriptsdom "screenrate/internal/services/scripts/domain"
)

// CreateInput requests a new version snapshot of a script
type CreateInput struct {
	ChangeDescription string `json:"change_description,omitempty" validate:"omitempty,max=1000"`

	// MakeCurrent defaults to true when omitted
	MakeCurrent *bool `json:"make_current,omitempty"`
}

// Version is one immutable script snapshot
type Version struct {
	ID                int64              `json:"id"`
	ScriptID          string             `json:"script_id"`
	VersionNumber     int                `json:"version_number"`
	Title             string             `json:"title"`
	PredictedRating   string             `json:"predicted_rating,omitempty"`
	AggScores         map[string]float64 `json:"agg_scores"`
	TotalScenes       int                `json:"total_scenes"`
	ChangeDescription string             `json:"change_description,omitempty"`
	IsCurrent         bool               `json:"is_current"`
	CreatedAt         time.Time          `json:"created_at"`

	// Content and ScenesData are only populated on single-version reads
	Content    string             `json:"content,omitempty"`
	ScenesData []scriptsdom.Scene `json:"scenes_data,omitempty"`
}

// RestoreResult reports a successful restore
type RestoreResult struct {
	Message        string `json:"message"`
	ScriptID       string `json:"script_id"`
	CurrentVersion int    `json:"current_version"`
}

// VersionRef is the per-side header of a comparison
type VersionRef struct {
	Number    int       `json:"number"`
	Rating    string    `json:"rating,omitempty"`
	Scenes    int       `json:"scenes"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreChange is one dimension whose aggregate moved by more than 0.01
type ScoreChange struct {
	Old    float64 `json:"old"`
	New    float64 `json:"new"`
	Change float64 `json:"change"`
}

// RatingTransition describes a rating flip between two versions
type RatingTransition struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CompareChanges is the diff block of a comparison
type CompareChanges struct {
	RatingChanged     bool                   `json:"rating_changed"`
	RatingChange      *RatingTransition      `json:"rating_change,omitempty"`
	ScenesChanged     int                    `json:"scenes_changed"`
	ScoreChanges      map[string]ScoreChange `json:"score_changes"`
	ContentDiff       []string               `json:"content_diff"`
	TotalLinesChanged int                    `json:"total_lines_changed"`
}

// Comparison is the full two-version report
type Comparison struct {
	Version1 VersionRef     `json:"version1"`
	Version2 VersionRef     `json:"version2"`
	Changes  CompareChanges `json:"changes"`
}

// ServicePort is the versions service surface
type ServicePort interface {
	Create(ctx context.Context, scriptID string, in CreateInput) (Version, error)
	List(ctx context.Context, scriptID string) ([]Version, error)
	Get(ctx context.Context, scriptID string, number int) (Version, error)
	Restore(ctx context.Context, scriptID string, number int) (RestoreResult, error)
	Compare(ctx context.Context, scriptID string, v1, v2 int) (Comparison, error)
	Delete(ctx context.Context, scriptID string, number int) error
}
