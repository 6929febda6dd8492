// Package domain defines the scripts module types and ports
package domain

import (
	"context"
	"time"
)

// CreateInput is the payload for creating a script from raw text
type CreateInput struct {
	Title   string `json:"title" validate:"required,max=500"`
	Content string `json:"content" validate:"required"`
}

// Script is the stored screenplay with its latest rating snapshot
type Script struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	PredictedRating string             `json:"predicted_rating,omitempty"`
	AggScores       map[string]float64 `json:"agg_scores,omitempty"`
	ModelVersion    string             `json:"model_version,omitempty"`
	TotalScenes     int                `json:"total_scenes"`
	CurrentVersion  int                `json:"current_version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Scene is one stored trigger scene with its dimension scores
type Scene struct {
	SceneID    int                `json:"scene_id"`
	Heading    string             `json:"heading"`
	SampleText string             `json:"sample_text"`
	Scores     map[string]float64 `json:"scores"`
	Weight     float64            `json:"weight"`
}

// ScriptDetail is a script plus its content and stored scenes
type ScriptDetail struct {
	Script
	Content string  `json:"content"`
	Scenes  []Scene `json:"scenes"`
}

// ListInput pages through stored scripts
type ListInput struct {
	Skip  int `json:"skip,omitempty" validate:"omitempty,min=0"`
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
}

// RateOutcome is what one rating run produced
type RateOutcome struct {
	ScriptID        string             `json:"script_id"`
	PredictedRating string             `json:"predicted_rating"`
	Reasons         []string           `json:"reasons"`
	AggScores       map[string]float64 `json:"agg_scores"`
	ModelVersion    string             `json:"model_version"`
	TotalScenes     int                `json:"total_scenes"`
	TriggerScenes   []Scene            `json:"top_trigger_scenes"`
}

// RateJobInfo is the response for rate and job-status endpoints
type RateJobInfo struct {
	JobID    string `json:"job_id"`
	ScriptID string `json:"script_id,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ServicePort is the scripts service surface
type ServicePort interface {
	Create(ctx context.Context, in CreateInput) (Script, error)
	Get(ctx context.Context, id string) (ScriptDetail, error)
	List(ctx context.Context, in ListInput) ([]Script, error)
	Delete(ctx context.Context, id string) error

	// Rate scores the script, synchronously or via the job queue
	Rate(ctx context.Context, id string, background bool) (RateJobInfo, error)

	// ProcessRating runs one synchronous rating pass and persists the
	// outcome transactionally. The worker calls this directly
	ProcessRating(ctx context.Context, id string) (RateOutcome, error)

	// JobStatus looks up a rating job
	JobStatus(ctx context.Context, jobID string) (RateJobInfo, error)
}
