package domain

import "context"

// SuggestRequest asks for ranked reduction hints for one script
type SuggestRequest struct {
	ScriptText     string             `json:"script_text" validate:"required"`
	CurrentScores  map[string]float64 `json:"current_scores,omitempty"`
	Language       string             `json:"language,omitempty"`
	MaxSuggestions int                `json:"max_suggestions,omitempty"`
}

// WhatIfPort is the service surface the transports mount
type WhatIfPort interface {
	// Simulate runs the natural-language what-if flow
	Simulate(ctx context.Context, req Request) (Result, error)

	// ApplyStructured executes an explicit modification list
	ApplyStructured(ctx context.Context, req StructuredRequest) (Result, error)

	// Suggest produces ranked smart suggestions for lowering the rating
	Suggest(ctx context.Context, req SuggestRequest) (Suggestions, error)
}
