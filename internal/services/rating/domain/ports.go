package domain

// RaterPort is the pipeline surface other modules consume
type RaterPort interface {
	// Rate runs the full pipeline over raw screenplay text
	Rate(req RateRequest) (RateResult, error)

	// Analyze exposes the intermediate per-scene view used by the
	// what-if and advisor surfaces
	Analyze(text string) Analysis
}
