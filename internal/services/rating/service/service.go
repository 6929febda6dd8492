// Package service implements the scoring pipeline: segment, extract,
// normalize, aggregate, cascade. The pipeline is pure over its input and
// safe to run concurrently; the lexicon pack is shared read-only
package service

import (
	"strings"

	"screenrate/internal/core/features"
	"screenrate/internal/core/lexicon"
	"screenrate/internal/core/screenplay"
	"screenrate/internal/core/scoring"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/logger"
	"screenrate/internal/services/rating/domain"
)

const (
	// how many trigger scenes the response surfaces
	topTriggers = 5

	// sample text cap for trigger scenes
	sampleChars = 400
)

// Config for the rating service
type Config struct {
	ModelVersion string
	Aggregator   scoring.AggregatorConfig
}

// Service implements domain.RaterPort
type Service struct {
	ext *features.Extractor
	cfg Config
	log logger.Logger
}

// New constructs the pipeline over a compiled lexicon pack
func New(pack *lexicon.Pack, cfg Config) *Service {
	if cfg.ModelVersion == "" {
		cfg.ModelVersion = "v1.0"
	}
	return &Service{
		ext: features.New(pack),
		cfg: cfg,
		log: *logger.Named("rating"),
	}
}

// Analyze segments and scores text, returning the per-scene view plus the
// aggregated vector and rating
func (s *Service) Analyze(text string) domain.Analysis {
	scenes := screenplay.Segment(text)
	screenplay.Annotate(scenes)
	scored := s.ScoreScenes(scenes)

	vecs := make([]scoring.Scores, len(scored))
	for i, sc := range scored {
		vecs[i] = sc.Scores
	}
	agg := scoring.Aggregate(vecs, s.cfg.Aggregator)
	rating, reasons := scoring.Rate(agg)

	return domain.Analysis{Scenes: scored, Agg: agg, Rating: rating, Reasons: reasons}
}

// ScoreScenes extracts and normalizes every scene in place
func (s *Service) ScoreScenes(scenes []screenplay.Scene) []domain.SceneScore {
	out := make([]domain.SceneScore, len(scenes))
	for i, sc := range scenes {
		raw := s.ext.Extract(sc.Body)
		vec := scoring.Normalize(raw)
		out[i] = domain.SceneScore{Scene: sc, Scores: vec, Weight: scoring.Weight(vec)}
	}
	return out
}

// Rate runs the full pipeline and shapes the scoring response
func (s *Service) Rate(req domain.RateRequest) (domain.RateResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return domain.RateResult{}, perr.InvalidArgf("text must not be empty")
	}

	a := s.Analyze(req.Text)
	s.log.Info().
		Str("script_id", req.ScriptID).
		Str("rating", a.Rating).
		Int("scenes", len(a.Scenes)).
		Msg("script rated")

	return domain.RateResult{
		ScriptID:         req.ScriptID,
		PredictedRating:  a.Rating,
		Reasons:          a.Reasons,
		AggScores:        a.Agg.Map(),
		TopTriggerScenes: TopTriggers(a.Scenes, topTriggers),
		ModelVersion:     s.cfg.ModelVersion,
		TotalScenes:      len(a.Scenes),
	}, nil
}

// ModelVersion reports the configured pipeline version tag
func (s *Service) ModelVersion() string { return s.cfg.ModelVersion }

// TopTriggers ranks scenes by weight descending and returns the first n
// with collapsed text samples. Ties keep file order
func TopTriggers(scenes []domain.SceneScore, n int) []domain.TriggerScene {
	if n > len(scenes) {
		n = len(scenes)
	}
	idx := make([]int, len(scenes))
	for i := range idx {
		idx[i] = i
	}
	// partial selection; equal weights keep the earliest scene first
	for i := 0; i < n; i++ {
		best := i
		for j := i + 1; j < len(idx); j++ {
			if scenes[idx[j]].Weight > scenes[idx[best]].Weight {
				best = j
			}
		}
		idx[i], idx[best] = idx[best], idx[i]
	}

	out := make([]domain.TriggerScene, 0, n)
	for _, i := range idx[:n] {
		sc := scenes[i]
		out = append(out, domain.TriggerScene{
			SceneID:    sc.Scene.ID,
			Heading:    sc.Scene.Heading,
			Scores:     sc.Scores,
			Weight:     sc.Weight,
			SampleText: Sample(sc.Scene.Body, sampleChars),
		})
	}
	return out
}

// Sample collapses newlines and truncates body text for previews.
// Truncation is rune-aware so Cyrillic text never splits mid-character
func Sample(body string, max int) string {
	s := strings.Join(strings.Fields(body), " ")
	if r := []rune(s); len(r) > max {
		return string(r[:max])
	}
	return s
}
