package scoring

import (
	"math"
	"sort"
)

// AggregatorMode selects the scene reducer
type AggregatorMode string

const (
	// ModeHybrid blends the worst scene with a high percentile. Explicit
	// dimensions are ceiling-driven; language and substances track prevalence
	ModeHybrid AggregatorMode = "hybrid"

	// ModePercentile reduces every dimension to its p90, the older variant
	ModePercentile AggregatorMode = "percentile"
)

// AggregatorConfig configures the scene reducer. The zero value is hybrid
type AggregatorConfig struct {
	Mode AggregatorMode
}

// Aggregate reduces per-scene vectors to one script vector. An empty scene
// list aggregates to the zero vector
func Aggregate(scenes []Scores, cfg AggregatorConfig) Scores {
	if len(scenes) == 0 {
		return Scores{}
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeHybrid
	}

	var agg Scores
	for _, dim := range DimensionOrder {
		vals := make([]float64, len(scenes))
		for i, sc := range scenes {
			vals[i] = sc.Get(dim)
		}
		agg.Set(dim, clamp01(reduce(dim, vals, mode)))
	}
	return agg
}

func reduce(dim string, vals []float64, mode AggregatorMode) float64 {
	if mode == ModePercentile {
		return percentile(vals, 90)
	}
	switch dim {
	case "violence", "gore":
		return 0.7*maxOf(vals) + 0.3*percentile(vals, 95)
	case "sex_act", "nudity", "child_risk":
		return 0.85*maxOf(vals) + 0.15*percentile(vals, 90)
	default: // profanity, drugs
		return percentile(vals, 90)
	}
}

// percentile computes the p-th percentile with linear interpolation between
// closest ranks, matching numpy's default method
func percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
