// Package scoring maps raw counters to normalized dimension scores,
// aggregates scene vectors into one script vector, and resolves the age
// rating through a fixed threshold cascade
package scoring

import "screenrate/internal/core/features"

// DimensionOrder is the canonical seven-dimension ordering used in JSON
// payloads, threshold tables and gap reports
var DimensionOrder = []string{
	"violence", "gore", "sex_act", "nudity", "profanity", "drugs", "child_risk",
}

// Scores is a seven-dimension vector with every component in [0,1]
type Scores struct {
	Violence  float64 `json:"violence"`
	Gore      float64 `json:"gore"`
	SexAct    float64 `json:"sex_act"`
	Nudity    float64 `json:"nudity"`
	Profanity float64 `json:"profanity"`
	Drugs     float64 `json:"drugs"`
	ChildRisk float64 `json:"child_risk"`
}

// Get returns the named component; unknown names read as zero
func (s Scores) Get(dim string) float64 {
	switch dim {
	case "violence":
		return s.Violence
	case "gore":
		return s.Gore
	case "sex_act":
		return s.SexAct
	case "nudity":
		return s.Nudity
	case "profanity":
		return s.Profanity
	case "drugs":
		return s.Drugs
	case "child_risk":
		return s.ChildRisk
	}
	return 0
}

// Set assigns the named component in place; unknown names are ignored
func (s *Scores) Set(dim string, v float64) {
	switch dim {
	case "violence":
		s.Violence = v
	case "gore":
		s.Gore = v
	case "sex_act":
		s.SexAct = v
	case "nudity":
		s.Nudity = v
	case "profanity":
		s.Profanity = v
	case "drugs":
		s.Drugs = v
	case "child_risk":
		s.ChildRisk = v
	}
}

// Map renders the vector as a dimension-keyed map for JSON payloads
func (s Scores) Map() map[string]float64 {
	out := make(map[string]float64, len(DimensionOrder))
	for _, dim := range DimensionOrder {
		out[dim] = s.Get(dim)
	}
	return out
}

// FromMap builds a vector from a dimension-keyed map, ignoring extra keys
func FromMap(m map[string]float64) Scores {
	var s Scores
	for dim, v := range m {
		s.Set(dim, v)
	}
	return s
}

// Normalize maps raw counters to [0,1]. Denominators are fixed so a typical
// moderate scene lands near 0.5. Violence scales by scene length so long
// scenes are not penalized for sheer word count
func Normalize(r features.Raw) Scores {
	length := float64(r.Length)
	if length < 1 {
		length = 1
	}
	return Scores{
		Violence:  clamp01(r.Violence / (length / 150)),
		Gore:      clamp01(r.Gore / 2),
		SexAct:    clamp01(r.SexAct),
		Nudity:    clamp01(r.Nudity / 3),
		Profanity: clamp01(r.Profanity / 5),
		Drugs:     clamp01(r.Drugs / 5),
		ChildRisk: clamp01(r.ChildMentions / 3),
	}
}

// Weight is the per-scene ranking score used to pick trigger scenes
func Weight(s Scores) float64 {
	return 0.5*s.Violence + 0.8*s.Gore + 0.9*s.SexAct +
		0.3*s.Profanity + 0.3*s.Drugs + 0.6*s.ChildRisk + 0.3*s.Nudity
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
