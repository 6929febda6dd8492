// Package classify labels scenes with a type (action, dialogue, ...) by
// zero-shot similarity against per-type template centroids
package classify

import (
	"context"
	"sort"

	"screenrate/internal/core/screenplay"
	"screenrate/internal/ml/embed"
	"screenrate/internal/platform/logger"
)

// TypeScore is one candidate label with its cosine confidence
type TypeScore struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

var templates = map[string][]string{
	"action": {
		"intense physical action and fighting",
		"chase sequence and pursuit",
		"combat and battle scenes",
		"explosive action and stunts",
	},
	"dialogue": {
		"conversation between characters",
		"verbal exchange and discussion",
		"characters talking and interacting",
		"interpersonal communication",
	},
	"exposition": {
		"introducing setting and context",
		"establishing story background",
		"world-building and explanation",
		"narrative setup and information",
	},
	"emotional": {
		"character emotional moment",
		"dramatic and intense feelings",
		"personal revelation and vulnerability",
		"emotional climax and catharsis",
	},
	"suspense": {
		"building tension and mystery",
		"creating anticipation and dread",
		"suspenseful and tense atmosphere",
		"thriller-like uncertainty",
	},
	"romantic": {
		"romantic interaction between characters",
		"love and intimacy",
		"relationship development",
		"tender and affectionate moments",
	},
	"comedic": {
		"humorous and funny situations",
		"comedy and lighthearted moments",
		"jokes and comic relief",
		"amusing character interactions",
	},
}

// Classifier assigns scene types. Centroids are embedded lazily on first
// use so a cold model does not block construction
type Classifier struct {
	embed     embed.Embedder
	centroids map[string][]float32
	log       logger.Logger
}

// New builds a classifier. A nil embedder is a valid degraded state;
// every scene then reads as "unknown"
func New(e embed.Embedder) *Classifier {
	return &Classifier{embed: e, log: *logger.Named("scene-classifier")}
}

func (c *Classifier) ensureCentroids(ctx context.Context) error {
	if c.centroids != nil {
		return nil
	}
	cents := make(map[string][]float32, len(templates))
	for name, ts := range templates {
		vecs, err := c.embed.EmbedBatch(ctx, ts)
		if err != nil {
			return err
		}
		cents[name] = embed.Centroid(vecs)
	}
	c.centroids = cents
	c.log.Debug().Int("scene_types", len(cents)).Msg("scene type centroids ready")
	return nil
}

// Classify ranks the candidate types for one scene text, best first
func (c *Classifier) Classify(ctx context.Context, text string, topK int) ([]TypeScore, error) {
	if c.embed == nil {
		return nil, nil
	}
	if err := c.ensureCentroids(ctx); err != nil {
		return nil, err
	}
	vec, err := c.embed.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	scores := make([]TypeScore, 0, len(c.centroids))
	for name, cent := range c.centroids {
		scores = append(scores, TypeScore{Type: name, Confidence: embed.Cosine(vec, cent)})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Confidence != scores[j].Confidence {
			return scores[i].Confidence > scores[j].Confidence
		}
		return scores[i].Type < scores[j].Type
	})
	if topK > 0 && topK < len(scores) {
		scores = scores[:topK]
	}
	return scores, nil
}

// Label stamps each scene's SceneType with its best label. Failures and
// the no-embedder case leave "unknown" so downstream filters still work
func (c *Classifier) Label(ctx context.Context, scenes []screenplay.Scene) {
	for i := range scenes {
		scenes[i].SceneType = "unknown"
		ranked, err := c.Classify(ctx, scenes[i].Body, 1)
		if err != nil {
			c.log.Warn().Int("scene_id", scenes[i].ID).Err(err).Msg("scene classification failed")
			continue
		}
		if len(ranked) > 0 {
			scenes[i].SceneType = ranked[0].Type
		}
	}
}
