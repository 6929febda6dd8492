package engine

import (
	"context"

	"screenrate/internal/core/screenplay"
	"screenrate/internal/platform/logger"
)

// Rewriter is the optional LLM adapter port. No in-repo implementation
// ships; when nil the strategy is a recorded no-op
type Rewriter interface {
	RewriteScene(ctx context.Context, text, instruction string, scene screenplay.Scene) (string, error)
	Provider() string
}

// LLMRewrite delegates per-scene rewrites to the external adapter
type LLMRewrite struct {
	Rewriter Rewriter
}

func (*LLMRewrite) CanHandle(t string) bool {
	switch t {
	case "llm_rewrite", "intelligent_rewrite", "contextual_modification":
		return true
	}
	return false
}

func (*LLMRewrite) Validate(map[string]any) error { return nil }

func (s *LLMRewrite) Apply(ctx context.Context, scenes []screenplay.Scene, params map[string]any, _ screenplay.Entities) ([]screenplay.Scene, map[string]any, error) {
	if s.Rewriter == nil {
		return scenes, map[string]any{"error": "LLM generator not configured"}, nil
	}

	instruction := stringParam(params, "instruction")
	if instruction == "" {
		instruction = "Rewrite to be more appropriate for general audiences"
	}
	scope := intSet(intsParam(params, "scope"))
	targets := stringSet(stringsParam(params, "target_characters"))

	log := logger.Named("llm-rewrite")
	out := make([]screenplay.Scene, len(scenes))
	copy(out, scenes)

	rewritten := 0
	for i := range out {
		if len(scope) > 0 {
			if _, ok := scope[out[i].ID]; !ok {
				continue
			}
		}
		if len(targets) > 0 && !anyCharacterIn(out[i], targets) {
			continue
		}
		text, err := s.Rewriter.RewriteScene(ctx, out[i].Body, instruction, out[i])
		if err != nil {
			log.Warn().Int("scene_id", out[i].ID).Err(err).Msg("scene rewrite failed, keeping original")
			continue
		}
		out[i].Body = text
		rewritten++
	}

	return out, map[string]any{
		"scenes_rewritten": rewritten,
		"instruction":      instruction,
		"llm_provider":     s.Rewriter.Provider(),
	}, nil
}
