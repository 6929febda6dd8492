// Package service runs what-if simulations: parse or accept
// modifications, transform the scene stream, re-score, and explain the
// rating delta
package service

import (
	"context"
	"fmt"
	"strings"

	"screenrate/internal/core/langhint"
	"screenrate/internal/core/screenplay"
	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/logger"
	ratingdomain "screenrate/internal/services/rating/domain"
	"screenrate/internal/services/whatif/classify"
	"screenrate/internal/services/whatif/domain"
	"screenrate/internal/services/whatif/engine"
	"screenrate/internal/services/whatif/parser"
)

// Analyzer is the slice of the rating pipeline this service re-runs on
// modified text
type Analyzer interface {
	Analyze(text string) ratingdomain.Analysis
	ScoreScenes(scenes []screenplay.Scene) []ratingdomain.SceneScore
}

// Service implements domain.WhatIfPort
type Service struct {
	rater    Analyzer
	parser   *parser.Parser
	registry *engine.Registry
	cls      *classify.Classifier
	log      logger.Logger
}

// New wires the simulation service. The classifier may run degraded (nil
// embedder inside); the registry must carry all strategies
func New(rater Analyzer, p *parser.Parser, reg *engine.Registry, cls *classify.Classifier) *Service {
	return &Service{
		rater:    rater,
		parser:   p,
		registry: reg,
		cls:      cls,
		log:      *logger.Named("whatif"),
	}
}

// Simulate handles a free-form request: recognize intent, apply the
// derived modifications, re-score and compare
func (s *Service) Simulate(ctx context.Context, req domain.Request) (domain.Result, error) {
	if strings.TrimSpace(req.ScriptText) == "" {
		return domain.Result{}, perr.InvalidArgf("script_text must not be empty")
	}
	if strings.TrimSpace(req.ModificationRequest) == "" {
		return domain.Result{}, perr.InvalidArgf("modification_request must not be empty")
	}

	orig := s.rater.Analyze(req.ScriptText)

	intent := s.parser.Parse(ctx, req.ModificationRequest)
	mods := intent.Modifications()

	scenes := screenplay.Segment(req.ScriptText)
	screenplay.Annotate(scenes)
	ents := screenplay.ExtractEntities(scenes)

	applied := s.applyAll(ctx, scenes, mods, ents)
	scenes = applied.scenes

	modifiedText := screenplay.Join(scenes)
	mod := s.rater.Analyze(modifiedText)

	changes := changeLog(intent, applied.records)
	lang := langhint.Hint(req.ModificationRequest)
	explanation := simpleExplanation(lang, orig, mod, changes)

	s.log.Info().
		Str("original_rating", orig.Rating).
		Str("modified_rating", mod.Rating).
		Int("modifications", len(mods)).
		Msg("what-if simulated")

	return domain.Result{
		OriginalRating: orig.Rating,
		ModifiedRating: mod.Rating,
		OriginalScores: orig.Agg.Map(),
		ModifiedScores: mod.Agg.Map(),
		ChangesApplied: applied.records,
		Explanation:    explanation,
		RatingChanged:  orig.Rating != mod.Rating,
	}, nil
}

// ApplyStructured executes an explicit modification list with entity
// extraction and scene classification in the response
func (s *Service) ApplyStructured(ctx context.Context, req domain.StructuredRequest) (domain.Result, error) {
	if strings.TrimSpace(req.ScriptText) == "" {
		return domain.Result{}, perr.InvalidArgf("script_text must not be empty")
	}
	if len(req.Modifications) == 0 {
		return domain.Result{}, perr.InvalidArgf("modifications must not be empty")
	}

	orig := s.rater.Analyze(req.ScriptText)

	scenes := screenplay.Segment(req.ScriptText)
	screenplay.Annotate(scenes)
	ents := screenplay.ExtractEntities(scenes)
	s.cls.Label(ctx, scenes)

	// snapshot for the response; strategies mutate the working stream
	classified := make([]screenplay.Scene, len(scenes))
	copy(classified, scenes)

	applied := s.applyAll(ctx, scenes, req.Modifications, ents)
	scenes = applied.scenes

	var modifiedText string
	if req.PreserveStructure {
		modifiedText = screenplay.Join(scenes)
	} else {
		bodies := make([]string, len(scenes))
		for i, sc := range scenes {
			bodies[i] = sc.Body
		}
		modifiedText = strings.Join(bodies, "\n\n")
	}

	mod := s.rater.Analyze(modifiedText)

	s.log.Info().
		Str("original_rating", orig.Rating).
		Str("modified_rating", mod.Rating).
		Int("modifications", len(req.Modifications)).
		Msg("structured what-if applied")

	return domain.Result{
		OriginalRating: orig.Rating,
		ModifiedRating: mod.Rating,
		OriginalScores: orig.Agg.Map(),
		ModifiedScores: mod.Agg.Map(),
		ChangesApplied: applied.records,
		Entities:       formatEntities(ents),
		SceneAnalysis:  formatScenes(classified),
		Explanation:    advancedExplanation(orig, mod, applied.records),
		ModifiedScript: modifiedText,
		RatingChanged:  orig.Rating != mod.Rating,
	}, nil
}

type applyOutcome struct {
	scenes  []screenplay.Scene
	records []domain.Applied
}

// applyAll runs each modification in order. Per-modification failures are
// recorded, not fatal; the stream carries on from the last good state
func (s *Service) applyAll(ctx context.Context, scenes []screenplay.Scene, mods []domain.Modification, ents screenplay.Entities) applyOutcome {
	out := applyOutcome{scenes: scenes}

	for _, m := range mods {
		strategy, err := s.registry.Resolve(m.Type)
		if err != nil {
			out.records = append(out.records, domain.Applied{Type: m.Type, Error: err.Error()})
			continue
		}

		params := mergedParams(m)
		if err := strategy.Validate(params); err != nil {
			s.log.Warn().Str("type", m.Type).Err(err).Msg("modification params invalid, skipping")
			out.records = append(out.records, domain.Applied{Type: m.Type, Error: err.Error()})
			continue
		}

		next, meta, err := strategy.Apply(ctx, out.scenes, params, ents)
		if err != nil {
			s.log.Error().Str("type", m.Type).Err(err).Msg("modification failed")
			out.records = append(out.records, domain.Applied{Type: m.Type, Error: err.Error()})
			continue
		}
		out.scenes = next
		out.records = append(out.records, domain.Applied{Type: m.Type, Metadata: meta})
	}
	return out
}

// mergedParams folds the typed Scope and Targets fields into the params
// bag the strategies read
func mergedParams(m domain.Modification) map[string]any {
	params := make(map[string]any, len(m.Params)+2)
	for k, v := range m.Params {
		params[k] = v
	}
	if len(m.Scope) > 0 {
		params["scope"] = m.Scope
	}
	if m.Targets != nil && len(m.Targets.EntityNames) > 0 {
		switch m.Targets.EntityType {
		case "", "character", "all":
			params["target_characters"] = m.Targets.EntityNames
		}
	}
	return params
}

// changeLog renders the user-facing change list for the simple flow
func changeLog(in parser.Intent, records []domain.Applied) []string {
	var out []string
	for _, r := range records {
		if r.Type != "remove_scenes" || r.Metadata == nil {
			continue
		}
		if n, ok := r.Metadata["removed_count"].(int); ok && n > 0 {
			out = append(out, fmt.Sprintf("Removed %d scene(s): %v", n, r.Metadata["removed_scene_ids"]))
		}
	}
	if in.ReduceViolence {
		out = append(out, "Reduced violence intensity across all scenes")
	}
	if in.ReduceProfanity {
		out = append(out, "Removed profanity throughout the script")
	}
	if in.ReduceGore {
		out = append(out, "Reduced graphic gore and blood descriptions")
	}
	if in.ReduceSexual {
		out = append(out, "Reduced sexual content and nudity")
	}
	if in.ReduceDrugs {
		out = append(out, "Reduced drug and alcohol references")
	}
	return out
}

const (
	maxEntitiesShown = 10
	maxScenesShown   = 20
	summaryChars     = 100
)

func formatEntities(ents screenplay.Entities) []domain.EntityInfo {
	var out []domain.EntityInfo
	for _, group := range [][]screenplay.Entity{ents.Characters, ents.Locations, ents.Objects} {
		if len(group) > maxEntitiesShown {
			group = group[:maxEntitiesShown]
		}
		for _, e := range group {
			out = append(out, domain.EntityInfo{
				Type:     e.Type,
				Name:     e.Name,
				Mentions: e.Mentions,
				Scenes:   e.Scenes,
			})
		}
	}
	return out
}

func formatScenes(scenes []screenplay.Scene) []domain.SceneInfo {
	if len(scenes) > maxScenesShown {
		scenes = scenes[:maxScenesShown]
	}
	out := make([]domain.SceneInfo, 0, len(scenes))
	for _, sc := range scenes {
		summary := sc.Body
		if r := []rune(summary); len(r) > summaryChars {
			summary = string(r[:summaryChars]) + "..."
		}
		sceneType := sc.SceneType
		if sceneType == "" {
			sceneType = "unknown"
		}
		out = append(out, domain.SceneInfo{
			SceneID:    sc.ID,
			SceneType:  sceneType,
			Characters: sc.Characters,
			Location:   sc.Location,
			Summary:    summary,
		})
	}
	return out
}
