// Package engine holds the modification strategy registry and the four
// shipped strategies. Strategies transform the scene stream in list order;
// each sees the output of the previous one
package engine

import (
	"context"

	perr "screenrate/internal/platform/errors"
	"screenrate/internal/core/screenplay"
)

// Strategy is one registered scene-stream transformer
type Strategy interface {
	// CanHandle reports whether this strategy owns the modification type tag
	CanHandle(modType string) bool

	// Validate checks the params bag before Apply runs
	Validate(params map[string]any) error

	// Apply transforms the scene stream. Metadata describes what changed;
	// strategies that drop scenes re-densify ids before returning
	Apply(ctx context.Context, scenes []screenplay.Scene, params map[string]any, ents screenplay.Entities) ([]screenplay.Scene, map[string]any, error)
}

// Registry resolves modification type tags to strategies in registration
// order
type Registry struct {
	strategies []Strategy
}

// NewRegistry returns a registry with the three always-available strategies.
// The LLM rewrite strategy registers regardless; without a Rewriter it is a
// recorded no-op
func NewRegistry(rw Rewriter) *Registry {
	r := &Registry{}
	r.Register(&SceneRemoval{})
	r.Register(NewContentReduction())
	r.Register(&CharacterFocused{})
	r.Register(&LLMRewrite{Rewriter: rw})
	return r
}

// Register appends a strategy
func (r *Registry) Register(s Strategy) { r.strategies = append(r.strategies, s) }

// Resolve returns the first strategy handling modType
func (r *Registry) Resolve(modType string) (Strategy, error) {
	for _, s := range r.strategies {
		if s.CanHandle(modType) {
			return s, nil
		}
	}
	return nil, perr.InvalidArgf("no strategy for modification type %q", modType)
}

// param helpers: params arrive from JSON so numbers are float64 and lists
// are []any

func intsParam(params map[string]any, key string) []int {
	v, ok := params[key]
	if !ok {
		return nil
	}
	switch xs := v.(type) {
	case []int:
		return xs
	case []any:
		out := make([]int, 0, len(xs))
		for _, x := range xs {
			switch n := x.(type) {
			case float64:
				out = append(out, int(n))
			case int:
				out = append(out, n)
			}
		}
		return out
	case []float64:
		out := make([]int, 0, len(xs))
		for _, n := range xs {
			out = append(out, int(n))
		}
		return out
	}
	return nil
}

func stringsParam(params map[string]any, key string) []string {
	v, ok := params[key]
	if !ok {
		return nil
	}
	switch xs := v.(type) {
	case []string:
		return xs
	case []any:
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stringParam(params map[string]any, key string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

func boolParam(params map[string]any, key string) bool {
	b, _ := params[key].(bool)
	return b
}

func stringMapParam(params map[string]any, key string) map[string]string {
	v, ok := params[key]
	if !ok {
		return nil
	}
	switch m := v.(type) {
	case map[string]string:
		return m
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, x := range m {
			if s, ok := x.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

func intSet(xs []int) map[int]struct{} {
	out := make(map[int]struct{}, len(xs))
	for _, x := range xs {
		out[x] = struct{}{}
	}
	return out
}

func stringSet(xs []string) map[string]struct{} {
	out := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		out[x] = struct{}{}
	}
	return out
}

func anyCharacterIn(scene screenplay.Scene, targets map[string]struct{}) bool {
	for _, c := range scene.Characters {
		if _, ok := targets[c]; ok {
			return true
		}
	}
	return false
}
