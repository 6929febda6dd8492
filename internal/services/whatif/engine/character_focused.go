package engine

import (
	"context"
	"regexp"
	"strings"

	perr "screenrate/internal/platform/errors"
	"screenrate/internal/core/screenplay"
)

// CharacterFocused modifies content tied to one character: rename
// throughout, remove scenes or dialogue blocks, or swap action words
type CharacterFocused struct{}

func (CharacterFocused) CanHandle(t string) bool {
	switch t {
	case "modify_character", "remove_character", "rename_character", "change_character_actions":
		return true
	}
	return false
}

func (CharacterFocused) Validate(params map[string]any) error {
	if stringParam(params, "action") == "" {
		return perr.InvalidArgf("character modification needs an action")
	}
	if stringParam(params, "character_name") == "" {
		return perr.InvalidArgf("character modification needs a character_name")
	}
	return nil
}

func (s CharacterFocused) Apply(_ context.Context, scenes []screenplay.Scene, params map[string]any, _ screenplay.Entities) ([]screenplay.Scene, map[string]any, error) {
	action := stringParam(params, "action")
	name := stringParam(params, "character_name")

	switch action {
	case "remove":
		return s.remove(scenes, name, params)
	case "rename":
		return s.rename(scenes, name, params)
	case "modify_actions":
		return s.modifyActions(scenes, name, params)
	}
	return scenes, nil, perr.InvalidArgf("unknown character action %q", action)
}

func (CharacterFocused) remove(scenes []screenplay.Scene, name string, params map[string]any) ([]screenplay.Scene, map[string]any, error) {
	if boolParam(params, "remove_scenes") {
		kept := make([]screenplay.Scene, 0, len(scenes))
		removed := 0
		for _, sc := range scenes {
			if containsString(sc.Characters, name) {
				removed++
				continue
			}
			kept = append(kept, sc)
		}
		screenplay.Redensify(kept)
		return kept, map[string]any{
			"action":         "remove_character",
			"character":      name,
			"scenes_removed": removed,
		}, nil
	}

	out := make([]screenplay.Scene, len(scenes))
	copy(out, scenes)
	modified := 0
	for i := range out {
		stripped := stripCharacterLines(out[i].Body, name)
		if stripped != out[i].Body {
			out[i].Body = stripped
			modified++
		}
	}
	return out, map[string]any{
		"action":          "remove_character_lines",
		"character":       name,
		"scenes_modified": modified,
	}, nil
}

// dialogue header like "NAME:" or "NAME." opens a block that runs until the
// next all-caps header; the block goes with the header. \p{Lu} so Cyrillic
// headers count too
var headerLine = regexp.MustCompile(`^\s*\p{Lu}[\p{Lu}\s]+[:.]`)

func stripCharacterLines(text, name string) string {
	open := regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(name) + `\s*[:.]`)

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	skipping := false
	for _, line := range lines {
		if open.MatchString(line) {
			skipping = true
			continue
		}
		if skipping && strings.TrimSpace(line) != "" && !headerLine.MatchString(line) {
			continue
		}
		skipping = false
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func (CharacterFocused) rename(scenes []screenplay.Scene, name string, params map[string]any) ([]screenplay.Scene, map[string]any, error) {
	newName := stringParam(params, "new_name")
	if newName == "" {
		return scenes, nil, perr.InvalidArgf("rename needs a new_name")
	}

	// boundaries are checked rune-wise; RE2's \b never matches next to
	// Cyrillic names
	r := rule{
		re:         regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name)),
		with:       newName,
		boundStart: true,
		boundEnd:   true,
	}
	out := make([]screenplay.Scene, len(scenes))
	copy(out, scenes)

	replaced := 0
	for i := range out {
		if body, n := applyRules(out[i].Body, []rule{r}); n > 0 {
			replaced += n
			out[i].Body = body
		}
		if containsString(out[i].Characters, name) {
			chars := make([]string, len(out[i].Characters))
			for j, c := range out[i].Characters {
				if c == name {
					c = newName
				}
				chars[j] = c
			}
			out[i].Characters = chars
		}
	}
	return out, map[string]any{
		"action":       "rename_character",
		"old_name":     name,
		"new_name":     newName,
		"replacements": replaced,
	}, nil
}

func (CharacterFocused) modifyActions(scenes []screenplay.Scene, name string, params map[string]any) ([]screenplay.Scene, map[string]any, error) {
	rules := compileRules(stringMapParam(params, "action_replacements"))

	out := make([]screenplay.Scene, len(scenes))
	copy(out, scenes)

	replaced := 0
	for i := range out {
		if !containsString(out[i].Characters, name) {
			continue
		}
		if body, n := applyRules(out[i].Body, rules); n > 0 {
			replaced += n
			out[i].Body = body
		}
	}
	return out, map[string]any{
		"action":           "modify_character_actions",
		"character":        name,
		"actions_replaced": replaced,
	}, nil
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
