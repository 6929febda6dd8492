package engine

import (
	"context"
	"sort"

	perr "screenrate/internal/platform/errors"
	"screenrate/internal/core/screenplay"
)

// SceneRemoval drops scenes by any union of explicit ids, scene types,
// characters or locations, then re-densifies ids from zero
type SceneRemoval struct{}

func (SceneRemoval) CanHandle(t string) bool {
	return t == "remove_scenes" || t == "delete_scenes"
}

func (SceneRemoval) Validate(params map[string]any) error {
	for _, key := range []string{"scene_ids", "scene_types", "characters", "locations"} {
		if _, ok := params[key]; ok {
			return nil
		}
	}
	return perr.InvalidArgf("remove_scenes needs scene_ids, scene_types, characters or locations")
}

func (SceneRemoval) Apply(_ context.Context, scenes []screenplay.Scene, params map[string]any, _ screenplay.Entities) ([]screenplay.Scene, map[string]any, error) {
	remove := intSet(intsParam(params, "scene_ids"))

	if types := stringSet(stringsParam(params, "scene_types")); len(types) > 0 {
		for _, sc := range scenes {
			if _, ok := types[sc.SceneType]; ok {
				remove[sc.ID] = struct{}{}
			}
		}
	}
	if chars := stringSet(stringsParam(params, "characters")); len(chars) > 0 {
		for _, sc := range scenes {
			if anyCharacterIn(sc, chars) {
				remove[sc.ID] = struct{}{}
			}
		}
	}
	if locs := stringSet(stringsParam(params, "locations")); len(locs) > 0 {
		for _, sc := range scenes {
			if _, ok := locs[sc.Location]; ok {
				remove[sc.ID] = struct{}{}
			}
		}
	}

	kept := make([]screenplay.Scene, 0, len(scenes))
	for _, sc := range scenes {
		if _, drop := remove[sc.ID]; !drop {
			kept = append(kept, sc)
		}
	}
	screenplay.Redensify(kept)

	removedIDs := make([]int, 0, len(remove))
	for id := range remove {
		removedIDs = append(removedIDs, id)
	}
	sort.Ints(removedIDs)

	meta := map[string]any{
		"removed_count":     len(scenes) - len(kept),
		"removed_scene_ids": removedIDs,
		"remaining_count":   len(kept),
	}
	return kept, meta, nil
}
