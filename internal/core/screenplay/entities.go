package screenplay

import (
	"regexp"
	"sort"
	"strings"
)

// Entity is a named thing mentioned across scenes with its mention count
// and the scene ids where it appears
type Entity struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
	Scenes   []int  `json:"scenes"`
}

// Entities groups extraction results by kind
type Entities struct {
	Characters []Entity `json:"characters"`
	Locations  []Entity `json:"locations"`
	Objects    []Entity `json:"objects"`
}

var (
	// dialogue cues: "NAME:" or capitalized name followed by a speech verb
	characterCue = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)(?:\s*:|\s+says|\s+yells|\s+whispers)`)

	// all-caps dialogue header at line start, e.g. "JOHN:" or "JOHN (V.O.)"
	characterHeader = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z\s]+?)(?:\s*\(|:)`)

	locationHeading = regexp.MustCompile(`(?:INT\.|EXT\.)\s+([A-Z][A-Z\s]*?)(?:\s*-\s*|\n|$)`)
)

const minMentions = 2

type tally struct {
	mentions int
	scenes   map[int]struct{}
}

// ExtractEntities runs the regex fallback extractor over all scenes.
// Characters need at least two mentions to count; single hits are noise
func ExtractEntities(scenes []Scene) Entities {
	chars := map[string]*tally{}
	locs := map[string]*tally{}

	bump := func(m map[string]*tally, name string, sceneID int) {
		t, ok := m[name]
		if !ok {
			t = &tally{scenes: map[int]struct{}{}}
			m[name] = t
		}
		t.mentions++
		t.scenes[sceneID] = struct{}{}
	}

	for _, sc := range scenes {
		for _, m := range characterCue.FindAllStringSubmatch(sc.Body, -1) {
			bump(chars, m[1], sc.ID)
		}
		for _, m := range characterHeader.FindAllStringSubmatch(sc.Body, -1) {
			name := strings.TrimSpace(m[1])
			if len(name) < 2 || strings.HasPrefix(name, "INT") || strings.HasPrefix(name, "EXT") {
				continue
			}
			bump(chars, name, sc.ID)
		}
		for _, m := range locationHeading.FindAllStringSubmatch(sc.Body, -1) {
			bump(locs, strings.TrimSpace(m[1]), sc.ID)
		}
	}

	return Entities{
		Characters: collect("character", chars, minMentions),
		Locations:  collect("location", locs, 1),
		Objects:    []Entity{},
	}
}

// CharactersOf returns the dialogue-header character names of one scene
func CharactersOf(sc Scene) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range characterHeader.FindAllStringSubmatch(sc.Body, -1) {
		name := strings.TrimSpace(m[1])
		if len(name) < 2 || strings.HasPrefix(name, "INT") || strings.HasPrefix(name, "EXT") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LocationOf extracts the location slug from a scene heading
func LocationOf(sc Scene) string {
	if m := locationHeading.FindStringSubmatch(sc.Heading); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Annotate fills Characters and Location on every scene in place
func Annotate(scenes []Scene) {
	for i := range scenes {
		scenes[i].Characters = CharactersOf(scenes[i])
		scenes[i].Location = LocationOf(scenes[i])
	}
}

func collect(kind string, m map[string]*tally, min int) []Entity {
	out := make([]Entity, 0, len(m))
	for name, t := range m {
		if t.mentions < min {
			continue
		}
		ids := make([]int, 0, len(t.scenes))
		for id := range t.scenes {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out = append(out, Entity{Type: kind, Name: name, Mentions: t.mentions, Scenes: ids})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mentions != out[j].Mentions {
			return out[i].Mentions > out[j].Mentions
		}
		return out[i].Name < out[j].Name
	})
	return out
}
