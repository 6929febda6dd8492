// Package screenplay splits raw screenplay text into addressable scenes and
// extracts lightweight entities from them. Segmentation is a pure function of
// the input text
package screenplay

import (
	"fmt"
	"regexp"
	"strings"
)

// Scene is one addressable unit of a screenplay.
// ID is a zero-based dense index in file order. Body holds the full chunk
// text including its heading line, so joining bodies reproduces the script
type Scene struct {
	ID         int      `json:"scene_id"`
	Heading    string   `json:"heading"`
	Body       string   `json:"text"`
	Characters []string `json:"characters,omitempty"`
	Location   string   `json:"location,omitempty"`
	SceneType  string   `json:"scene_type,omitempty"`
}

// headingSplit matches a scene boundary at line-start context via lookahead
// emulation: we split manually since RE2 has no lookahead
var headingLine = regexp.MustCompile(`(?im)^[ \t]*(?:INT\.|EXT\.|scene_heading:|SCENE HEADING:)`)

// headingText captures up to 120 chars after a leading INT./EXT. marker
var headingText = regexp.MustCompile(`(?i)^[ \t]*((?:INT\.|EXT\.)[^\n]{0,120})`)

const minChunks = 5

// Segment splits text into an ordered scene sequence. A split that produces
// fewer than five chunks means the whole text is a single full_text scene
func Segment(text string) []Scene {
	idxs := headingLine.FindAllStringIndex(text, -1)

	var chunks []string
	if len(idxs) > 0 && idxs[0][0] > 0 {
		chunks = append(chunks, text[:idxs[0][0]])
	}
	for i, loc := range idxs {
		end := len(text)
		if i+1 < len(idxs) {
			end = idxs[i+1][0]
		}
		chunks = append(chunks, text[loc[0]:end])
	}

	if len(chunks) < minChunks {
		return []Scene{{ID: 0, Heading: "full_text", Body: text}}
	}

	scenes := make([]Scene, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		id := len(scenes)
		scenes = append(scenes, Scene{
			ID:      id,
			Heading: headingOf(chunk, id),
			Body:    chunk,
		})
	}
	return scenes
}

// headingOf extracts the INT./EXT. slug or synthesizes scene_<n>
func headingOf(chunk string, id int) string {
	first := chunk
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if m := headingText.FindStringSubmatch(first); m != nil {
		return strings.TrimSpace(m[1])
	}
	return fmt.Sprintf("scene_%d", id)
}

// Join reconstructs script text from a scene sequence with blank-line
// separators, the inverse used after modification strategies run
func Join(scenes []Scene) string {
	parts := make([]string, len(scenes))
	for i, s := range scenes {
		parts[i] = strings.TrimSpace(s.Body)
	}
	return strings.Join(parts, "\n\n")
}

// Redensify reassigns zero-based dense scene ids in slice order
func Redensify(scenes []Scene) {
	for i := range scenes {
		scenes[i].ID = i
	}
}
