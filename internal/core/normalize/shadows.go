package normalize

// Shadows bundles alternate projections of a normalized string so the
// feature extractor can match elongated dialogue spellings
type Shadows struct {
	Base         string // output of Normalizer.Normalize
	RepeatSquash string // Base with character runs collapsed (e.g., "fuuuuuck" -> "fuck")
}

// BuildShadows constructs Shadows from a normalized string.
// It's cheap (single pass) and safe to call per scene
func BuildShadows(norm string) Shadows {
	return Shadows{
		Base:         norm,
		RepeatSquash: squashRuns(norm, 1),
	}
}

func squashRuns(s string, max int) string {
	if s == "" || max < 1 {
		return s
	}
	out := make([]rune, 0, len(s))
	var prev rune
	count := 0
	for _, r := range s {
		if r == prev {
			count++
			if count <= max {
				out = append(out, r)
			}
			continue
		}
		prev = r
		count = 1
		out = append(out, r)
	}
	return string(out)
}
