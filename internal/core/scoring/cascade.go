package scoring

// Ratings, mildest first
const (
	Rating0  = "0+"
	Rating6  = "6+"
	Rating12 = "12+"
	Rating16 = "16+"
	Rating18 = "18+"
)

// RatingOrder lists ratings by strictness, mildest first
var RatingOrder = []string{Rating0, Rating6, Rating12, Rating16, Rating18}

// RatingIndex returns the position of r in RatingOrder, or -1
func RatingIndex(r string) int {
	for i, v := range RatingOrder {
		if v == r {
			return i
		}
	}
	return -1
}

// Stricter reports whether a is strictly stricter than b
func Stricter(a, b string) bool {
	return RatingIndex(a) > RatingIndex(b)
}

// Rate resolves the aggregated vector to a rating via a top-down cascade;
// the first matching rule wins. Reasons carry the matched rule's tag
func Rate(agg Scores) (rating string, reasons []string) {
	switch {
	case agg.SexAct >= 0.8 || agg.Gore >= 0.8:
		return Rating18, []string{"explicit sexual or violent content"}
	case agg.ChildRisk > 0.5 && (agg.SexAct >= 0.5 || agg.Violence >= 0.5):
		return Rating18, []string{"risk involving minors"}
	case agg.Violence >= 0.4 || agg.Gore >= 0.4:
		return Rating16, []string{"explicit violence"}
	case agg.Profanity >= 0.5 || agg.Drugs >= 0.4 || agg.Nudity >= 0.3:
		return Rating12, []string{"moderate language, substances or nudity"}
	case agg.Violence >= 0.3:
		return Rating12, []string{"moderate violence"}
	default:
		return Rating6, []string{"no significant risk content"}
	}
}

// Thresholds is the per-dimension ceiling a script at a given rating must
// not exceed, shared by the advisor's gap analysis
var Thresholds = map[string]Scores{
	Rating0: {},
	Rating6: {Violence: 0.2, Profanity: 0.1, ChildRisk: 0.1},
	Rating12: {
		Violence: 0.4, Gore: 0.2, Nudity: 0.2,
		Profanity: 0.3, Drugs: 0.2, ChildRisk: 0.2,
	},
	Rating16: {
		Violence: 0.6, Gore: 0.4, SexAct: 0.3, Nudity: 0.5,
		Profanity: 0.6, Drugs: 0.5, ChildRisk: 0.4,
	},
	Rating18: {
		Violence: 1, Gore: 1, SexAct: 1, Nudity: 1,
		Profanity: 1, Drugs: 1, ChildRisk: 1,
	},
}
