package sentiment

import (
	"math"
	"strings"
)

// KeywordScorer scores text by counting domain keywords.
//
// Matching is by substring on the lower-cased text, so a keyword also matches
// inside longer words ("alta" in "altamente"). Each keyword counts once per
// text regardless of how often it appears.
type KeywordScorer struct {
	positive []string
	negative []string
}

// NewKeywordScorer creates a scorer over the given keyword sets.
// Keywords are lower-cased and deduplicated.
func NewKeywordScorer(positive, negative []string) *KeywordScorer {
	return &KeywordScorer{
		positive: normalizeKeywords(positive),
		negative: normalizeKeywords(negative),
	}
}

// NewDefaultKeywordScorer creates a scorer over the built-in financial vocabulary
func NewDefaultKeywordScorer() *KeywordScorer {
	return NewKeywordScorer(PositiveKeywords, NegativeKeywords)
}

// Score returns tanh(3 * (pos - neg) / words), which lies in (-1, 1).
// Empty text scores exactly 0.
func (s *KeywordScorer) Score(text string) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := len(strings.Fields(lower))
	if words == 0 {
		return 0
	}

	pos := countPresent(lower, s.positive)
	neg := countPresent(lower, s.negative)

	raw := float64(pos-neg) / math.Max(float64(words), 1)
	// tanh rounds to exactly ±1 for large inputs
	return math.Max(math.Nextafter(-1, 0), math.Min(math.Nextafter(1, 0), math.Tanh(raw*3)))
}

func countPresent(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
