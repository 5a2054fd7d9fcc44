package sentiment

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon_pt.yaml
var defaultLexiconYAML []byte

const (
	// normalization constant for the compound score
	compoundAlpha = 15.0
	// scalar applied to a valence preceded by a negation
	negationScalar = -0.74
	// per-exclamation emphasis, capped at maxExclamations
	exclamationBoost = 0.292
	maxExclamations  = 4
	// how many preceding tokens can modify a valence
	modifierWindow = 3
)

// Lexicon holds the word valences and modifiers used by LexiconScorer
type Lexicon struct {
	Valence   map[string]float64 `yaml:"valence"`
	Boosters  map[string]float64 `yaml:"boosters"`
	Negations []string           `yaml:"negations"`

	negations map[string]struct{}
}

// LoadLexicon decodes a YAML lexicon
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.NewDecoder(r).Decode(&lex); err != nil {
		return nil, fmt.Errorf("failed to decode lexicon: %w", err)
	}
	lex.normalize()
	return &lex, nil
}

// DefaultLexicon returns a fresh copy of the embedded Portuguese lexicon
func DefaultLexicon() (*Lexicon, error) {
	return LoadLexicon(strings.NewReader(string(defaultLexiconYAML)))
}

// Merge overlays other's entries onto l
func (l *Lexicon) Merge(other *Lexicon) {
	for w, v := range other.Valence {
		l.Valence[w] = v
	}
	for w, v := range other.Boosters {
		l.Boosters[w] = v
	}
	l.Negations = append(l.Negations, other.Negations...)
	l.normalize()
}

func (l *Lexicon) normalize() {
	valence := make(map[string]float64, len(l.Valence))
	for w, v := range l.Valence {
		valence[strings.ToLower(w)] = v
	}
	l.Valence = valence

	boosters := make(map[string]float64, len(l.Boosters))
	for w, v := range l.Boosters {
		boosters[strings.ToLower(w)] = v
	}
	l.Boosters = boosters

	l.negations = make(map[string]struct{}, len(l.Negations))
	for _, w := range l.Negations {
		l.negations[strings.ToLower(w)] = struct{}{}
	}
}

// LexiconScorer is a rule-based valence analyzer for short texts such as
// headlines. It sums word valences adjusted by boosters, negations and
// exclamation marks and normalizes the sum into a compound score in [-1, 1].
type LexiconScorer struct {
	lex *Lexicon
}

// NewLexiconScorer creates a scorer over lex
func NewLexiconScorer(lex *Lexicon) *LexiconScorer {
	return &LexiconScorer{lex: lex}
}

// Score returns the compound polarity of text
func (s *LexiconScorer) Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	sum := 0.0
	for i, tok := range tokens {
		v, ok := s.lex.Valence[tok]
		if !ok {
			continue
		}
		sum += s.adjust(v, tokens, i)
	}

	if sum != 0 {
		bangs := strings.Count(text, "!")
		if bangs > maxExclamations {
			bangs = maxExclamations
		}
		emphasis := float64(bangs) * exclamationBoost
		if sum > 0 {
			sum += emphasis
		} else {
			sum -= emphasis
		}
	}

	return compound(sum)
}

// adjust applies boosters and negations found in the window before tokens[i]
func (s *LexiconScorer) adjust(v float64, tokens []string, i int) float64 {
	for j := 1; j <= modifierWindow && i-j >= 0; j++ {
		prev := tokens[i-j]
		if b, ok := s.lex.Boosters[prev]; ok {
			decay := 1.0
			switch j {
			case 2:
				decay = 0.95
			case 3:
				decay = 0.9
			}
			if v > 0 {
				v += b * decay
			} else {
				v -= b * decay
			}
		}
	}
	for j := 1; j <= modifierWindow && i-j >= 0; j++ {
		if _, ok := s.lex.negations[tokens[i-j]]; ok {
			v *= negationScalar
			break
		}
	}
	return v
}

func compound(sum float64) float64 {
	if sum == 0 {
		return 0
	}
	score := sum / math.Sqrt(sum*sum+compoundAlpha)
	return math.Max(-1, math.Min(1, score))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}
