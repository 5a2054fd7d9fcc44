package sentiment

import (
	"fmt"
	"os"

	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// Scorer kind constants
const (
	KindKeyword = "keyword"
	KindLexicon = "lexicon"
)

// Scorer maps a text to a sentiment score in [-1, 1]
type Scorer interface {
	Score(text string) float64
}

// Strategy pairs a Scorer with the part of a news item it reads
type Strategy struct {
	Name   string
	Scorer Scorer
	Text   func(models.NewsItem) string
}

// New builds the named scoring strategy. The keyword scorer reads the whole
// article; the lexicon scorer reads the headline. lexiconPath, when set,
// is merged over the embedded default lexicon.
func New(kind, lexiconPath string) (Strategy, error) {
	switch kind {
	case KindKeyword:
		return Strategy{
			Name:   KindKeyword,
			Scorer: NewDefaultKeywordScorer(),
			Text:   func(n models.NewsItem) string { return n.FullText() },
		}, nil
	case KindLexicon:
		lex, err := DefaultLexicon()
		if err != nil {
			return Strategy{}, err
		}
		if lexiconPath != "" {
			f, err := os.Open(lexiconPath)
			if err != nil {
				return Strategy{}, fmt.Errorf("failed to open lexicon %s: %w", lexiconPath, err)
			}
			defer f.Close()

			override, err := LoadLexicon(f)
			if err != nil {
				return Strategy{}, fmt.Errorf("failed to load lexicon %s: %w", lexiconPath, err)
			}
			lex.Merge(override)
		}
		return Strategy{
			Name:   KindLexicon,
			Scorer: NewLexiconScorer(lex),
			Text:   func(n models.NewsItem) string { return n.Title },
		}, nil
	default:
		return Strategy{}, fmt.Errorf("unknown sentiment scorer %q", kind)
	}
}
