package sentiment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconScorer(t *testing.T) {
	lex, err := DefaultLexicon()
	require.NoError(t, err)
	scorer := NewLexiconScorer(lex)

	t.Run("empty and unknown text is neutral", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Score(""))
		assert.Equal(t, 0.0, scorer.Score("Petrobras divulga comunicado"))
	})

	t.Run("polarity follows valence", func(t *testing.T) {
		assert.Greater(t, scorer.Score("Petrobras tem lucro recorde"), 0.0)
		assert.Less(t, scorer.Score("Ações da Petrobras despencam após escândalo"), 0.0)
	})

	t.Run("negation flips polarity", func(t *testing.T) {
		plain := scorer.Score("resultado bom")
		negated := scorer.Score("resultado não foi bom")
		assert.Greater(t, plain, 0.0)
		assert.Less(t, negated, 0.0)
	})

	t.Run("boosters intensify", func(t *testing.T) {
		assert.Greater(t, scorer.Score("muito bom"), scorer.Score("bom"))
		assert.Less(t, scorer.Score("pouco bom"), scorer.Score("bom"))
	})

	t.Run("exclamation adds emphasis", func(t *testing.T) {
		assert.Greater(t, scorer.Score("lucro!!"), scorer.Score("lucro"))
	})

	t.Run("compound stays bounded", func(t *testing.T) {
		text := strings.Repeat("excelente ", 50) + "!!!!!!!"
		score := scorer.Score(text)
		assert.LessOrEqual(t, score, 1.0)
		assert.Greater(t, score, 0.9)
	})
}

func TestLoadLexicon(t *testing.T) {
	t.Run("override merges over default", func(t *testing.T) {
		lex, err := DefaultLexicon()
		require.NoError(t, err)

		override, err := LoadLexicon(strings.NewReader(`
valence:
  Pré-Sal: 2.0
  lucro: -1.0
negations: [tampouco]
`))
		require.NoError(t, err)
		lex.Merge(override)

		scorer := NewLexiconScorer(lex)
		assert.Greater(t, scorer.Score("novo poço no pré-sal"), 0.0)
		assert.Less(t, scorer.Score("lucro"), 0.0)
		assert.Less(t, scorer.Score("tampouco pré-sal"), 0.0)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadLexicon(strings.NewReader("valence: [1, 2"))
		assert.Error(t, err)
	})
}
