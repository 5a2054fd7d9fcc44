package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
)

func TestFitTrendline(t *testing.T) {
	t.Run("exact line", func(t *testing.T) {
		points := []Point{{-0.5, -0.09}, {0, 0.01}, {0.5, 0.11}}
		line, err := FitTrendline(points)
		require.NoError(t, err)
		assert.InDelta(t, 0.2, line.Slope, 1e-12)
		assert.InDelta(t, 0.01, line.Intercept, 1e-12)
		assert.InDelta(t, 1.0, line.RSquared, 1e-12)
		assert.InDelta(t, 0.05, line.At(0.2), 1e-12)
	})

	t.Run("constant sentiment is a compute failure", func(t *testing.T) {
		_, err := FitTrendline([]Point{{0, 0.01}, {0, 0.02}})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrComputeFailure))
	})

	t.Run("constant non-representable sentiment is a compute failure", func(t *testing.T) {
		_, err := FitTrendline([]Point{{0.1, 0.01}, {0.1, -0.02}, {0.1, 0.03}})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrComputeFailure))
	})

	t.Run("too few points", func(t *testing.T) {
		_, err := FitTrendline([]Point{{0.1, 0.01}})
		assert.True(t, apperrors.Is(err, apperrors.ErrComputeFailure))
	})
}
