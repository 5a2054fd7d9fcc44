package analysis

import (
	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
)

// Trendline is an ordinary least squares fit of change against sentiment
type Trendline struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// At evaluates the line at x
func (t Trendline) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// FitTrendline fits y = a + b*x over the points. It fails with
// ErrComputeFailure when there are too few points or x is constant.
func FitTrendline(points []Point) (Trendline, error) {
	n := len(points)
	if n < minPairs {
		return Trendline{}, apperrors.Wrapf(apperrors.ErrComputeFailure, "trendline needs %d points, got %d", minPairs, n)
	}

	var meanX, meanY float64
	for _, p := range points {
		meanX += p.Sentiment
		meanY += p.Change
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxx, sxy, syy float64
	for _, p := range points {
		dx := p.Sentiment - meanX
		dy := p.Change - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 || constant(points, sentimentOf) {
		return Trendline{}, apperrors.Wrap(apperrors.ErrComputeFailure, "sentiment has zero variance")
	}

	slope := sxy / sxx
	line := Trendline{Slope: slope, Intercept: meanY - slope*meanX}
	if syy > 0 && !constant(points, changeOf) {
		line.RSquared = (sxy * sxy) / (sxx * syy)
	}
	return line, nil
}
