package analysis

import (
	"math"

	apperrors "github.com/trogers1052/stock-sentiment-service/internal/errors"
	"github.com/trogers1052/stock-sentiment-service/internal/models"
)

// minPairs is the fewest paired observations a correlation is computed over
const minPairs = 2

// Point is one (sentiment on D-1, price change on D) observation
type Point struct {
	Sentiment float64 `json:"sentiment_prev"`
	Change    float64 `json:"price_change"`
}

// LagPairs pairs each record's change with the previous record's sentiment.
// The first record has no prior day and yields no pair, and non-finite values
// are skipped.
func LagPairs(records []models.MergedRecord) []Point {
	if len(records) < 2 {
		return nil
	}
	pairs := make([]Point, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		x := records[i-1].Sentiment
		y := records[i].Change
		if !finite(x) || !finite(y) {
			continue
		}
		pairs = append(pairs, Point{Sentiment: x, Change: y})
	}
	return pairs
}

// LagCorrelate returns the Pearson correlation between sentiment on D-1 and
// price change on D. It returns ErrInsufficientData for fewer than 2 pairs and
// ErrUndefinedCorrelation when either series is constant.
func LagCorrelate(records []models.MergedRecord) (float64, error) {
	return Pearson(LagPairs(records))
}

// Pearson computes the correlation coefficient of the points using
// population moments in both numerator and denominator
func Pearson(points []Point) (float64, error) {
	n := len(points)
	if n < minPairs {
		return 0, apperrors.Wrapf(apperrors.ErrInsufficientData, "%d paired observations, need %d", n, minPairs)
	}

	var meanX, meanY float64
	for _, p := range points {
		meanX += p.Sentiment
		meanY += p.Change
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for _, p := range points {
		dx := p.Sentiment - meanX
		dy := p.Change - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	// Rounding in the mean leaves a tiny nonzero variance for a constant
	// series, so constancy is checked on the values themselves.
	if varX == 0 || varY == 0 || constant(points, sentimentOf) || constant(points, changeOf) {
		return 0, apperrors.Wrap(apperrors.ErrUndefinedCorrelation, "zero variance")
	}

	r := cov / math.Sqrt(varX*varY)
	return math.Max(-1, math.Min(1, r)), nil
}

func sentimentOf(p Point) float64 { return p.Sentiment }

func changeOf(p Point) float64 { return p.Change }

// constant reports whether every point has the same value for field
func constant(points []Point, field func(Point) float64) bool {
	if len(points) == 0 {
		return true
	}
	first := field(points[0])
	for _, p := range points[1:] {
		if field(p) != first {
			return false
		}
	}
	return true
}

// Interpret classifies the strength of a correlation coefficient
func Interpret(r float64) string {
	abs := math.Abs(r)

	var strength string
	switch {
	case abs >= 0.8:
		strength = "very strong"
	case abs >= 0.6:
		strength = "strong"
	case abs >= 0.4:
		strength = "moderate"
	case abs >= 0.2:
		strength = "weak"
	default:
		return "very weak"
	}
	if r > 0 {
		return strength + " positive"
	}
	return strength + " negative"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
