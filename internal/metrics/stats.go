package metrics

import (
	"math"

	"github.com/miru/channelpulse-go/internal/util"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	// Sample standard deviation
	return math.Sqrt(sum / float64(len(values)-1))
}

// Consistency scores how stable a series is, on a 20-95 scale. The score is
// driven by the coefficient of variation; short series get fixed neutral
// values since a CV over one or two points means nothing.
func Consistency(values []float64) float64 {
	switch {
	case len(values) < 2:
		return 75
	case len(values) == 2:
		return 70
	}

	m := mean(values)
	if m == 0 {
		return 65
	}

	cv := stdev(values) / m * 100

	var score float64
	switch {
	case cv < 50:
		score = 85 - cv/2
	case cv < 100:
		score = 70 - cv/4
	default:
		score = 40 - cv/10
	}

	return util.Clamp(score, 20, 95)
}
