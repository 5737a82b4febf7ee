package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of values and false when there are none.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

// Round2 rounds to two decimal places, the precision shown on charts and tables.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
