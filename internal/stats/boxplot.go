// Package stats computes descriptive statistics of rating values on the 1..4 scale.
package stats

import (
	"math"
	"slices"
)

const (
	// ScaleMin and ScaleMax bound every displayed statistic.
	ScaleMin = 1.0
	ScaleMax = 4.0

	// MinBoxHeight is the smallest interquartile range drawn as-is. Narrower
	// boxes are widened around the median in the display summary.
	MinBoxHeight = 0.06

	fenceFactor = 1.5
)

// Summary is a five-number summary with the values left outside the whiskers.
type Summary struct {
	N        int       `json:"n"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"`
}

// Box returns the summary as [min, q1, median, q3, max].
func (s Summary) Box() [5]float64 {
	return [5]float64{s.Min, s.Q1, s.Median, s.Q3, s.Max}
}

// Percentile returns the p-quantile (0..1) of an ascending slice using
// linear interpolation between closest ranks at position (n-1)p. An empty
// slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := float64(n-1) * p
	base := int(math.Floor(pos))
	rest := pos - float64(base)
	if base+1 < n {
		return sorted[base] + rest*(sorted[base+1]-sorted[base])
	}
	return sorted[base]
}

// Summarize computes the true summary of values: interpolated quartiles,
// whiskers at the extreme inliers of the 1.5×IQR fence (or the full range
// when nothing is inside the fence) and every value strictly outside the
// whiskers as an outlier. The input is not modified.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{Outliers: []float64{}}
	}
	s := slices.Clone(values)
	slices.Sort(s)

	q1 := Percentile(s, 0.25)
	med := Percentile(s, 0.5)
	q3 := Percentile(s, 0.75)
	iqr := q3 - q1
	lowFence, highFence := q1-fenceFactor*iqr, q3+fenceFactor*iqr

	wmin, wmax := math.Inf(1), math.Inf(-1)
	for _, v := range s {
		if v >= lowFence && v <= highFence {
			wmin = math.Min(wmin, v)
			wmax = math.Max(wmax, v)
		}
	}
	if math.IsInf(wmin, 1) {
		wmin, wmax = s[0], s[len(s)-1]
	}

	outliers := []float64{}
	for _, v := range s {
		if v < wmin || v > wmax {
			outliers = append(outliers, v)
		}
	}

	return Summary{
		N:        len(s),
		Min:      wmin,
		Q1:       q1,
		Median:   med,
		Q3:       q3,
		Max:      wmax,
		Outliers: outliers,
	}
}

// Display derives the drawable summary from a true one. A box narrower than
// MinBoxHeight is widened to MinBoxHeight around the median, the whiskers
// are stretched to enclose it, and every value is clamped into
// [ScaleMin, ScaleMax]. Outliers are those of the true summary. The
// receiver is left untouched.
func (s Summary) Display() Summary {
	if s.N == 0 {
		return Summary{Outliers: []float64{}}
	}
	d := s
	d.Outliers = slices.Clone(s.Outliers)

	if d.Q3-d.Q1 < MinBoxHeight {
		half := MinBoxHeight / 2
		d.Q1 = math.Max(ScaleMin, d.Median-half)
		d.Q3 = math.Min(ScaleMax, d.Median+half)
	}
	// Interpolated quartiles of small samples can fall outside the extreme
	// inliers, e.g. [1 4 4 4] has Q1=3.25 and a lower whisker at 4.
	d.Min = math.Min(d.Min, d.Q1)
	d.Max = math.Max(d.Max, d.Q3)

	d.Min = clamp(d.Min)
	d.Q1 = clamp(d.Q1)
	d.Median = clamp(d.Median)
	d.Q3 = clamp(d.Q3)
	d.Max = clamp(d.Max)
	return d
}

func clamp(v float64) float64 {
	return math.Min(ScaleMax, math.Max(ScaleMin, v))
}
