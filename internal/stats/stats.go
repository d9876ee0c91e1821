// Package stats provides small statistical helpers on float64 slices.
// It wraps gonum/stat with guards for empty and degenerate inputs so callers
// never have to special-case short series.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the population standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	n := float64(len(data))
	// gonum uses the sample (n-1) estimator; rescale to population form
	// so single-combination factor spreads stay directly comparable.
	v := stat.Variance(data, nil) * (n - 1) / n
	return math.Sqrt(v)
}

// Correlation calculates the Pearson correlation coefficient between two
// equal-length series. Returns 0 when the series are shorter than 2 elements,
// have mismatched lengths, or either side has zero variance.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// Percentile returns the p-quantile (0 <= p <= 1) of the data using the
// empirical distribution. The input slice is not modified.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Median returns the 50th percentile of the data.
func Median(data []float64) float64 {
	return Percentile(data, 0.5)
}

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
