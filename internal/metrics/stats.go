// Package metrics reduces accuracy series to the summary figures printed in
// reports.
package metrics

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Best returns the maximum of xs and the first index holding it.
// It panics if xs is empty.
func Best(xs []float64) (value float64, index int) {
	index = floats.MaxIdx(xs)
	return xs[index], index
}

// Mean returns the arithmetic mean of xs, or 0 for an empty series.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Median returns the middle value of xs, averaging the two middle values
// when the length is even. It returns 0 for an empty series and does not
// modify xs.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// StdDev returns the sample standard deviation of xs, or 0 when fewer than
// two values are present.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// Summary holds the aggregate of a series of per-attempt accuracies.
type Summary struct {
	Accuracies []float64
	Mean       float64
	Median     float64
	StdDev     float64
}

// Summarize computes the Summary of xs. The series is copied.
func Summarize(xs []float64) Summary {
	return Summary{
		Accuracies: slices.Clone(xs),
		Mean:       Mean(xs),
		Median:     Median(xs),
		StdDev:     StdDev(xs),
	}
}

// Range returns the minimum and maximum of xs, or zeros for an empty series.
func Range(xs []float64) (lo, hi float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	return floats.Min(xs), floats.Max(xs)
}
