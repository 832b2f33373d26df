package trainer

import "github.com/born-ml/digitbench/internal/metrics"

// Result is the outcome of evaluating one architecture.
type Result struct {
	MultiplyCount    int
	CoefficientCount int

	// MaxAccuracy is the best per-epoch test accuracy in [0, 1], first
	// reached on epoch MaxAccuracyEpoch (0-based).
	MaxAccuracy      float64
	MaxAccuracyEpoch int

	// Summary aggregates repeated attempts. Nil for a single run.
	Summary *metrics.Summary
}
