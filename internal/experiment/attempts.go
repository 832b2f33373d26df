package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/born-ml/digitbench/internal/metrics"
	"github.com/born-ml/digitbench/internal/model"
	"github.com/born-ml/digitbench/internal/trainer"
)

// TrainFunc trains a freshly initialised network of the given architecture
// and reports its best test accuracy.
type TrainFunc func(ctx context.Context, arch model.Arch) (*trainer.Result, error)

// RunAttempts trains arch n times and summarises the per-attempt best
// accuracies.
//
// The returned result is the last attempt's (counts and best epoch included)
// with Summary set. A failing attempt aborts the remaining ones.
func RunAttempts(ctx context.Context, logger *slog.Logger, name string, arch model.Arch, n int, train TrainFunc) (*trainer.Result, error) {
	if n < 1 {
		return nil, errors.New("experiment: attempts must be >= 1")
	}
	if train == nil {
		return nil, errors.New("experiment: no training routine")
	}

	var last *trainer.Result
	accuracies := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		logger.Info("attempt", "model", name, "attempt", i+1, "of", n)
		r, err := train(ctx, arch)
		if err != nil {
			return nil, fmt.Errorf("%s: attempt %d: %w", name, i+1, err)
		}
		accuracies = append(accuracies, r.MaxAccuracy)
		last = r
	}

	summary := metrics.Summarize(accuracies)
	lo, hi := metrics.Range(accuracies)
	logger.Info("attempts done",
		"model", name,
		"accuracies", accuracies,
		"min", lo,
		"max", hi,
		"stddev", summary.StdDev,
	)

	last.Summary = &summary
	return last, nil
}
