// Package trainer trains one architecture on MNIST and reports the best
// per-epoch test accuracy.
//
// Every call to Train owns a fresh backend, network and optimizer, so runs
// never share parameters or optimizer state. Minibatches are drawn with
// replacement-free shuffling (see dataset.Sampler) and each one drives a
// single Adam update minimising mean softmax cross-entropy. After every
// epoch the network is scored on the full test split.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/born-ml/digitbench/internal/dataset"
	"github.com/born-ml/digitbench/internal/metrics"
	"github.com/born-ml/digitbench/internal/model"
	"github.com/born-ml/digitbench/internal/output"
)

// Train builds arch, trains it on data.Train for opts.Epochs epochs and
// returns the best test accuracy together with the architecture's counts.
//
// ctx is checked between minibatches; cancellation aborts the run with
// ctx.Err().
func Train(ctx context.Context, arch model.Arch, data *dataset.Provider, opts Options) (*Result, error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	if data == nil || data.Train == nil || data.Test == nil {
		return nil, errors.New("trainer: dataset is not loaded")
	}
	if data.Test.Len() == 0 {
		return nil, errors.New("trainer: test split is empty")
	}
	if err := opts.Validate(data.Train.Len()); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	logger := opts.Logger
	if logger == nil {
		logger = output.Logger
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sess, err := newSession(arch, opts, rand.New(rand.NewSource(rng.Int63())))
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	test, err := evalBatches(arch, data.Test, opts.BatchSize, sess.backend)
	if err != nil {
		return nil, err
	}

	sampler := data.Train.NewSampler(rng)
	batchesPerEpoch := data.Train.Len() / opts.BatchSize
	schedule := scheduleFor(arch, opts, batchesPerEpoch)

	logger.Info("training",
		"model", arch.String(),
		"train_samples", data.Train.Len(),
		"test_samples", data.Test.Len(),
		"minibatches_per_epoch", batchesPerEpoch,
		"epochs", opts.Epochs,
	)

	accuracies := make([]float64, 0, opts.Epochs)
	step := 0
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		start := time.Now()
		var lossSum float32
		for i := 0; i < batchesPerEpoch; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			images, labels, err := dataset.ToTensors(sampler.NextBatch(opts.BatchSize), sess.backend)
			if err != nil {
				return nil, fmt.Errorf("epoch %d: %w", epoch, err)
			}
			loss, err := sess.step(images, labels, schedule.LR(step))
			if err != nil {
				return nil, fmt.Errorf("epoch %d: %w", epoch, err)
			}
			lossSum += loss
			step++
		}

		acc := sess.evaluate(test)
		accuracies = append(accuracies, acc)
		logger.Info("epoch done", "epoch", epoch, "test_accuracy", fmt.Sprintf("%.2f", acc*100))
		logger.Debug("epoch stats",
			"epoch", epoch,
			"mean_loss", lossSum/float32(batchesPerEpoch),
			"lr", schedule.LR(step-1),
			"elapsed", time.Since(start),
		)
	}

	best, bestEpoch := metrics.Best(accuracies)
	return &Result{
		MultiplyCount:    arch.MultiplyCount(),
		CoefficientCount: arch.CoefficientCount(),
		MaxAccuracy:      best,
		MaxAccuracyEpoch: bestEpoch,
	}, nil
}
