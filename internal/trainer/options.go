package trainer

import (
	"errors"
	"fmt"
	"log/slog"
)

// Default hyperparameters.
const (
	DefaultBatchSize    = 100
	DefaultEpochs       = 30
	DefaultLearningRate = 0.001
	DefaultDecayEpochs  = 15
	DefaultDecayRate    = 0.5
	DefaultKeepProb     = 0.5
)

// Options configures a training run.
type Options struct {
	BatchSize    int
	Epochs       int
	LearningRate float32

	// DecayEpochs and DecayRate drive the staircase learning-rate decay of
	// multi-layer perceptrons. Other architectures train at a constant rate.
	DecayEpochs int
	DecayRate   float64

	// KeepProb is the dropout keep probability of the full conv net.
	KeepProb float32

	// Seed drives minibatch shuffling and dropout masks (0 = time based).
	Seed int64

	// Logger receives run headers and per-epoch accuracy (nil = output.Logger).
	Logger *slog.Logger
}

// DefaultOptions returns the hyperparameters of the reference experiment.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Epochs == 0 {
		o.Epochs = DefaultEpochs
	}
	if o.LearningRate == 0 {
		o.LearningRate = DefaultLearningRate
	}
	if o.DecayEpochs == 0 {
		o.DecayEpochs = DefaultDecayEpochs
	}
	if o.DecayRate == 0 {
		o.DecayRate = DefaultDecayRate
	}
	if o.KeepProb == 0 {
		o.KeepProb = DefaultKeepProb
	}
	return o
}

// Validate checks the options against a training split of trainLen samples.
// Zero values are treated as their defaults.
func (o Options) Validate(trainLen int) error {
	o = o.withDefaults()
	switch {
	case o.BatchSize < 0:
		return errors.New("trainer: batch size must be > 0")
	case o.Epochs < 0:
		return errors.New("trainer: epochs must be > 0")
	case o.LearningRate < 0:
		return errors.New("trainer: learning rate must be > 0")
	case o.DecayEpochs < 0:
		return errors.New("trainer: decay epochs must be > 0")
	case o.DecayRate < 0 || o.DecayRate > 1:
		return errors.New("trainer: decay rate must be in (0, 1]")
	case o.KeepProb < 0 || o.KeepProb > 1:
		return errors.New("trainer: keep probability must be in (0, 1]")
	case o.BatchSize > trainLen:
		return fmt.Errorf("trainer: batch size %d exceeds training set of %d samples", o.BatchSize, trainLen)
	}
	return nil
}
