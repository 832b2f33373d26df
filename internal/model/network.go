package model

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Network is a trainable classifier producing raw logits [batch, 10]
// from flattened images [batch, 784].
//
// SetTraining switches between training and evaluation behaviour
// (only dropout reacts to it).
type Network[B tensor.Backend] interface {
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]
	Parameters() []*nn.Parameter[B]
	SetTraining(training bool)
}

// DefaultKeepProb is the dropout keep probability of the full CNN while training.
const DefaultKeepProb = 0.5

// BuildOptions holds the training-time knobs a network needs at construction.
type BuildOptions struct {
	KeepProb float32    // Dropout keep probability (default: 0.5)
	Rand     *rand.Rand // Source for dropout masks
}

// Build creates a freshly initialised network for the architecture.
//
// Parameters:
//   - arch: Architecture to build (validated first)
//   - backend: Backend holding the parameters
//   - opts: Dropout configuration, only used by the full CNN
//
// Weights use the framework's Xavier initialisation and biases start at zero,
// so every call returns independently initialised parameters.
func Build[B tensor.Backend](arch Arch, backend B, opts BuildOptions) (Network[B], error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	if opts.KeepProb == 0 {
		opts.KeepProb = DefaultKeepProb
	}
	if opts.KeepProb < 0 || opts.KeepProb > 1 {
		return nil, fmt.Errorf("model: keep probability %v outside (0, 1]", opts.KeepProb)
	}

	switch arch.Kind {
	case KindLinear, KindMLP:
		return NewMLP(backend, arch.Hidden...), nil
	case KindCNN:
		return NewConvNet(backend, arch.Simple, opts.KeepProb, opts.Rand), nil
	default:
		return nil, fmt.Errorf("model: cannot build %q", arch.Kind)
	}
}

// ParameterCount counts the trainable scalars of a network.
func ParameterCount[B tensor.Backend](m Network[B]) int {
	total := 0
	for _, param := range m.Parameters() {
		total += param.Tensor().Shape().NumElements()
	}
	return total
}
