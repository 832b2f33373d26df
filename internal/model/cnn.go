package model

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// ConvNet is a two-stage convolutional network for MNIST classification.
//
// Architecture:
//
//	Input: [batch, 784] reshaped to [batch, 1, 28, 28]
//	Conv1: 1 → 20 channels, 5x5 kernel, same padding -> [batch, 20, 28, 28]
//	ReLU
//	MaxPool: 2x2 -> [batch, 20, 14, 14]
//	Conv2: 20 → 20 channels, 5x5 kernel, same padding -> [batch, 20, 14, 14]
//	ReLU
//	MaxPool: 2x2 -> [batch, 20, 7, 7]
//	Flatten -> [batch, 980]
//
// Simple head:
//
//	FC: 980 → 10
//
// Full head:
//
//	FC1: 980 → 100
//	ReLU
//	Dropout (keep 0.5 while training)
//	FC2: 100 → 10
type ConvNet[B tensor.Backend] struct {
	conv1   *nn.Conv2D[B]
	pool1   *nn.MaxPool2D[B]
	conv2   *nn.Conv2D[B]
	pool2   *nn.MaxPool2D[B]
	relu    *nn.ReLU[B]
	fc1     *nn.Linear[B]
	dropout *Dropout[B]   // nil for the simple head
	fc2     *nn.Linear[B] // nil for the simple head
	simple  bool
}

// flatSize is the length of the flattened feature map after both pooling stages.
const flatSize = (ImageSide / (PoolSize * PoolSize)) * (ImageSide / (PoolSize * PoolSize)) * ConvChannels

// NewConvNet creates the convolutional network.
//
// Parameters:
//   - backend: Backend holding the parameters
//   - simple: If true, the feature map feeds the output layer directly
//   - keepProb: Dropout keep probability of the full head while training
//   - rng: Random source for dropout masks
func NewConvNet[B tensor.Backend](backend B, simple bool, keepProb float32, rng *rand.Rand) *ConvNet[B] {
	padding := ConvKernel / 2 // same padding at stride 1
	m := &ConvNet[B]{
		conv1:  nn.NewConv2D(1, ConvChannels, ConvKernel, ConvKernel, 1, padding, true, backend),
		pool1:  nn.NewMaxPool2D(PoolSize, PoolSize, backend),
		conv2:  nn.NewConv2D(ConvChannels, ConvChannels, ConvKernel, ConvKernel, 1, padding, true, backend),
		pool2:  nn.NewMaxPool2D(PoolSize, PoolSize, backend),
		relu:   nn.NewReLU[B](),
		simple: simple,
	}

	if simple {
		m.fc1 = nn.NewLinear[B](flatSize, NumClasses, backend)
		return m
	}
	m.fc1 = nn.NewLinear[B](flatSize, FCUnits, backend)
	m.dropout = NewDropout[B](keepProb, rng)
	m.fc2 = nn.NewLinear[B](FCUnits, NumClasses, backend)
	return m
}

// Forward maps [batch, 784] or [batch, 1, 28, 28] images to logits [batch, 10].
func (m *ConvNet[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	switch len(inputShape) {
	case 2:
		input = input.Reshape(inputShape[0], 1, ImageSide, ImageSide)
	case 4:
	default:
		panic(fmt.Sprintf("ConvNet: expected 2D [batch, 784] or 4D [batch, 1, 28, 28] input, got %dD", len(inputShape)))
	}

	x := m.conv1.Forward(input) // [batch, 20, 28, 28]
	x = m.relu.Forward(x)
	x = m.pool1.Forward(x) // [batch, 20, 14, 14]

	x = m.conv2.Forward(x) // [batch, 20, 14, 14]
	x = m.relu.Forward(x)
	x = m.pool2.Forward(x) // [batch, 20, 7, 7]

	batchSize := x.Shape()[0]
	x = x.Reshape(batchSize, flatSize)

	x = m.fc1.Forward(x)
	if m.simple {
		return x
	}
	x = m.relu.Forward(x)
	x = m.dropout.Forward(x)
	return m.fc2.Forward(x)
}

// Parameters returns all trainable parameters.
func (m *ConvNet[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 8)
	params = append(params, m.conv1.Parameters()...)
	params = append(params, m.conv2.Parameters()...)
	params = append(params, m.fc1.Parameters()...)
	if m.fc2 != nil {
		params = append(params, m.fc2.Parameters()...)
	}
	return params
}

// SetTraining toggles dropout of the full head.
func (m *ConvNet[B]) SetTraining(training bool) {
	if m.dropout != nil {
		m.dropout.SetTraining(training)
	}
}

// String returns a string representation of the model architecture.
func (m *ConvNet[B]) String() string {
	head := fmt.Sprintf("  Linear(in=%d, out=%d)", flatSize, NumClasses)
	if !m.simple {
		head = fmt.Sprintf("  Linear(in=%d, out=%d)\n  ReLU()\n  %s\n  Linear(in=%d, out=%d)",
			flatSize, FCUnits, m.dropout.String(), FCUnits, NumClasses)
	}
	return fmt.Sprintf(`ConvNet(
  %s
  ReLU()
  %s
  %s
  ReLU()
  %s
%s
)`,
		m.conv1.String(),
		m.pool1.String(),
		m.conv2.String(),
		m.pool2.String(),
		head,
	)
}
