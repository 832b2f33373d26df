package model

import (
	"fmt"
	"strings"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// DenseNet is a chain of fully-connected layers for MNIST classification.
//
// Architecture:
//   - Input: 784 neurons (28×28 flattened image)
//   - Hidden: one Linear + ReLU per hidden width
//   - Output: 10 neurons (logits, no activation)
//
// With no hidden widths it degenerates to the linear model 784 → 10.
type DenseNet[B tensor.Backend] struct {
	layers []*nn.Linear[B]
	relu   *nn.ReLU[B]
}

// NewMLP creates a fully-connected network with the given hidden widths.
func NewMLP[B tensor.Backend](backend B, hidden ...int) *DenseNet[B] {
	dims := Arch{Hidden: hidden}.dims()
	layers := make([]*nn.Linear[B], 0, len(dims)-1)
	for i := 0; i+1 < len(dims); i++ {
		layers = append(layers, nn.NewLinear[B](dims[i], dims[i+1], backend))
	}
	return &DenseNet[B]{
		layers: layers,
		relu:   nn.NewReLU[B](),
	}
}

// Forward maps a batch of flattened images [batch, 784] to logits [batch, 10].
//
// Note: Returns raw logits (no softmax). The cross-entropy loss applies softmax internally.
func (m *DenseNet[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) == 1 {
		input = input.Reshape(1, InputSize)
	} else if len(inputShape) != 2 || inputShape[1] != InputSize {
		panic(fmt.Sprintf("DenseNet: input must have shape [batch_size, %d] or [%d], got %v", InputSize, InputSize, inputShape))
	}

	x := input
	last := len(m.layers) - 1
	for i, layer := range m.layers {
		x = layer.Forward(x)
		if i < last {
			x = m.relu.Forward(x)
		}
	}
	return x
}

// Parameters returns the weights and biases of every layer.
func (m *DenseNet[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 2*len(m.layers))
	for _, layer := range m.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// SetTraining is a no-op; a DenseNet behaves identically in both modes.
func (m *DenseNet[B]) SetTraining(bool) {}

// String returns a string representation of the layer chain.
func (m *DenseNet[B]) String() string {
	var sb strings.Builder
	sb.WriteString("DenseNet(\n")
	for i, layer := range m.layers {
		fmt.Fprintf(&sb, "  Linear(in=%d, out=%d)\n", layer.InFeatures(), layer.OutFeatures())
		if i < len(m.layers)-1 {
			sb.WriteString("  ReLU()\n")
		}
	}
	sb.WriteString(")")
	return sb.String()
}
