// Package model defines the digit classifiers compared by digitbench.
//
// An Arch is a pure description of a network: it knows how many trainable
// coefficients and forward-pass multiplications the network has without
// building it. Build turns an Arch into a trainable Network on any Born backend.
//
// Supported families:
//   - Linear: a single affine layer 784 → 10
//   - MLP: 784 → hidden layers with ReLU → 10
//   - CNN: two 5×5 convolution + max-pool stages, then a linear head
//     (simple) or a 100-unit ReLU layer with dropout and a linear head (full)
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Fixed dimensions of the MNIST classifiers.
const (
	ImageSide  = 28
	InputSize  = ImageSide * ImageSide // 784
	NumClasses = 10

	ConvKernel   = 5   // 5×5 kernels
	ConvChannels = 20  // output channels of both convolutions
	PoolSize     = 2   // 2×2 max-pooling, stride 2
	FCUnits      = 100 // hidden units of the full CNN head
)

// Kind names a classifier family.
type Kind string

// Classifier families.
const (
	KindLinear Kind = "linear"
	KindMLP    Kind = "mlp"
	KindCNN    Kind = "cnn"
)

// Arch describes a classifier topology.
//
// Hidden is only meaningful for KindMLP and Simple only for KindCNN.
type Arch struct {
	Kind   Kind  `yaml:"kind"`
	Hidden []int `yaml:"hidden,omitempty"`
	Simple bool  `yaml:"simple,omitempty"`
}

// Linear returns the architecture of a single affine layer 784 → 10.
func Linear() Arch {
	return Arch{Kind: KindLinear}
}

// MLP returns a multi-layer perceptron with the given hidden widths.
func MLP(hidden ...int) Arch {
	return Arch{Kind: KindMLP, Hidden: append([]int(nil), hidden...)}
}

// CNN returns the two-stage convolutional network.
// If simple is false a 100-unit dropout layer precedes the output layer.
func CNN(simple bool) Arch {
	return Arch{Kind: KindCNN, Simple: simple}
}

// Validate reports whether the architecture can be built.
func (a Arch) Validate() error {
	switch a.Kind {
	case KindLinear:
		if len(a.Hidden) != 0 {
			return errors.New("model: linear architecture takes no hidden layers")
		}
	case KindMLP:
		if len(a.Hidden) == 0 {
			return errors.New("model: mlp architecture needs at least one hidden layer")
		}
		for i, h := range a.Hidden {
			if h <= 0 {
				return fmt.Errorf("model: hidden layer %d has non-positive width %d", i, h)
			}
		}
	case KindCNN:
		if len(a.Hidden) != 0 {
			return errors.New("model: cnn architecture takes no hidden layers")
		}
	case "":
		return errors.New("model: architecture kind is empty")
	default:
		return fmt.Errorf("model: unknown architecture kind %q", a.Kind)
	}
	return nil
}

// dims returns the layer widths of a dense chain, input and output included.
func (a Arch) dims() []int {
	dims := make([]int, 0, len(a.Hidden)+2)
	dims = append(dims, InputSize)
	dims = append(dims, a.Hidden...)
	return append(dims, NumClasses)
}

// MultiplyCount returns the number of multiply-accumulate operations
// of one forward pass for a single image.
func (a Arch) MultiplyCount() int {
	if a.Kind == KindCNN {
		muls, _ := a.convCounts()
		return muls
	}
	muls, _ := denseCounts(a.dims())
	return muls
}

// CoefficientCount returns the number of trainable parameters.
func (a Arch) CoefficientCount() int {
	if a.Kind == KindCNN {
		_, coefs := a.convCounts()
		return coefs
	}
	_, coefs := denseCounts(a.dims())
	return coefs
}

// denseCounts accumulates weight and bias counts over consecutive widths.
func denseCounts(dims []int) (muls, coefs int) {
	for i := 0; i+1 < len(dims); i++ {
		in, out := dims[i], dims[i+1]
		muls += in * out
		coefs += in*out + out
	}
	return muls, coefs
}

// convCounts derives the counts of the convolutional network from its
// kernel, channel and spatial dimensions. Same padding keeps each convolution
// at its input resolution; pooling halves it afterwards.
func (a Arch) convCounts() (muls, coefs int) {
	k2 := ConvKernel * ConvKernel
	side := ImageSide
	in := 1
	for stage := 0; stage < 2; stage++ {
		muls += in * k2 * ConvChannels * side * side
		coefs += in*k2*ConvChannels + ConvChannels
		in = ConvChannels
		side /= PoolSize
	}

	head := []int{side * side * ConvChannels, NumClasses}
	if !a.Simple {
		head = []int{side * side * ConvChannels, FCUnits, NumClasses}
	}
	m, c := denseCounts(head)
	return muls + m, coefs + c
}

// String returns a short label such as "linear", "mlp[512]" or "cnn-simple".
func (a Arch) String() string {
	switch a.Kind {
	case KindMLP:
		widths := make([]string, len(a.Hidden))
		for i, h := range a.Hidden {
			widths[i] = strconv.Itoa(h)
		}
		return "mlp[" + strings.Join(widths, ",") + "]"
	case KindCNN:
		if a.Simple {
			return "cnn-simple"
		}
		return "cnn"
	default:
		return string(a.Kind)
	}
}
