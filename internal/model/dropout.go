package model

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Dropout zeroes activations at random while training.
//
// Each element is kept with probability keepProb and scaled by 1/keepProb
// (inverted dropout), so evaluation needs no rescaling and passes the input
// through untouched. The mask is applied with an element-wise Mul, which
// the autodiff backend records, so gradients only reach kept units.
type Dropout[B tensor.Backend] struct {
	keepProb float32
	training bool
	rng      *rand.Rand
}

// NewDropout creates a dropout layer.
//
// Parameters:
//   - keepProb: Probability of keeping a unit during training, in (0, 1]
//   - rng: Random source for masks (nil uses a fixed-seed source)
func NewDropout[B tensor.Backend](keepProb float32, rng *rand.Rand) *Dropout[B] {
	if keepProb <= 0 || keepProb > 1 {
		panic(fmt.Sprintf("dropout: keep probability %v outside (0, 1]", keepProb))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Dropout[B]{
		keepProb: keepProb,
		training: true,
		rng:      rng,
	}
}

// Forward applies the random mask in training mode and is the identity otherwise.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.keepProb == 1 {
		return input
	}

	scale := 1 / d.keepProb
	mask := make([]float32, input.NumElements())
	for i := range mask {
		if d.rng.Float32() < d.keepProb {
			mask[i] = scale
		}
	}

	maskTensor, err := tensor.FromSlice(mask, input.Shape(), input.Backend())
	if err != nil {
		panic(fmt.Sprintf("dropout: %v", err))
	}
	return input.Mul(maskTensor)
}

// Parameters returns nil (dropout has no trainable parameters).
func (d *Dropout[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

// SetTraining enables or disables masking.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// KeepProb returns the probability of keeping a unit while training.
func (d *Dropout[B]) KeepProb() float32 {
	return d.keepProb
}

// String returns a string representation of the layer.
func (d *Dropout[B]) String() string {
	return fmt.Sprintf("Dropout(keep_prob=%.2f)", d.keepProb)
}
