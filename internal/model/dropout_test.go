package model

import (
	"math/rand"
	"testing"

	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onesInput(t *testing.T, backend Backend, n int) *tensor.Tensor[float32, Backend] {
	t.Helper()
	data := make([]float32, n)
	for i := range data {
		data[i] = 3
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, n}, backend)
	require.NoError(t, err)
	return x
}

func TestDropout_EvalIsIdentity(t *testing.T) {
	backend := newBackend()
	d := NewDropout[Backend](0.5, rand.New(rand.NewSource(1)))
	d.SetTraining(false)

	x := onesInput(t, backend, 64)
	y := d.Forward(x)
	assert.Equal(t, x.Data(), y.Data())
}

func TestDropout_TrainMasksAndScales(t *testing.T) {
	backend := newBackend()
	d := NewDropout[Backend](0.5, rand.New(rand.NewSource(1)))

	const n = 2000
	y := d.Forward(onesInput(t, backend, n)).Data()

	kept := 0
	for _, v := range y {
		if v == 0 {
			continue
		}
		assert.InDelta(t, 6.0, v, 1e-6, "kept units are scaled by 1/keep")
		kept++
	}
	// Keep probability 0.5: expect roughly half kept.
	assert.InDelta(t, n/2, kept, n/10)
}

func TestDropout_KeepAllIsIdentity(t *testing.T) {
	backend := newBackend()
	d := NewDropout[Backend](1, nil)

	x := onesInput(t, backend, 16)
	assert.Equal(t, x.Data(), d.Forward(x).Data())
}

func TestDropout_InvalidKeepProb(t *testing.T) {
	assert.Panics(t, func() { NewDropout[Backend](0, nil) })
	assert.Panics(t, func() { NewDropout[Backend](1.2, nil) })
}

func TestDropout_NoParameters(t *testing.T) {
	assert.Empty(t, NewDropout[Backend](0.5, nil).Parameters())
	assert.InDelta(t, 0.5, NewDropout[Backend](0.5, nil).KeepProb(), 1e-9)
}
