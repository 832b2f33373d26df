package dataset

import (
	"errors"
	"math/rand"
)

// SyntheticOptions configures Synthetic.
type SyntheticOptions struct {
	Classes    int     // number of distinct labels, 2..10 (default 10)
	Train      int     // training samples (default 1000)
	Validation int     // validation samples (default 0)
	Test       int     // test samples (default 200)
	Noise      float32 // uniform pixel noise amplitude in [0, 1]
	Seed       int64   // 0 selects seed 1
}

func (o SyntheticOptions) withDefaults() SyntheticOptions {
	if o.Classes == 0 {
		o.Classes = NumClasses
	}
	if o.Train == 0 {
		o.Train = 1000
	}
	if o.Test == 0 {
		o.Test = 200
	}
	if o.Seed == 0 {
		o.Seed = 1
	}
	return o
}

// Synthetic builds an in-memory, linearly separable stand-in for MNIST.
//
// Each class c lights a distinct contiguous band of ImageSize/Classes pixels
// at full intensity; Noise adds uniform jitter to every pixel, clamped to
// [0, 1]. Labels cycle through the classes so every split is balanced.
func Synthetic(opts SyntheticOptions) (*Provider, error) {
	opts = opts.withDefaults()
	if opts.Classes < 2 || opts.Classes > NumClasses {
		return nil, errors.New("synthetic: classes must be in [2, 10]")
	}
	if opts.Train < 0 || opts.Validation < 0 || opts.Test < 0 {
		return nil, errors.New("synthetic: sample counts must be >= 0")
	}
	if opts.Noise < 0 || opts.Noise > 1 {
		return nil, errors.New("synthetic: noise must be in [0, 1]")
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	band := ImageSize / opts.Classes

	gen := func(n int) *Split {
		s := &Split{
			Images: make([][]float32, n),
			Labels: make([]int32, n),
		}
		for i := 0; i < n; i++ {
			label := i % opts.Classes
			img := make([]float32, ImageSize)
			for j := label * band; j < (label+1)*band; j++ {
				img[j] = 1
			}
			if opts.Noise > 0 {
				for j := range img {
					v := img[j] + (rng.Float32()*2-1)*opts.Noise
					img[j] = min(max(v, 0), 1)
				}
			}
			s.Images[i] = img
			s.Labels[i] = int32(label)
		}
		return s
	}

	return &Provider{
		Train:      gen(opts.Train),
		Validation: gen(opts.Validation),
		Test:       gen(opts.Test),
	}, nil
}
