package trainer

import (
	"math"

	"github.com/born-ml/digitbench/internal/model"
)

// Schedule maps the global update counter to a learning rate.
type Schedule interface {
	LR(step int) float32
}

// Constant is a fixed learning rate.
type Constant float32

// LR implements Schedule.
func (c Constant) LR(int) float32 { return float32(c) }

// Staircase decays the base rate by Rate every Steps updates:
//
//	lr(step) = Base * Rate^floor(step/Steps)
type Staircase struct {
	Base  float32
	Rate  float64
	Steps int
}

// LR implements Schedule.
func (s Staircase) LR(step int) float32 {
	if s.Steps <= 0 {
		return s.Base
	}
	return s.Base * float32(math.Pow(s.Rate, float64(step/s.Steps)))
}

// scheduleFor returns the learning-rate schedule used to train arch.
func scheduleFor(arch model.Arch, opts Options, batchesPerEpoch int) Schedule {
	if arch.Kind != model.KindMLP {
		return Constant(opts.LearningRate)
	}
	return Staircase{
		Base:  opts.LearningRate,
		Rate:  opts.DecayRate,
		Steps: opts.DecayEpochs * batchesPerEpoch,
	}
}
