package trainer

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/digitbench/internal/model"
)

// Backend is the compute backend every run trains on: the CPU backend
// wrapped with automatic differentiation.
type Backend = *autodiff.Backend[*cpu.Backend]

// session owns the backend, network and optimizer of one training run.
// It is acquired by Train and released with Close on every exit path.
type session struct {
	backend   Backend
	net       model.Network[Backend]
	optimizer *optim.Adam[Backend]
}

func newSession(arch model.Arch, opts Options, rng *rand.Rand) (*session, error) {
	backend := autodiff.New(cpu.New())

	net, err := model.Build(arch, backend, model.BuildOptions{KeepProb: opts.KeepProb, Rand: rng})
	if err != nil {
		return nil, err
	}

	optimizer := optim.NewAdam(
		net.Parameters(),
		optim.AdamConfig{
			LR:    opts.LearningRate,
			Betas: [2]float32{0.9, 0.999},
			Eps:   1e-8,
		},
		backend,
	)

	backend.Tape().StartRecording()
	return &session{backend: backend, net: net, optimizer: optimizer}, nil
}

// step applies one Adam update on a minibatch and returns its loss.
func (s *session) step(images *tensor.Tensor[float32, Backend], labels *tensor.Tensor[int32, Backend], lr float32) (float32, error) {
	s.optimizer.SetLR(lr)
	s.optimizer.ZeroGrad()

	logits := s.net.Forward(images)
	lossRaw := s.backend.CrossEntropy(logits.Raw(), labels.Raw())
	lossValue := lossRaw.AsFloat32()[0]

	// Seed the backward pass with d(loss)/d(loss) = 1.
	outputGrad, err := tensor.NewRaw(lossRaw.Shape(), lossRaw.DType(), s.backend.Device())
	if err != nil {
		return 0, fmt.Errorf("failed to create output gradient: %w", err)
	}
	outputGrad.AsFloat32()[0] = 1.0

	grads := s.backend.Tape().Backward(outputGrad, s.backend)
	s.optimizer.Step(grads)
	s.backend.Tape().Clear()
	return lossValue, nil
}

// Close releases the recorded graph and stops recording.
func (s *session) Close() {
	s.backend.Tape().Clear()
	s.backend.Tape().StopRecording()
}
