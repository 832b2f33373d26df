package trainer

import (
	"fmt"
	"math"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/digitbench/internal/dataset"
	"github.com/born-ml/digitbench/internal/model"
)

// evalBatch is a slice of the test split materialised on the backend.
type evalBatch struct {
	images *tensor.Tensor[float32, Backend]
	labels *tensor.Tensor[int32, Backend]
	size   int
}

// evalBatches packs the test split once per run. Dense networks are
// evaluated in a single pass; conv nets in chunks of batchSize, the last
// chunk holding the remainder.
func evalBatches(arch model.Arch, test *dataset.Split, batchSize int, backend Backend) ([]evalBatch, error) {
	chunk := test.Len()
	if arch.Kind == model.KindCNN {
		chunk = batchSize
	}

	batches := make([]evalBatch, 0, (test.Len()+chunk-1)/chunk)
	for from := 0; from < test.Len(); from += chunk {
		to := min(from+chunk, test.Len())
		images, labels, err := dataset.ToTensors(test.Slice(from, to), backend)
		if err != nil {
			return nil, fmt.Errorf("failed to pack test samples [%d, %d): %w", from, to, err)
		}
		batches = append(batches, evalBatch{images: images, labels: labels, size: to - from})
	}
	return batches, nil
}

// evaluate returns the fraction of correctly classified samples. Dropout is
// disabled and no graph is recorded while it runs.
func (s *session) evaluate(batches []evalBatch) float64 {
	s.net.SetTraining(false)
	defer s.net.SetTraining(true)

	wasRecording := s.backend.Tape().IsRecording()
	s.backend.Tape().StopRecording()
	defer func() {
		if wasRecording {
			s.backend.Tape().StartRecording()
		}
	}()

	correct, total := 0, 0
	for _, b := range batches {
		logits := s.net.Forward(b.images)
		acc := nn.Accuracy(logits, b.labels)
		correct += int(math.Round(float64(acc) * float64(b.size)))
		total += b.size
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
