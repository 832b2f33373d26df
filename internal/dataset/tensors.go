package dataset

import (
	"errors"
	"fmt"

	"github.com/born-ml/born/tensor"
)

// ToTensors packs a split into a [n, 784] image tensor and an [n] label
// tensor on the given backend.
func ToTensors[B tensor.Backend](s *Split, backend B) (*tensor.Tensor[float32, B], *tensor.Tensor[int32, B], error) {
	n := s.Len()
	if n == 0 {
		return nil, nil, errors.New("cannot build tensors from an empty split")
	}
	if len(s.Labels) != n {
		return nil, nil, fmt.Errorf("image count (%d) != label count (%d)", n, len(s.Labels))
	}

	imagesRaw, err := tensor.NewRaw(tensor.Shape{n, ImageSize}, tensor.Float32, backend.Device())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create images tensor: %w", err)
	}
	labelsRaw, err := tensor.NewRaw(tensor.Shape{n}, tensor.Int32, backend.Device())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create labels tensor: %w", err)
	}

	imagesData := imagesRaw.AsFloat32()
	for i, img := range s.Images {
		if len(img) != ImageSize {
			return nil, nil, fmt.Errorf("sample %d has %d pixels, want %d", i, len(img), ImageSize)
		}
		copy(imagesData[i*ImageSize:(i+1)*ImageSize], img)
	}
	copy(labelsRaw.AsInt32(), s.Labels)

	return tensor.New[float32, B](imagesRaw, backend), tensor.New[int32, B](labelsRaw, backend), nil
}
