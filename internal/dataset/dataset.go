// Package dataset provides the MNIST samples used to train and evaluate
// the digit classifiers.
//
// A Provider holds three read-only splits (train, validation, test). Images
// are 784 float32 pixels normalised to [0, 1]; labels are class indices 0-9.
// Minibatches are drawn through a per-run Sampler so concurrent or repeated
// training runs never share sampling state.
package dataset

import (
	"fmt"
	"path/filepath"
)

// MNIST file names as published by LeCun et al.
const (
	trainImagesFile = "train-images-idx3-ubyte"
	trainLabelsFile = "train-labels-idx1-ubyte"
	testImagesFile  = "t10k-images-idx3-ubyte"
	testLabelsFile  = "t10k-labels-idx1-ubyte"
)

// Dimensions of an MNIST sample.
const (
	ImageSize  = 28 * 28
	NumClasses = 10
)

// DefaultValidationSize is the number of leading training samples held out
// as the validation split (55000 training samples remain).
const DefaultValidationSize = 5000

// Split is an ordered, read-only set of samples.
type Split struct {
	Images [][]float32 // [num_samples][784]
	Labels []int32     // [num_samples]
}

// Len returns the number of samples.
func (s *Split) Len() int {
	return len(s.Images)
}

// Slice returns the samples [from, to) sharing the underlying storage.
func (s *Split) Slice(from, to int) *Split {
	return &Split{
		Images: s.Images[from:to],
		Labels: s.Labels[from:to],
	}
}

// OneHot returns the one-hot label vector of sample i.
func (s *Split) OneHot(i int) []float32 {
	v := make([]float32, NumClasses)
	v[s.Labels[i]] = 1
	return v
}

// validate checks that images and labels line up.
func (s *Split) validate(name string) error {
	if len(s.Images) != len(s.Labels) {
		return fmt.Errorf("%s: image count (%d) != label count (%d)", name, len(s.Images), len(s.Labels))
	}
	for i, label := range s.Labels {
		if label < 0 || label >= NumClasses {
			return fmt.Errorf("%s: label out of range [0, %d] at sample %d: %d", name, NumClasses-1, i, label)
		}
	}
	return nil
}

// Provider supplies the train, validation and test splits.
//
// A Provider is loaded once and shared read-only by every training run.
type Provider struct {
	Train      *Split
	Validation *Split
	Test       *Split
}

// LoadOptions configures Load.
type LoadOptions struct {
	// ValidationSize leading training samples form the validation split.
	// Zero selects DefaultValidationSize; negative disables the split.
	ValidationSize int

	// MaxSamples caps the train and test splits (0 = load all).
	MaxSamples int
}

// Load reads the MNIST dataset from IDX files in dir.
//
// Each file may be present either uncompressed or gzipped (".gz" suffix).
//
// Parameters:
//   - dir: Directory containing train-images-idx3-ubyte, train-labels-idx1-ubyte,
//     t10k-images-idx3-ubyte and t10k-labels-idx1-ubyte
//   - opts: Validation split size and sample caps
//
// Returns:
//   - Provider with images normalized to [0, 1] range
func Load(dir string, opts LoadOptions) (*Provider, error) {
	if opts.ValidationSize == 0 {
		opts.ValidationSize = DefaultValidationSize
	}
	if opts.ValidationSize < 0 {
		opts.ValidationSize = 0
	}

	train, err := loadSplit(filepath.Join(dir, trainImagesFile), filepath.Join(dir, trainLabelsFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load training set: %w", err)
	}
	test, err := loadSplit(filepath.Join(dir, testImagesFile), filepath.Join(dir, testLabelsFile), opts.MaxSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to load test set: %w", err)
	}

	if opts.ValidationSize >= train.Len() {
		return nil, fmt.Errorf("validation size %d leaves no training samples out of %d", opts.ValidationSize, train.Len())
	}
	validation := train.Slice(0, opts.ValidationSize)
	train = train.Slice(opts.ValidationSize, train.Len())
	if opts.MaxSamples > 0 && train.Len() > opts.MaxSamples {
		train = train.Slice(0, opts.MaxSamples)
	}

	return &Provider{Train: train, Validation: validation, Test: test}, nil
}

// loadSplit reads one image file and its label file.
func loadSplit(imagePath, labelPath string, maxSamples int) (*Split, error) {
	images, rows, cols, err := readImageFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	if rows*cols != ImageSize {
		return nil, fmt.Errorf("unexpected image size %dx%d, want 28x28", rows, cols)
	}
	labels, err := readLabelFile(labelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(images), len(labels))
	}

	numSamples := len(images)
	if maxSamples > 0 && numSamples > maxSamples {
		numSamples = maxSamples
	}

	split := &Split{
		Images: make([][]float32, numSamples),
		Labels: make([]int32, numSamples),
	}
	for i := 0; i < numSamples; i++ {
		img := make([]float32, ImageSize)
		for j, px := range images[i] {
			img[j] = float32(px) / 255.0
		}
		split.Images[i] = img
		split.Labels[i] = int32(labels[i])
	}
	if err := split.validate(imagePath); err != nil {
		return nil, err
	}
	return split, nil
}

func readImageFile(path string) ([][]byte, int, int, error) {
	r, c, err := openIDX(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer c.Close()
	return readIDXImages(r)
}

func readLabelFile(path string) ([]byte, error) {
	r, c, err := openIDX(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return readIDXLabels(r)
}
