package dataset

import (
	"math/rand"
)

// Sampler draws shuffled minibatches from a Split.
//
// The order is reshuffled on the first draw and every time the split is
// exhausted. A batch that crosses an epoch boundary is made of the remaining
// samples of the old order followed by the head of the new one, so every
// sample is seen exactly once per epoch.
//
// A Sampler is owned by one training run and is not safe for concurrent use.
type Sampler struct {
	split  *Split
	rng    *rand.Rand
	perm   []int
	index  int
	epochs int
	primed bool
}

// NewSampler returns a sampler over s. A nil rng is seeded with 1.
func (s *Split) NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	perm := make([]int, s.Len())
	for i := range perm {
		perm[i] = i
	}
	return &Sampler{split: s, rng: rng, perm: perm}
}

// EpochsCompleted reports how many full passes over the split have finished.
func (s *Sampler) EpochsCompleted() int {
	return s.epochs
}

// NextBatch returns the next n samples. The returned split references the
// underlying images and must not be modified.
func (s *Sampler) NextBatch(n int) *Split {
	total := len(s.perm)
	batch := &Split{
		Images: make([][]float32, 0, n),
		Labels: make([]int32, 0, n),
	}
	if total == 0 || n <= 0 {
		return batch
	}
	if !s.primed {
		s.shuffle()
		s.primed = true
	}

	for len(batch.Images) < n {
		if s.index >= total {
			s.epochs++
			s.shuffle()
			s.index = 0
		}
		take := min(n-len(batch.Images), total-s.index)
		for _, i := range s.perm[s.index : s.index+take] {
			batch.Images = append(batch.Images, s.split.Images[i])
			batch.Labels = append(batch.Labels, s.split.Labels[i])
		}
		s.index += take
	}
	return batch
}

func (s *Sampler) shuffle() {
	s.rng.Shuffle(len(s.perm), func(i, j int) {
		s.perm[i], s.perm[j] = s.perm[j], s.perm[i]
	})
}
