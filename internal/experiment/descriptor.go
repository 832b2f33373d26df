// Package experiment runs the digit-classifier comparison: each model
// descriptor is trained over several attempts and the results are printed
// as one report line per model.
package experiment

import (
	"fmt"
	"strings"

	"github.com/born-ml/digitbench/internal/model"
	"github.com/born-ml/digitbench/internal/trainer"
)

// Descriptor names an architecture and holds its result once evaluated.
type Descriptor struct {
	Name   string
	Arch   model.Arch
	Result *trainer.Result
}

// DefaultModels returns the eight architectures of the reference
// experiment, in report order.
func DefaultModels() []Descriptor {
	models := []Descriptor{{Name: "Simple model", Arch: model.Linear()}}
	for _, h := range []int{128, 256, 512, 1024, 2046} {
		models = append(models, Descriptor{
			Name: fmt.Sprintf("Hide level %d neurons", h),
			Arch: model.MLP(h),
		})
	}
	return append(models,
		Descriptor{Name: "CNN simple model", Arch: model.CNN(true)},
		Descriptor{Name: "CNN model", Arch: model.CNN(false)},
	)
}

// Select returns the descriptors whose names match names, compared
// case-insensitively, in the order of models. An empty names list selects
// every model.
func Select(models []Descriptor, names []string) ([]Descriptor, error) {
	if len(names) == 0 {
		return models, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = false
	}

	var selected []Descriptor
	for _, d := range models {
		key := strings.ToLower(d.Name)
		if _, ok := wanted[key]; ok {
			selected = append(selected, d)
			wanted[key] = true
		}
	}

	var unknown []string
	for _, n := range names {
		if !wanted[strings.ToLower(strings.TrimSpace(n))] {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown model(s): %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
