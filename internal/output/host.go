package output

import (
	"log/slog"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Host describes the machine the training runs execute on.
type Host struct {
	CPU          string
	PhysicalCore int
	LogicalCore  int
	AVX2         bool
	AVX512       bool
	GOMAXPROCS   int
}

// DetectHost reads the CPU identification of the current machine.
func DetectHost() Host {
	return Host{
		CPU:          cpuid.CPU.BrandName,
		PhysicalCore: cpuid.CPU.PhysicalCores,
		LogicalCore:  cpuid.CPU.LogicalCores,
		AVX2:         cpuid.CPU.Supports(cpuid.AVX2),
		AVX512:       cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ),
		GOMAXPROCS:   runtime.GOMAXPROCS(0),
	}
}

// LogValue implements slog.LogValuer.
func (h Host) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("cpu", h.CPU),
		slog.Int("physical_cores", h.PhysicalCore),
		slog.Int("logical_cores", h.LogicalCore),
		slog.Bool("avx2", h.AVX2),
		slog.Bool("avx512", h.AVX512),
		slog.Int("gomaxprocs", h.GOMAXPROCS),
	)
}
