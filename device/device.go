// Package device reports the compute device a training run is pinned to.
// Detection happens once at runner construction and the result stays fixed
// for the whole run. A CUDA device is probed only when the module is built
// with the cuda tag; every other build selects the CPU.
package device

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Kind distinguishes the general-purpose processor from an accelerator.
type Kind int

const (
	KindCPU Kind = iota
	KindCUDA
)

// Device describes the selected compute device. Workers is the concurrency
// the training data loader may use on it.
type Device struct {
	Kind    Kind
	Name    string
	Workers int
}

func (d Device) String() string {
	if d.Kind == KindCUDA {
		return fmt.Sprintf("cuda (%s)", d.Name)
	}
	return fmt.Sprintf("cpu (%s, %d workers)", d.Name, d.Workers)
}

// Detect selects the device for a run: the first CUDA device when one is
// available to this build, the CPU otherwise.
func Detect() Device {
	if d, ok := probeCUDA(); ok {
		return d
	}
	return cpuDevice()
}

func cpuDevice() Device {
	name := cpuid.CPU.BrandName
	if name == "" {
		name = "unknown cpu"
	}
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		name += ", avx512"
	case cpuid.CPU.Supports(cpuid.AVX2):
		name += ", avx2"
	}
	return Device{Kind: KindCPU, Name: name, Workers: runtime.NumCPU()}
}
