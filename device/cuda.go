//go:build cuda

package device

import "gorgonia.org/cu"

// probeCUDA reports the first CUDA device when the driver initializes and at
// least one device is present. Any failure falls back to the CPU.
func probeCUDA() (Device, bool) {
	if err := cu.Init(0); err != nil {
		return Device{}, false
	}
	n, err := cu.NumDevices()
	if err != nil || n == 0 {
		return Device{}, false
	}
	name, err := cu.Device(0).Name()
	if err != nil {
		name = "cuda:0"
	}
	return Device{Kind: KindCUDA, Name: name, Workers: 1}, true
}
