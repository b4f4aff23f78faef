//go:build !cuda

package device

// probeCUDA always misses in builds without the cuda tag.
func probeCUDA() (Device, bool) {
	return Device{}, false
}
