package space

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ensure interface compliance
var _ ExecutionSpace = (*Device)(nil)

const DefaultDeviceBlockSize = 256

// Device emulates an accelerator. It only reaches DeviceMemory and
// launches ranges as fixed-size blocks, at most one in flight per CPU.
type Device struct {
	blockSize int
	streams   int
}

func NewDevice(blockSize int) *Device {
	if blockSize <= 0 {
		blockSize = DefaultDeviceBlockSize
	}
	return &Device{blockSize: blockSize, streams: runtime.NumCPU()}
}

func (d *Device) Name() string {
	return "Device"
}

func (d *Device) Backend() Backend {
	return BackendDevice
}

func (d *Device) MemorySpace() MemorySpace {
	return DeviceMemory
}

// Workers reports the number of concurrent streams.
func (d *Device) Workers() int {
	return d.streams
}

// BlockSize is the number of indices handled by one block.
func (d *Device) BlockSize() int {
	return d.blockSize
}

func (d *Device) ParallelFor(n int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	kernelLaunches.WithLabelValues(BackendDevice.String()).Inc()

	var g errgroup.Group
	g.SetLimit(d.streams)
	for lo := 0; lo < n; lo += d.blockSize {
		hi := min(lo+d.blockSize, n)
		g.Go(func() error {
			body(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Device) Synchronize() {
	// Launches are joined inside ParallelFor
}
