package space

import (
	"fmt"
	"strings"
)

// MemorySpace identifies where a buffer physically resides.
type MemorySpace int

const (
	HostMemory MemorySpace = iota
	DeviceMemory
)

func (m MemorySpace) String() string {
	switch m {
	case HostMemory:
		return "host"
	case DeviceMemory:
		return "device"
	default:
		return fmt.Sprintf("memory(%d)", int(m))
	}
}

// Backend identifies the kind of execution space. Kernels are registered
// per backend.
type Backend int

const (
	BackendSerial Backend = iota
	BackendThreads
	BackendDevice
)

func (b Backend) String() string {
	switch b {
	case BackendSerial:
		return "serial"
	case BackendThreads:
		return "threads"
	case BackendDevice:
		return "device"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend maps a configuration name onto a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "serial", "":
		return BackendSerial, nil
	case "threads", "openmp", "cpu":
		return BackendThreads, nil
	case "device", "gpu":
		return BackendDevice, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// ExecutionSpace runs bulk data-parallel work against one memory space.
// ParallelFor blocks until every chunk has completed.
type ExecutionSpace interface {
	Name() string
	Backend() Backend
	MemorySpace() MemorySpace

	// Workers is the number of chunks ParallelFor splits a range into.
	Workers() int

	// ParallelFor calls body over disjoint [lo, hi) chunks covering [0, n).
	ParallelFor(n int, body func(lo, hi int))

	Synchronize()
}

// Container is anything that owns storage in a memory space.
type Container interface {
	MemorySpace() MemorySpace
}

// CanAccess reports whether code running in exec may touch memory in mem.
func CanAccess(exec ExecutionSpace, mem MemorySpace) bool {
	return exec.MemorySpace() == mem
}

// HasAccess reports whether exec can touch every container.
func HasAccess(exec ExecutionSpace, containers ...Container) bool {
	for _, c := range containers {
		if !CanAccess(exec, c.MemorySpace()) {
			return false
		}
	}
	return true
}

// IsHost reports whether the container lives in host memory.
func IsHost(c Container) bool {
	return c.MemorySpace() == HostMemory
}
