package space

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Config selects the process-wide default execution space.
type Config struct {
	DefaultBackend  string `yaml:"default_backend"`
	Threads         int    `yaml:"threads"`
	DeviceBlockSize int    `yaml:"device_block_size"`
}

func DefaultConfig() Config {
	return Config{
		DefaultBackend:  BackendSerial.String(),
		Threads:         0,
		DeviceBlockSize: DefaultDeviceBlockSize,
	}
}

func (c Config) Validate() error {
	if _, err := ParseBackend(c.DefaultBackend); err != nil {
		return err
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must be >= 0, got %d", ErrInvalidConfig, c.Threads)
	}
	if c.DeviceBlockSize < 0 {
		return fmt.Errorf("%w: device_block_size must be >= 0, got %d", ErrInvalidConfig, c.DeviceBlockSize)
	}
	return nil
}

// Runtime holds one instance of every execution space and the default.
type Runtime struct {
	cfg     Config
	serial  *Serial
	threads *Threads
	device  *Device
	def     ExecutionSpace
}

func (r *Runtime) Config() Config {
	return r.cfg
}

func (r *Runtime) Serial() *Serial {
	return r.serial
}

func (r *Runtime) Threads() *Threads {
	return r.threads
}

func (r *Runtime) Device() *Device {
	return r.device
}

// Space returns the execution space for a backend.
func (r *Runtime) Space(b Backend) ExecutionSpace {
	switch b {
	case BackendThreads:
		return r.threads
	case BackendDevice:
		return r.device
	default:
		return r.serial
	}
}

// Default is the configured default execution space.
func (r *Runtime) Default() ExecutionSpace {
	return r.def
}

// DefaultHost is the default space if it runs on the host, otherwise the
// threaded host space.
func (r *Runtime) DefaultHost() ExecutionSpace {
	if r.def.MemorySpace() == HostMemory {
		return r.def
	}
	return r.threads
}

var (
	mu      sync.Mutex
	current *Runtime
)

// Initialize builds the process-wide runtime. It must be paired with
// Finalize and fails if a runtime is already live.
func Initialize(cfg Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backend, _ := ParseBackend(cfg.DefaultBackend)

	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return nil, ErrAlreadyInitialized
	}

	r := &Runtime{
		cfg:     cfg,
		serial:  NewSerial(),
		threads: NewThreads(cfg.Threads),
		device:  NewDevice(cfg.DeviceBlockSize),
	}
	r.def = r.Space(backend)
	current = r
	runtimeInitialized.Set(1)

	log.Info().
		Str("default", r.def.Name()).
		Int("threads", r.threads.Workers()).
		Int("device_block_size", r.device.BlockSize()).
		Msg("Execution runtime initialized")
	return r, nil
}

// Finalize tears down the process-wide runtime.
func Finalize() error {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return ErrNotInitialized
	}
	current.def.Synchronize()
	current = nil
	runtimeInitialized.Set(0)
	log.Info().Msg("Execution runtime finalized")
	return nil
}

// Current returns the live runtime, or nil.
func Current() *Runtime {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// DefaultExecutionSpace returns the runtime's default space, or Serial
// when no runtime is live.
func DefaultExecutionSpace() ExecutionSpace {
	if r := Current(); r != nil {
		return r.Default()
	}
	return NewSerial()
}

// DefaultHostExecutionSpace returns the runtime's default host space, or
// Serial when no runtime is live.
func DefaultHostExecutionSpace() ExecutionSpace {
	if r := Current(); r != nil {
		return r.DefaultHost()
	}
	return NewSerial()
}
