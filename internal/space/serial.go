package space

// ensure interface compliance
var _ ExecutionSpace = (*Serial)(nil)

// Serial runs every range on the calling goroutine.
type Serial struct{}

func NewSerial() *Serial {
	return &Serial{}
}

func (s *Serial) Name() string {
	return "Serial"
}

func (s *Serial) Backend() Backend {
	return BackendSerial
}

func (s *Serial) MemorySpace() MemorySpace {
	return HostMemory
}

func (s *Serial) Workers() int {
	return 1
}

func (s *Serial) ParallelFor(n int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	kernelLaunches.WithLabelValues(BackendSerial.String()).Inc()
	body(0, n)
}

func (s *Serial) Synchronize() {
	// Serial is always synchronous
}
