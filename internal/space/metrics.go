package space

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	kernelLaunches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "longbow_sparse_kernel_launches_total",
		Help: "Total number of parallel-for launches per backend",
	}, []string{"backend"})

	allocatedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "longbow_sparse_allocated_bytes_total",
		Help: "Total bytes allocated for buffers per memory space",
	}, []string{"memory"})

	runtimeInitialized = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "longbow_sparse_runtime_initialized",
		Help: "1 while the process-wide execution runtime is initialized",
	})
)
