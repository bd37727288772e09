package algorithms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "longbow_sparse_dispatches_total",
		Help: "Total number of kernel dispatches by operation, format and backend",
	}, []string{"op", "format", "backend"})

	notImplemented = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "longbow_sparse_not_implemented_total",
		Help: "Total number of dispatches with no registered kernel",
	}, []string{"op", "format", "backend"})
)
