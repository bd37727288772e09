package matrix

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "longbow_sparse_conversions_total",
		Help: "Total number of format conversions by source and destination format",
	}, []string{"from", "to"})

	formatSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "longbow_sparse_dynamic_format_switches_total",
		Help: "Total number of DynamicMatrix payload replacements by new active format",
	}, []string{"format"})
)
