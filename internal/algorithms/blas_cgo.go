//go:build cgo && netlib

package algorithms

// Registers the netlib BLAS implementation (system BLAS: Accelerate on
// macOS, OpenBLAS on Linux) behind blas64, used by the dense multiply.

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/netlib/blas/netlib"
)

func init() {
	blas64.Use(netlib.Implementation{})
	log.Debug().Msg("Dense multiply uses netlib BLAS")
}
