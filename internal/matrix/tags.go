package matrix

import "fmt"

// Format identifies a storage layout.
type Format int

// The first NFormats values are the variants a DynamicMatrix can hold,
// in activation-index order.
const (
	FormatCOO Format = iota
	FormatCSR
	FormatDIA
	FormatELL
	FormatDense
	FormatDynamic
	FormatDenseVector
)

// NFormats is the number of formats a DynamicMatrix can switch between.
const NFormats = int(FormatDynamic)

func (f Format) String() string {
	switch f {
	case FormatCOO:
		return "COO"
	case FormatCSR:
		return "CSR"
	case FormatDIA:
		return "DIA"
	case FormatELL:
		return "ELL"
	case FormatDense:
		return "DENSE"
	case FormatDynamic:
		return "DYNAMIC"
	case FormatDenseVector:
		return "DENSE_VECTOR"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Index is the activation index of a dynamic variant, or -1.
func (f Format) Index() int {
	if f >= 0 && int(f) < NFormats {
		return int(f)
	}
	return -1
}

// ParseFormat maps a format name onto a Format.
func ParseFormat(name string) (Format, error) {
	for f := FormatCOO; f <= FormatDenseVector; f++ {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown format %q", ErrInvalidArgument, name)
}

// Algorithm selects between kernel variants for the same format and
// backend.
type Algorithm int

const (
	Alg0 Algorithm = iota
	Alg1
)

func (a Algorithm) String() string {
	return fmt.Sprintf("Alg%d", int(a))
}

// InvalidIndex marks an unused ELL slot.
const InvalidIndex = -1

// DefaultEllAlignment is the row width multiple ELL storage pads to.
const DefaultEllAlignment = 32

// PadSize rounds n up to a multiple of alignment. alignment <= 0 means no
// padding.
func PadSize(n, alignment int) int {
	if alignment <= 0 {
		return n
	}
	return ((n + alignment - 1) / alignment) * alignment
}
