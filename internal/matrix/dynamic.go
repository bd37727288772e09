package matrix

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// ensure interface compliance
var _ Matrix[float64] = (*DynamicMatrix[float64])(nil)

// DynamicMatrix holds exactly one concrete container at a time and can
// switch between formats at run time. Shape accessors always read the
// live payload.
type DynamicMatrix[V Value] struct {
	mem    space.MemorySpace
	active variant[V]
}

// NewDynamicMatrix returns an empty matrix with COO active.
func NewDynamicMatrix[V Value](mem space.MemorySpace) *DynamicMatrix[V] {
	return &DynamicMatrix[V]{mem: mem, active: newVariant[V](FormatCOO, mem)}
}

// NewDynamicMatrixFrom deep-copies src into a new DynamicMatrix in src's
// memory space. A DynamicMatrix source contributes its active payload.
func NewDynamicMatrixFrom[V Value](src Matrix[V]) (*DynamicMatrix[V], error) {
	d := &DynamicMatrix[V]{mem: src.MemorySpace()}
	if err := d.Assign(src); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DynamicMatrix[V]) Name() string                   { return "DynamicMatrix" }
func (d *DynamicMatrix[V]) Format() Format                 { return FormatDynamic }
func (d *DynamicMatrix[V]) MemorySpace() space.MemorySpace { return d.mem }
func (d *DynamicMatrix[V]) NRows() int                     { return d.active.NRows() }
func (d *DynamicMatrix[V]) NCols() int                     { return d.active.NCols() }
func (d *DynamicMatrix[V]) NNNZ() int                      { return d.active.NNNZ() }

func (d *DynamicMatrix[V]) elem() (v V) { return v }

// ActiveIndex is the activation index of the live payload.
func (d *DynamicMatrix[V]) ActiveIndex() int { return d.active.Format().Index() }

// ActiveFormat is the format of the live payload.
func (d *DynamicMatrix[V]) ActiveFormat() Format { return d.active.Format() }

// ActiveName is the container name of the live payload.
func (d *DynamicMatrix[V]) ActiveName() string { return d.active.Name() }

// Active returns the live payload.
func (d *DynamicMatrix[V]) Active() Matrix[V] { return d.active }

// Activate discards the payload and installs an empty container of the
// format with the given index. An index outside [0, NFormats) selects
// index 0 and logs a warning.
func (d *DynamicMatrix[V]) Activate(index int) {
	if index < 0 || index >= NFormats {
		log.Warn().
			Int("index", index).
			Int("formats", NFormats).
			Msg("Activate index out of range, defaulting to COO")
		index = 0
	}
	f := Format(index)
	d.active = newVariant[V](f, d.mem)
	formatSwitches.WithLabelValues(f.String()).Inc()
}

// ActivateFormat is Activate by format tag.
func (d *DynamicMatrix[V]) ActivateFormat(f Format) {
	d.Activate(f.Index())
}

// Assign replaces the payload with a deep copy of src. A DynamicMatrix
// source replaces shape and payload with a copy of its active payload.
func (d *DynamicMatrix[V]) Assign(src Matrix[V]) error {
	if other, ok := src.(*DynamicMatrix[V]); ok {
		if other == d {
			return nil
		}
		src = other.active
	}
	v, ok := asVariant[V](src)
	if !ok {
		return fmt.Errorf("%w: %s cannot be held by a DynamicMatrix", ErrFormatMismatch, src.Name())
	}
	if v.MemorySpace() != d.mem {
		return fmt.Errorf("%w: %s payload assigned to a %s DynamicMatrix", ErrInvalidArgument, v.MemorySpace(), d.mem)
	}
	d.active = v.cloneVariant()
	formatSwitches.WithLabelValues(v.Format().String()).Inc()
	return nil
}

// Resize forwards to the active payload. extra carries the format
// arguments: the diagonal count for DIA, entries per row and an optional
// alignment for ELL, nothing for the others.
func (d *DynamicMatrix[V]) Resize(rows, cols, nnz int, extra ...int) error {
	if err := d.active.resize(rows, cols, nnz, extra); err != nil {
		return NewOpError("resize", d.active.Format(), "", err)
	}
	return nil
}

// ResizeLike activates src's format (src's active format if it is
// dynamic) and gives the payload src's shape.
func (d *DynamicMatrix[V]) ResizeLike(src Matrix[V]) error {
	v, ok := asVariant[V](Concrete[V](src))
	if !ok {
		return fmt.Errorf("%w: %s cannot be held by a DynamicMatrix", ErrFormatMismatch, src.Name())
	}
	if d.active.Format() != v.Format() {
		d.ActivateFormat(v.Format())
	}
	return d.Resize(v.NRows(), v.NCols(), v.NNNZ(), v.formatArgs()...)
}

// Clone returns a deep copy holding a copy of the active payload.
func (d *DynamicMatrix[V]) Clone() *DynamicMatrix[V] {
	return &DynamicMatrix[V]{mem: d.mem, active: d.active.cloneVariant()}
}

func (d *DynamicMatrix[V]) shallow() *DynamicMatrix[V] {
	return &DynamicMatrix[V]{mem: d.mem, active: d.active.shallowVariant()}
}

func (d *DynamicMatrix[V]) zeroed(mem space.MemorySpace) *DynamicMatrix[V] {
	return &DynamicMatrix[V]{mem: mem, active: d.active.zeroedVariant(mem)}
}

// Visit calls the visitor method matching the active format.
func (d *DynamicMatrix[V]) Visit(v Visitor[V]) error {
	return d.active.accept(v)
}

// Convert switches the payload to format f in place, pivoting through COO.
func (d *DynamicMatrix[V]) Convert(exec space.ExecutionSpace, f Format) error {
	if f.Index() < 0 {
		return NewOpError("convert", f, exec.Name(), fmt.Errorf("%w: %s is not a dynamic variant", ErrInvalidArgument, f))
	}
	if d.active.Format() == f {
		return nil
	}
	target := newVariant[V](f, d.mem)
	if err := Convert[V](exec, d.active, target); err != nil {
		return err
	}
	d.active = target
	formatSwitches.WithLabelValues(f.String()).Inc()
	return nil
}

// AsCoo returns the payload if COO is active, ErrWrongState otherwise.
func (d *DynamicMatrix[V]) AsCoo() (*CooMatrix[V], error) {
	return payload[*CooMatrix[V]](d, FormatCOO)
}

func (d *DynamicMatrix[V]) AsCsr() (*CsrMatrix[V], error) {
	return payload[*CsrMatrix[V]](d, FormatCSR)
}

func (d *DynamicMatrix[V]) AsDia() (*DiaMatrix[V], error) {
	return payload[*DiaMatrix[V]](d, FormatDIA)
}

func (d *DynamicMatrix[V]) AsEll() (*EllMatrix[V], error) {
	return payload[*EllMatrix[V]](d, FormatELL)
}

func (d *DynamicMatrix[V]) AsDense() (*DenseMatrix[V], error) {
	return payload[*DenseMatrix[V]](d, FormatDense)
}

func payload[T any, V Value](d *DynamicMatrix[V], want Format) (T, error) {
	t, ok := d.active.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s requested while %s is active", ErrWrongState, want, d.active.Format())
	}
	return t, nil
}
