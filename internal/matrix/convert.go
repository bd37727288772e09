package matrix

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// Convert makes dst hold the entries of src in dst's format. A
// DynamicMatrix source contributes its active payload; a DynamicMatrix
// destination keeps its active format.
//
// Equal formats reduce to a deep copy, which may cross memory spaces.
// Otherwise src is expanded into COO and COO is compressed into dst; both
// containers must be reachable from exec.
func Convert[V Value](exec space.ExecutionSpace, src, dst Matrix[V]) error {
	s, ok := asVariant[V](Concrete[V](src))
	if !ok {
		return NewOpError("convert", src.Format(), exec.Name(), fmt.Errorf("%w: source %s", ErrNotImplemented, src.Name()))
	}
	d, ok := asVariant[V](Concrete[V](dst))
	if !ok {
		return NewOpError("convert", dst.Format(), exec.Name(), fmt.Errorf("%w: destination %s", ErrNotImplemented, dst.Name()))
	}

	if s.Format() == d.Format() {
		if err := d.resize(s.NRows(), s.NCols(), s.NNNZ(), s.formatArgs()); err != nil {
			return NewOpError("convert", s.Format(), exec.Name(), err)
		}
		if err := d.copyFrom(s); err != nil {
			return NewOpError("convert", s.Format(), exec.Name(), err)
		}
		conversions.WithLabelValues(s.Format().String(), d.Format().String()).Inc()
		return nil
	}

	if !space.HasAccess(exec, s, d) {
		return NewOpError("convert", s.Format(), exec.Name(), ErrNoAccess)
	}

	table := convertersFor[V]()
	hub, ok := s.(*CooMatrix[V])
	if !ok {
		expand, found := table.toHub[convertKey{s.Format(), s.MemorySpace()}]
		if !found {
			return NewOpError("convert", s.Format(), exec.Name(), fmt.Errorf("%w: %s to COO in %s memory", ErrNotImplemented, s.Format(), s.MemorySpace()))
		}
		hub = &CooMatrix[V]{mem: s.MemorySpace()}
		if err := expand(s, hub); err != nil {
			return NewOpError("convert", s.Format(), exec.Name(), err)
		}
	}

	if out, isCoo := d.(*CooMatrix[V]); isCoo {
		if err := out.ResizeLike(hub); err != nil {
			return NewOpError("convert", FormatCOO, exec.Name(), err)
		}
		if err := out.copyFrom(hub); err != nil {
			return NewOpError("convert", FormatCOO, exec.Name(), err)
		}
	} else {
		compress, found := table.fromHub[convertKey{d.Format(), d.MemorySpace()}]
		if !found {
			return NewOpError("convert", d.Format(), exec.Name(), fmt.Errorf("%w: COO to %s in %s memory", ErrNotImplemented, d.Format(), d.MemorySpace()))
		}
		if err := compress(hub, d); err != nil {
			return NewOpError("convert", d.Format(), exec.Name(), err)
		}
	}

	log.Debug().
		Stringer("from", s.Format()).
		Stringer("to", d.Format()).
		Str("space", exec.Name()).
		Int("nnz", hub.NNNZ()).
		Msg("Converted through COO")
	conversions.WithLabelValues(s.Format().String(), d.Format().String()).Inc()
	return nil
}

type convertKey struct {
	format Format
	mem    space.MemorySpace
}

type (
	toHubFunc[V Value]   func(src variant[V], hub *CooMatrix[V]) error
	fromHubFunc[V Value] func(hub *CooMatrix[V], dst variant[V]) error
)

// converterTable holds, per value type, how each format expands into and
// compresses out of COO in each memory space.
type converterTable[V Value] struct {
	toHub   map[convertKey]toHubFunc[V]
	fromHub map[convertKey]fromHubFunc[V]
}

func (t *converterTable[V]) registerTo(f Format, mem space.MemorySpace, fn toHubFunc[V]) {
	key := convertKey{f, mem}
	if _, dup := t.toHub[key]; dup {
		panic(fmt.Sprintf("matrix: %s to COO converter for %s memory already registered", f, mem))
	}
	t.toHub[key] = fn
}

func (t *converterTable[V]) registerFrom(f Format, mem space.MemorySpace, fn fromHubFunc[V]) {
	key := convertKey{f, mem}
	if _, dup := t.fromHub[key]; dup {
		panic(fmt.Sprintf("matrix: COO to %s converter for %s memory already registered", f, mem))
	}
	t.fromHub[key] = fn
}

func expandWith[M variant[V], V Value](fn func(M, *CooMatrix[V]) error) toHubFunc[V] {
	return func(src variant[V], hub *CooMatrix[V]) error { return fn(src.(M), hub) }
}

func compressWith[M variant[V], V Value](fn func(*CooMatrix[V], M) error) fromHubFunc[V] {
	return func(hub *CooMatrix[V], dst variant[V]) error { return fn(hub, dst.(M)) }
}

func newConverterTable[V Value]() *converterTable[V] {
	t := &converterTable[V]{
		toHub:   make(map[convertKey]toHubFunc[V]),
		fromHub: make(map[convertKey]fromHubFunc[V]),
	}
	host := space.HostMemory
	t.registerTo(FormatCSR, host, expandWith(csrToCoo[V]))
	t.registerTo(FormatDIA, host, expandWith(diaToCoo[V]))
	t.registerTo(FormatELL, host, expandWith(ellToCoo[V]))
	t.registerTo(FormatDense, host, expandWith(denseToCoo[V]))

	t.registerFrom(FormatCSR, host, compressWith(cooToCsr[V]))
	t.registerFrom(FormatDIA, host, compressWith(cooToDia[V]))
	t.registerFrom(FormatELL, host, compressWith(cooToEll[V]))
	t.registerFrom(FormatDense, host, compressWith(cooToDense[V]))
	return t
}

var converterTables sync.Map // reflect.Type -> *converterTable[V]

func convertersFor[V Value]() *converterTable[V] {
	key := reflect.TypeFor[V]()
	if t, ok := converterTables.Load(key); ok {
		return t.(*converterTable[V])
	}
	t, _ := converterTables.LoadOrStore(key, newConverterTable[V]())
	return t.(*converterTable[V])
}
