package matrix

import "github.com/23skdu/longbow-sparse/internal/space"

// mirrorable is implemented by every container type. zeroed allocates a
// same-shape twin in mem; shallow returns a new header over the same
// buffers.
type mirrorable[M any] interface {
	space.Container
	zeroed(mem space.MemorySpace) M
	shallow() M
}

// CreateMirror returns a host-resident counterpart of src. A host source
// is returned as is; anything else gets a zeroed host twin of the same
// shape. No data is copied.
func CreateMirror[M mirrorable[M]](src M) M {
	return CreateMirrorIn(src, space.HostMemory)
}

// CreateMirrorIn is CreateMirror for an explicit target memory space.
func CreateMirrorIn[M mirrorable[M]](src M, mem space.MemorySpace) M {
	if src.MemorySpace() == mem {
		return src
	}
	return src.zeroed(mem)
}

// CreateMirrorContainer returns a counterpart usable from exec. In the
// same memory space the result is a new container sharing src's buffers;
// otherwise it is a zeroed twin. No data is copied.
func CreateMirrorContainer[M mirrorable[M]](src M, exec space.ExecutionSpace) M {
	mem := exec.MemorySpace()
	if src.MemorySpace() == mem {
		return src.shallow()
	}
	return src.zeroed(mem)
}
