package alloc

import (
	"math"
	"unsafe"

	"github.com/joshuapare/memkit/internal/arith"
)

// HeapAllocator is a leaf allocator backed by the Go heap. Each block is
// carved out of a dedicated byte slice, over-allocated so the returned
// address can be aligned forward to the requested alignment. The slices are
// retained in an address-keyed table so the raw pointers handed out stay
// reachable until the block comes back through DeallocateRaw.
type HeapAllocator struct {
	// live maps a block's start address to the buffer backing it.
	live map[uintptr][]byte
}

// NewHeap creates a heap-backed allocator.
func NewHeap() *HeapAllocator {
	return &HeapAllocator{live: make(map[uintptr][]byte)}
}

// AllocateRaw reserves size bytes aligned to align from the Go heap.
func (h *HeapAllocator) AllocateRaw(size, align uintptr) (Block, error) {
	if size == 0 {
		return EmptyBlock(), nil
	}
	if !arith.IsPowerOfTwo(align) {
		return EmptyBlock(), ErrUnsupportedAlignment
	}
	if size > math.MaxInt-align {
		return EmptyBlock(), ErrOutOfMemory
	}

	// Over-allocate by align-1 so a suitably aligned start always exists.
	buf := make([]byte, size+align-1)
	base := uintptr(unsafe.Pointer(&buf[0]))
	off := arith.Padding(base, align)
	ptr := unsafe.Pointer(&buf[off])

	h.live[uintptr(ptr)] = buf
	return NewBlock(ptr, size, align), nil
}

// ReallocateRaw moves the block to a fresh buffer of newSize, copying as
// much of the old contents as fits.
func (h *HeapAllocator) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	if newSize == 0 {
		h.DeallocateRaw(b)
		return EmptyBlock(), nil
	}
	if b.IsEmpty() {
		return EmptyBlock(), ErrUnsupportedAlignment
	}

	nb, err := h.AllocateRaw(newSize, b.Align())
	if err != nil {
		return EmptyBlock(), err
	}
	copy(nb.Bytes(), b.Bytes())
	h.DeallocateRaw(b)
	return nb, nil
}

// DeallocateRaw drops the backing buffer, returning it to the garbage
// collector.
func (h *HeapAllocator) DeallocateRaw(b Block) {
	if b.IsEmpty() {
		return
	}
	delete(h.live, b.Addr())
}

// OwnsBlock reports whether b was issued by this allocator and is still
// live.
func (h *HeapAllocator) OwnsBlock(b Block) bool {
	if b.IsEmpty() {
		return false
	}
	_, ok := h.live[b.Addr()]
	return ok
}

// Compile-time interface check
var _ OwningAllocator = (*HeapAllocator)(nil)
