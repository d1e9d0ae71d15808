//go:build unix

package alloc

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/memkit/internal/arith"
)

// MmapAllocator is a leaf allocator backed by private anonymous memory
// mappings. Its memory lives outside the Go heap: the garbage collector
// neither scans nor moves it, and DeallocateRaw returns pages to the kernel
// eagerly with munmap.
//
// Mappings are page-granular, so each block costs at least one page; this
// allocator is meant as backing storage for Scoped or FreeList rather than
// for many small blocks.
type MmapAllocator struct {
	pageSize uintptr

	// live maps a block's start address to its mapping.
	live map[uintptr][]byte
}

// NewMmap creates an mmap-backed allocator.
func NewMmap() (*MmapAllocator, error) {
	return &MmapAllocator{
		pageSize: uintptr(os.Getpagesize()),
		live:     make(map[uintptr][]byte),
	}, nil
}

// AllocateRaw maps size bytes (rounded up to whole pages) of zeroed,
// page-aligned memory. Alignments beyond the page size are unsupported.
func (m *MmapAllocator) AllocateRaw(size, align uintptr) (Block, error) {
	if size == 0 {
		return EmptyBlock(), nil
	}
	if !arith.IsPowerOfTwo(align) || align > m.pageSize {
		return EmptyBlock(), ErrUnsupportedAlignment
	}

	length := arith.AlignUp(size, m.pageSize)
	data, err := unix.Mmap(-1, 0, int(length),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return EmptyBlock(), ErrOutOfMemory
	}

	ptr := unsafe.Pointer(&data[0])
	m.live[uintptr(ptr)] = data
	return NewBlock(ptr, size, align), nil
}

// ReallocateRaw resizes in place while newSize fits the block's mapping
// (mappings are whole pages, so small growth is often free); otherwise it
// maps fresh pages and copies.
func (m *MmapAllocator) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	if newSize == 0 {
		m.DeallocateRaw(b)
		return EmptyBlock(), nil
	}
	if b.IsEmpty() {
		return EmptyBlock(), ErrUnsupportedAlignment
	}

	if data, ok := m.live[b.Addr()]; ok && newSize <= uintptr(len(data)) {
		return NewBlock(b.Ptr(), newSize, b.Align()), nil
	}

	nb, err := m.AllocateRaw(newSize, b.Align())
	if err != nil {
		return EmptyBlock(), err
	}
	copy(nb.Bytes(), b.Bytes())
	m.DeallocateRaw(b)
	return nb, nil
}

// DeallocateRaw unmaps the block's pages.
func (m *MmapAllocator) DeallocateRaw(b Block) {
	if b.IsEmpty() {
		return
	}
	data, ok := m.live[b.Addr()]
	if !ok {
		return
	}
	delete(m.live, b.Addr())
	// Double-unmap cannot happen here; the table entry is gone.
	_ = unix.Munmap(data)
}

// OwnsBlock reports whether b was issued by this allocator and is still
// live.
func (m *MmapAllocator) OwnsBlock(b Block) bool {
	if b.IsEmpty() {
		return false
	}
	_, ok := m.live[b.Addr()]
	return ok
}

// Compile-time interface check
var _ OwningAllocator = (*MmapAllocator)(nil)
