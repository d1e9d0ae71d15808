//go:build !unix

package alloc

// MmapAllocator requires anonymous memory mappings, which this platform
// does not provide. The type exists so cross-platform code compiles; the
// constructor reports the missing support.
type MmapAllocator struct{}

// NewMmap fails: anonymous mappings are unavailable on this platform.
func NewMmap() (*MmapAllocator, error) {
	return nil, specificErr("anonymous memory mappings unsupported on this platform")
}

// AllocateRaw always fails.
func (m *MmapAllocator) AllocateRaw(size, align uintptr) (Block, error) {
	return EmptyBlock(), ErrOutOfMemory
}

// ReallocateRaw always fails; the caller keeps b.
func (m *MmapAllocator) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	return EmptyBlock(), ErrOutOfMemory
}

// DeallocateRaw is a no-op; this allocator never issues blocks.
func (m *MmapAllocator) DeallocateRaw(b Block) {}

// OwnsBlock always reports false.
func (m *MmapAllocator) OwnsBlock(b Block) bool { return false }

// Compile-time interface check
var _ OwningAllocator = (*MmapAllocator)(nil)
