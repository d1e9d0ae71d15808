package alloc

// NullAllocator always fails. It never issues a block, so any block reaching
// its DeallocateRaw is a contract violation and panics. Useful as a terminal
// constituent in allocator chains and as a forced-failure stand-in for
// tests.
type NullAllocator struct{}

// NewNull creates a NullAllocator.
func NewNull() NullAllocator { return NullAllocator{} }

// AllocateRaw always fails with ErrOutOfMemory.
func (NullAllocator) AllocateRaw(size, align uintptr) (Block, error) {
	return EmptyBlock(), ErrOutOfMemory
}

// ReallocateRaw always fails with ErrOutOfMemory; the caller keeps b.
func (NullAllocator) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	return EmptyBlock(), ErrOutOfMemory
}

// DeallocateRaw panics: nothing this allocator ever issued can legitimately
// reach it.
func (NullAllocator) DeallocateRaw(b Block) {
	panic("alloc: deallocate through NullAllocator")
}

// OwnsBlock always reports false.
func (NullAllocator) OwnsBlock(b Block) bool { return false }

// Compile-time interface check
var _ OwningAllocator = NullAllocator{}
