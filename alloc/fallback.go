package alloc

// Fallback composes a main and a fallback allocator. Allocation is tried on
// main first; reallocation and deallocation are routed to whichever
// constituent owns the block, which is why both must satisfy
// OwningAllocator.
type Fallback struct {
	main     OwningAllocator
	fallback OwningAllocator
}

// NewFallback creates a fallback chain over the two allocators.
func NewFallback(main, fallback OwningAllocator) *Fallback {
	return &Fallback{main: main, fallback: fallback}
}

// AllocateRaw tries main, then fallback. Only the fallback's error is
// surfaced when both fail.
func (f *Fallback) AllocateRaw(size, align uintptr) (Block, error) {
	if b, err := f.main.AllocateRaw(size, align); err == nil {
		return b, nil
	}
	return f.fallback.AllocateRaw(size, align)
}

// ReallocateRaw routes to the constituent that owns b. A block neither owns
// did not originate here; that fails with ErrAllocatorSpecific and the
// caller keeps the block.
func (f *Fallback) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	switch {
	case f.main.OwnsBlock(b):
		return f.main.ReallocateRaw(b, newSize)
	case f.fallback.OwnsBlock(b):
		return f.fallback.ReallocateRaw(b, newSize)
	default:
		return EmptyBlock(), specificErr("neither main nor fallback owns this block")
	}
}

// DeallocateRaw routes to the owning constituent. A block neither owns is
// silently ignored.
func (f *Fallback) DeallocateRaw(b Block) {
	switch {
	case f.main.OwnsBlock(b):
		f.main.DeallocateRaw(b)
	case f.fallback.OwnsBlock(b):
		f.fallback.DeallocateRaw(b)
	}
}

// OwnsBlock reports whether either constituent owns b.
func (f *Fallback) OwnsBlock(b Block) bool {
	return f.main.OwnsBlock(b) || f.fallback.OwnsBlock(b)
}

// Compile-time interface check
var _ OwningAllocator = (*Fallback)(nil)
