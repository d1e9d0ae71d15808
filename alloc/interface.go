package alloc

// Allocator is the capability every allocation strategy implements.
//
// Implementations in this package:
//   - HeapAllocator: leaf, backed by the Go heap
//   - MmapAllocator: leaf, backed by anonymous memory mappings
//   - NullAllocator: leaf, always fails
//   - Scoped: hierarchical bump arena
//   - FreeList: fixed-block-size pool
//   - Fallback, Proxy: composites over other allocators
//
// Allocators are not goroutine-safe. Sharing one instance across goroutines
// requires external synchronization.
type Allocator interface {
	// AllocateRaw reserves size bytes aligned to align (a power of two).
	// A zero size returns the empty block without consulting the backing
	// resource. A non-nil error is the only failure mode; a successful
	// call never returns an invalid non-empty block.
	AllocateRaw(size, align uintptr) (Block, error)

	// ReallocateRaw resizes b in place or moves it, preserving alignment
	// and as much of the original contents as fits. On error the caller's
	// block is untouched and remains owned by the caller. A zero newSize
	// deallocates b and returns the empty block. The empty block cannot
	// be grown; that fails with ErrUnsupportedAlignment.
	ReallocateRaw(b Block, newSize uintptr) (Block, error)

	// DeallocateRaw releases a block obtained from this same allocator
	// instance. Deallocating the empty block is a no-op.
	DeallocateRaw(b Block)
}

// BlockOwner is an optional capability: an allocator that can answer whether
// a block originated from it. Used for ownership-based routing (Fallback).
type BlockOwner interface {
	OwnsBlock(b Block) bool
}

// OwningAllocator combines Allocator and BlockOwner. Fallback requires its
// constituents to satisfy it.
type OwningAllocator interface {
	Allocator
	BlockOwner
}
