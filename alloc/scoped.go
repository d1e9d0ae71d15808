package alloc

import (
	"unsafe"

	"github.com/joshuapare/memkit/internal/arith"
)

// Scoped is a hierarchical bump arena: a cross between a stack allocator and
// a plain linear allocator. A root instance reserves one backing block from
// an upstream allocator and hands out sub-blocks by advancing a cursor -
// O(1), no search, no per-block bookkeeping.
//
// Individual blocks are reclaimed only in strict most-recent-first order
// (DeallocateRaw rewinds the cursor for the last allocation and is a no-op
// for anything else). Everything else is reclaimed at once when the root is
// closed.
//
// Scope runs a body with a nested instance sharing the same backing range;
// while the nested scope is active the parent refuses to allocate. Nested
// instances never release the backing memory; only the root's Close returns
// it upstream, after all values allocated inside have had their chance to
// run finalizers.
type Scoped struct {
	upstream Allocator
	backing  Block

	// base is the start of the backing range; start, cur and limit are
	// offsets from it. Nested instances share base/limit; their start and
	// cur begin at the parent's cursor.
	base  unsafe.Pointer
	start uintptr
	cur   uintptr
	limit uintptr

	root   bool
	scoped bool // a nested scope derived from this instance is active
	closed bool
}

// NewScoped creates a root arena backed by size bytes from upstream.
// The backing block is requested at machine-word alignment.
func NewScoped(upstream Allocator, size uintptr) (*Scoped, error) {
	b, err := upstream.AllocateRaw(size, arith.PtrAlign)
	if err != nil {
		return nil, err
	}
	return &Scoped{
		upstream: upstream,
		backing:  b,
		base:     b.Ptr(),
		start:    0,
		cur:      0,
		limit:    b.Size(),
		root:     true,
	}, nil
}

// AllocateRaw bumps the cursor forward to the requested alignment and
// reserves size bytes. Fails with ErrAllocatorSpecific while a nested scope
// is active, ErrOutOfMemory when the backing range is exhausted.
func (s *Scoped) AllocateRaw(size, align uintptr) (Block, error) {
	if s.scoped {
		return EmptyBlock(), specificErr("allocate on an actively scoped arena")
	}
	if size == 0 {
		return EmptyBlock(), nil
	}
	if !arith.IsPowerOfTwo(align) {
		return EmptyBlock(), ErrUnsupportedAlignment
	}

	curAddr := uintptr(s.base) + s.cur
	off := s.cur + arith.Padding(curAddr, align)
	if off+size > s.limit || off+size < off {
		return EmptyBlock(), ErrOutOfMemory
	}

	ptr := unsafe.Add(s.base, off)
	s.cur = off + size
	return NewBlock(ptr, size, align), nil
}

// ReallocateRaw resizes the most recently allocated block in place by moving
// the cursor. Any other block is moved to fresh space at the cursor and its
// old region abandoned for the remainder of the arena's lifetime.
func (s *Scoped) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	if s.scoped {
		return EmptyBlock(), specificErr("reallocate on an actively scoped arena")
	}
	if newSize == 0 {
		s.DeallocateRaw(b)
		return EmptyBlock(), nil
	}
	if b.IsEmpty() {
		return EmptyBlock(), ErrUnsupportedAlignment
	}

	if s.isLast(b) {
		// Fast path: grow or shrink in place, no copy.
		start := b.Addr() - uintptr(s.base)
		if start+newSize > s.limit {
			return EmptyBlock(), ErrOutOfMemory
		}
		s.cur = start + newSize
		return NewBlock(b.Ptr(), newSize, b.Align()), nil
	}

	nb, err := s.AllocateRaw(newSize, b.Align())
	if err != nil {
		return EmptyBlock(), err
	}
	copy(nb.Bytes(), b.Bytes())
	return nb, nil
}

// DeallocateRaw rewinds the cursor when b is the most recent allocation.
// For any other block it is a no-op; that memory is reused only when the
// root is closed.
func (s *Scoped) DeallocateRaw(b Block) {
	if b.IsEmpty() || s.scoped {
		return
	}
	if s.isLast(b) {
		s.cur = b.Addr() - uintptr(s.base)
	}
}

// isLast reports whether b is the most recent allocation still outstanding.
func (s *Scoped) isLast(b Block) bool {
	return b.end() == uintptr(s.base)+s.cur
}

// Scope calls body with a nested arena that shares this instance's backing
// range and starts allocating at the current cursor. While body runs, this
// instance refuses to allocate. The nested arena's allocations are abandoned
// wholesale when body returns; values placed in it must be finalized inside
// body. Returns body's error, or ErrAllocatorSpecific if a nested scope is
// already active.
func (s *Scoped) Scope(body func(*Scoped) error) error {
	if s.scoped {
		return specificErr("arena is already scoped")
	}

	nested := &Scoped{
		upstream: s.upstream,
		backing:  s.backing,
		base:     s.base,
		start:    s.cur,
		cur:      s.cur,
		limit:    s.limit,
		root:     false,
	}

	s.scoped = true
	// The flag must clear even when body panics.
	defer func() { s.scoped = false }()

	return body(nested)
}

// Close releases the backing block to the upstream allocator. Only the root
// instance frees memory; closing a nested instance is a no-op for the
// backing range. Safe to call more than once.
func (s *Scoped) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.root && !s.backing.IsEmpty() {
		s.upstream.DeallocateRaw(s.backing)
	}
}

// OwnsBlock reports whether b's address lies within this instance's slice
// of the backing range. A nested instance owns only blocks allocated at or
// after its own start.
func (s *Scoped) OwnsBlock(b Block) bool {
	if b.IsEmpty() {
		return false
	}
	addr := b.Addr()
	return addr >= uintptr(s.base)+s.start && addr < uintptr(s.base)+s.limit
}

// Used returns the number of backing bytes this instance has consumed so
// far, including alignment padding and abandoned regions.
func (s *Scoped) Used() uintptr { return s.cur - s.start }

// Remaining returns the number of backing bytes still available.
func (s *Scoped) Remaining() uintptr { return s.limit - s.cur }

// Cap returns the size of the backing range available to this instance.
func (s *Scoped) Cap() uintptr { return s.limit - s.start }

// Compile-time interface check
var _ OwningAllocator = (*Scoped)(nil)
