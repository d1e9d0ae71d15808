package alloc

import (
	"unsafe"

	"github.com/joshuapare/memkit/internal/arith"
)

// FreeList is a pool of uniform fixed-size blocks. Free blocks are threaded
// into a singly linked list through their own leading machine word, so the
// pool carries no per-block metadata of its own. Allocation pops the head,
// deallocation pushes it back: both O(1).
//
// Every pool block is requested individually from the upstream allocator at
// machine-word alignment, which caps the alignment this pool can serve.
type FreeList struct {
	upstream  Allocator
	blockSize uintptr

	// head is the first free block; each free block's leading word holds
	// the next one (nil terminates).
	head unsafe.Pointer

	// acquired indexes every block address obtained from upstream, for
	// OwnsBlock routing and for Close.
	acquired map[uintptr]struct{}

	closed bool
}

// NewFreeList creates a pool of numBlocks blocks of blockSize bytes each,
// all drawn from upstream. blockSize must hold at least one machine word
// (the free-list link). A mid-construction failure releases the blocks
// already acquired before returning the upstream error.
func NewFreeList(upstream Allocator, blockSize, numBlocks uintptr) (*FreeList, error) {
	if blockSize < arith.PtrSize {
		return nil, specificErr("block size %d below machine word size", blockSize)
	}

	fl := &FreeList{
		upstream:  upstream,
		blockSize: blockSize,
		acquired:  make(map[uintptr]struct{}, numBlocks),
	}
	for i := uintptr(0); i < numBlocks; i++ {
		b, err := upstream.AllocateRaw(blockSize, arith.PtrAlign)
		if err != nil {
			fl.Close()
			return nil, err
		}
		fl.acquired[b.Addr()] = struct{}{}
		fl.push(b.Ptr())
	}
	return fl, nil
}

// push threads p onto the head of the free list.
func (fl *FreeList) push(p unsafe.Pointer) {
	*(*unsafe.Pointer)(p) = fl.head
	fl.head = p
}

// pop unthreads and returns the head of the free list, or nil if empty.
func (fl *FreeList) pop() unsafe.Pointer {
	p := fl.head
	if p != nil {
		fl.head = *(*unsafe.Pointer)(p)
	}
	return p
}

// AllocateRaw pops the first free block. The returned block is sized as
// requested; its true capacity is always blockSize. Requests larger than
// blockSize fail with ErrOutOfMemory; alignment beyond the machine word
// fails with ErrUnsupportedAlignment.
func (fl *FreeList) AllocateRaw(size, align uintptr) (Block, error) {
	if size == 0 {
		return EmptyBlock(), nil
	}
	if size > fl.blockSize {
		return EmptyBlock(), ErrOutOfMemory
	}
	if !arith.IsPowerOfTwo(align) || align > arith.PtrAlign {
		return EmptyBlock(), ErrUnsupportedAlignment
	}

	p := fl.pop()
	if p == nil {
		return EmptyBlock(), ErrOutOfMemory
	}
	return NewBlock(p, size, align), nil
}

// ReallocateRaw succeeds without moving as long as newSize fits the pool's
// block capacity; otherwise it fails and the caller keeps the block.
func (fl *FreeList) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	if newSize == 0 {
		fl.DeallocateRaw(b)
		return EmptyBlock(), nil
	}
	if b.IsEmpty() {
		return EmptyBlock(), ErrUnsupportedAlignment
	}
	if newSize > fl.blockSize {
		return EmptyBlock(), ErrOutOfMemory
	}
	return NewBlock(b.Ptr(), newSize, b.Align()), nil
}

// DeallocateRaw pushes the block back onto the free list.
func (fl *FreeList) DeallocateRaw(b Block) {
	if b.IsEmpty() {
		return
	}
	fl.push(b.Ptr())
}

// OwnsBlock reports whether b is one of this pool's blocks.
func (fl *FreeList) OwnsBlock(b Block) bool {
	if b.IsEmpty() {
		return false
	}
	_, ok := fl.acquired[b.Addr()]
	return ok
}

// Close walks the free list and returns every currently free block to the
// upstream allocator. Blocks still outstanding are the caller's error and
// are leaked from this pool's perspective. Safe to call more than once.
func (fl *FreeList) Close() {
	if fl.closed {
		return
	}
	fl.closed = true
	for p := fl.head; p != nil; {
		next := *(*unsafe.Pointer)(p)
		fl.upstream.DeallocateRaw(NewBlock(p, fl.blockSize, arith.PtrAlign))
		p = next
	}
	fl.head = nil
}

// Compile-time interface check
var _ OwningAllocator = (*FreeList)(nil)
