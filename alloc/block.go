package alloc

import (
	"fmt"
	"unsafe"
)

// Block describes a region of memory handed out by an Allocator: its start
// address, its size in bytes, and the alignment it was requested with.
//
// Blocks are plain values with move semantics: at any time exactly one owner
// is responsible for returning a block to the allocator that issued it.
// Passing the same block to two DeallocateRaw calls, or touching its memory
// after deallocation, is undefined behavior. The library does not detect
// these misuses.
type Block struct {
	ptr   unsafe.Pointer
	size  uintptr
	align uintptr
}

// NewBlock builds a block descriptor over an existing region.
// align must be a power of two and ptr must already satisfy it.
func NewBlock(ptr unsafe.Pointer, size, align uintptr) Block {
	return Block{ptr: ptr, size: size, align: align}
}

// EmptyBlock returns the canonical empty block: zero size, no backing
// storage. Its address must never be dereferenced.
func EmptyBlock() Block {
	return Block{}
}

// Ptr returns the start of the block. nil for the empty block.
func (b Block) Ptr() unsafe.Pointer { return b.ptr }

// Addr returns the start of the block as an integer address.
func (b Block) Addr() uintptr { return uintptr(b.ptr) }

// Size returns the block's size in bytes.
func (b Block) Size() uintptr { return b.size }

// Align returns the alignment the block was issued with.
func (b Block) Align() uintptr { return b.align }

// IsEmpty reports whether this is the empty block.
func (b Block) IsEmpty() bool { return b.size == 0 }

// Bytes returns the block's memory as a byte slice. The slice is only valid
// while the block is live. Panics on the empty block.
func (b Block) Bytes() []byte {
	if b.IsEmpty() {
		panic("alloc: Bytes on empty block")
	}
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// end returns the first address past the block.
func (b Block) end() uintptr { return uintptr(b.ptr) + b.size }

// String formats the block for trace output.
func (b Block) String() string {
	if b.IsEmpty() {
		return "Block(empty)"
	}
	return fmt.Sprintf("Block(%#x, size=%d, align=%d)", b.Addr(), b.size, b.align)
}
