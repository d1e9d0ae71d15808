package arith

// Pointer and alignment arithmetic shared by the allocator implementations.
// Addresses are carried as uintptr offsets; converting them back to pointers
// is the caller's job and must stay inside a live block.

import "unsafe"

// PtrSize is the size of a machine word in bytes.
const PtrSize = unsafe.Sizeof(uintptr(0))

// PtrAlign is the natural alignment of a machine word. It is the maximal
// alignment the leaf allocators hand out by default.
const PtrAlign = unsafe.Alignof(uintptr(0))

// AlignUp returns n aligned up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 8)  = 16
func AlignUp(n, align uintptr) uintptr {
	mask := align - 1
	return (n + mask) &^ mask
}

// IsPowerOfTwo reports whether n is a power of two. Zero is not.
func IsPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// Padding returns the number of bytes needed to bring n up to align.
// align must be a power of two.
func Padding(n, align uintptr) uintptr {
	return AlignUp(n, align) - n
}
