package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory indicates the allocator could not satisfy the request.
	// Recoverable: the caller may retry elsewhere, e.g. via Fallback.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrUnsupportedAlignment indicates the request violates a structural
	// constraint of the strategy, e.g. an over-aligned FreeList request or
	// growing the empty block (whose alignment is unknown).
	ErrUnsupportedAlignment = errors.New("alloc: unsupported alignment")

	// ErrAllocatorSpecific is the base of strategy-specific misuse errors,
	// e.g. a Fallback receiving a block neither constituent owns. Match
	// with errors.Is; the wrapped message carries the reason.
	ErrAllocatorSpecific = errors.New("alloc: allocator misuse")
)

// specificErr wraps ErrAllocatorSpecific with a reason.
func specificErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrAllocatorSpecific}, args...)...)
}
