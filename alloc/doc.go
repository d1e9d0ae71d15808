// Package alloc provides composable low-level memory allocators with a
// uniform Block-based interface.
//
// # Overview
//
// Every strategy implements the Allocator interface: AllocateRaw,
// ReallocateRaw and DeallocateRaw over Block values describing raw memory
// regions (address, size, alignment). Strategies compose: Scoped and
// FreeList draw their backing memory from an upstream Allocator you pass in,
// Fallback chains two allocators, and Proxy adds observability to any of
// them.
//
// # Allocators
//
// HeapAllocator: leaf allocator backed by the Go heap. Issued buffers are
// kept reachable internally so the raw addresses stay valid until the block
// is deallocated.
//
// MmapAllocator: leaf allocator backed by private anonymous memory mappings
// (unix only). Its memory lives outside the Go heap and is released eagerly
// with munmap.
//
// NullAllocator: always fails. Useful as a terminal in allocator chains and
// in tests.
//
// Scoped: a hierarchical bump arena. Allocation is an O(1) pointer bump over
// one backing block; individual blocks are reclaimed only in strict
// most-recent-first order, everything else is reclaimed at once when the
// root is closed. Scope() runs a body with a nested arena sharing the same
// backing range; the parent is disabled while the nested scope is active.
//
// Fragmentation note: reallocating a Scoped block that is not the most
// recent allocation moves it to fresh space and abandons the old region for
// the remainder of the arena's lifetime. This is intended behavior; arenas
// are not meant for reallocation-heavy workloads.
//
// FreeList: a pool of uniform fixed-size blocks threaded into a singly
// linked free list through the blocks' own leading word. Allocation and
// deallocation are O(1) list operations.
//
// Fallback: tries a main allocator, then a fallback; reallocation and
// deallocation are routed to whichever constituent owns the block.
//
// Proxy: forwards every call to a delegate and reports the outcome to a
// TraceSink. Tracing is best-effort and can never fail an allocation.
// SlogSink adapts a *slog.Logger as a sink.
//
// # Owned values
//
// Owned[T] binds a constructed value's lifetime to the block backing it:
// Free runs the value's finalizer (if it implements Finalizer) in place and
// then returns the block to its allocator, exactly once and in that order.
//
// Place[T] is a reserved-but-uninitialized storage token for two-phase
// placement construction: reserve with MakePlace, construct directly into
// Ptr() to avoid an intermediate stack copy for large values, then Commit.
// Discarding an unfinalized Place deallocates without running any finalizer.
//
// Erase converts an Owned[T] into an OwnedAny carrying the value behind a
// dynamic type; Downcast recovers the concrete type, transferring ownership
// on success and leaving the OwnedAny untouched on failure.
//
// # Error model
//
// Failures are returned, never thrown: ErrOutOfMemory (resource exhaustion),
// ErrUnsupportedAlignment (structural constraint), and ErrAllocatorSpecific
// (strategy misuse, wrapped with a reason; match with errors.Is). Contract
// violations that are documented preconditions - double deallocation, use
// after deallocation, deallocating through an allocator that never issued
// the block - are undefined behavior and not detected, with one exception:
// NullAllocator panics on any deallocation, since nothing it ever issued can
// legitimately reach it.
//
// # Pointers and the garbage collector
//
// Blocks are raw memory. Values stored in MmapAllocator-backed blocks are
// invisible to the garbage collector: a Go pointer stored there does not
// keep its target alive. Keep such values self-contained, or use
// HeapAllocator-backed memory, whose buffers the collector scans.
//
// # Thread safety
//
// No allocator in this package locks internally. An instance shared across
// goroutines needs external mutual exclusion. Within one goroutine,
// operations observe strict program order: a block freed by DeallocateRaw is
// immediately eligible for reuse by the next AllocateRaw on the same
// instance.
package alloc
