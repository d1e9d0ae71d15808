package alloc

import "unsafe"

// Finalizer is implemented by values that need teardown logic before their
// backing memory is returned. Owned.Free and OwnedAny.Free invoke it in
// place, while the block is still live.
type Finalizer interface {
	Finalize()
}

// Owned binds a constructed value's lifetime to the block backing it. The
// handle exclusively owns the value, the block, and a reference to the
// allocator that issued the block; Free tears all three down together.
//
// MakePlace zeroes the reserved storage, so a freshly placed value is never
// read from stale bytes even when the allocator reuses memory.
type Owned[T any] struct {
	item  *T
	block Block
	a     Allocator
	done  bool
}

// New reserves a block sized and aligned for T from a, moves val into it,
// and returns the owning handle.
func New[T any](a Allocator, val T) (*Owned[T], error) {
	p, err := MakePlace[T](a)
	if err != nil {
		return nil, err
	}
	return p.Finalize(val), nil
}

// Get returns the owned value. Panics after Free or Take.
func (o *Owned[T]) Get() *T {
	if o.done {
		panic("alloc: use of freed Owned value")
	}
	return o.item
}

// AsBlock returns a descriptor of the backing block. The handle still owns
// it; the caller must not deallocate through it.
func (o *Owned[T]) AsBlock() Block { return o.block }

// Free runs the value's Finalize (if implemented) while the memory is still
// live, then returns the block to the allocator. Exactly once: further calls
// are no-ops.
func (o *Owned[T]) Free() {
	if o.done {
		return
	}
	o.done = true
	if f, ok := any(o.item).(Finalizer); ok {
		f.Finalize()
	}
	o.a.DeallocateRaw(o.block)
}

// Take moves the value out of the handle and returns the block to the
// allocator without running Finalize - the caller now owns the value itself.
// The handle is dead afterwards.
func (o *Owned[T]) Take() T {
	if o.done {
		panic("alloc: Take on freed Owned value")
	}
	o.done = true
	val := *o.item
	o.a.DeallocateRaw(o.block)
	return val
}

// Place is reserved-but-uninitialized storage for one T: the first phase of
// placement construction. Either finalize it into an Owned handle, or
// discard it; a Place dropped unfinalized must be discarded so its block
// returns to the allocator.
type Place[T any] struct {
	a     Allocator
	block Block
	done  bool
}

// MakePlace reserves a block sized and aligned for T from a without writing
// anything into it.
func MakePlace[T any](a Allocator) (*Place[T], error) {
	var zero T
	size := unsafe.Sizeof(zero)
	align := unsafe.Alignof(zero)
	if size == 0 {
		// Zero-sized T still needs a real address behind the handle.
		size = 1
	}
	b, err := a.AllocateRaw(size, align)
	if err != nil {
		return nil, err
	}
	// Pool and arena allocators reuse memory without clearing it.
	clear(b.Bytes())
	return &Place[T]{a: a, block: b}, nil
}

// Ptr exposes the reserved storage so a large value can be constructed
// directly in place, field by field, without an intermediate stack copy.
// The storage starts zeroed. Panics once the place is finalized or
// discarded.
func (p *Place[T]) Ptr() *T {
	if p.done {
		panic("alloc: Ptr on finalized or discarded Place")
	}
	return (*T)(p.block.Ptr())
}

// Finalize writes val into the reserved storage and converts the place into
// an owning handle. This and Commit are the only paths by which a Place's
// block becomes an owned live value.
func (p *Place[T]) Finalize(val T) *Owned[T] {
	item := p.Ptr()
	*item = val
	return p.commit(item)
}

// Commit converts the place into an owning handle without writing anything,
// for callers that constructed the value through Ptr.
func (p *Place[T]) Commit() *Owned[T] {
	return p.commit(p.Ptr())
}

func (p *Place[T]) commit(item *T) *Owned[T] {
	p.done = true
	return &Owned[T]{item: item, block: p.block, a: p.a}
}

// Discard returns an unfinalized place's block to the allocator without
// running any finalizer - the memory was never initialized with a value.
// No-op after Finalize, Commit, or a previous Discard.
func (p *Place[T]) Discard() {
	if p.done {
		return
	}
	p.done = true
	p.a.DeallocateRaw(p.block)
}

// OwnedAny is an ownership handle over a value behind a dynamic type. Use
// Erase to build one from a concrete handle and Downcast to recover the
// concrete type.
type OwnedAny struct {
	item  any // always a *T for the erased T
	block Block
	a     Allocator
	done  bool
}

// Erase converts a concrete handle into a dynamic one, transferring
// ownership of the value and its block. The original handle is dead
// afterwards.
func Erase[T any](o *Owned[T]) *OwnedAny {
	if o.done {
		panic("alloc: Erase on freed Owned value")
	}
	o.done = true
	return &OwnedAny{item: o.item, block: o.block, a: o.a}
}

// Get returns the owned value as a dynamic reference (a *T for the erased
// T). Panics after Free or a successful Downcast.
func (o *OwnedAny) Get() any {
	if o.done {
		panic("alloc: use of freed OwnedAny value")
	}
	return o.item
}

// Free runs the value's Finalize (if implemented), then returns the block to
// the allocator. Exactly once.
func (o *OwnedAny) Free() {
	if o.done {
		return
	}
	o.done = true
	if f, ok := o.item.(Finalizer); ok {
		f.Finalize()
	}
	o.a.DeallocateRaw(o.block)
}

// Downcast attempts to recover the concrete type behind a dynamic handle.
// On success ownership transfers to the returned handle: same value, same
// block, no copy, and the dynamic handle is dead. On mismatch it returns
// (nil, false) and the dynamic handle stays completely intact - nothing is
// finalized or deallocated.
func Downcast[T any](o *OwnedAny) (*Owned[T], bool) {
	if o.done {
		panic("alloc: Downcast on freed OwnedAny value")
	}
	item, ok := o.item.(*T)
	if !ok {
		return nil, false
	}
	o.done = true
	return &Owned[T]{item: item, block: o.block, a: o.a}, true
}
