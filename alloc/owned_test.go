package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bomb counts how many times its finalizer runs.
type bomb struct {
	fuse *int
}

func (b *bomb) Finalize() { *b.fuse++ }

type widget struct {
	id   int
	name [16]byte
}

func Test_Owned_FreeRunsFinalizerOnce(t *testing.T) {
	h := NewHeap()
	fuse := 0

	o, err := New(h, bomb{fuse: &fuse})
	require.NoError(t, err)
	block := o.AsBlock()
	require.True(t, h.OwnsBlock(block))

	o.Free()
	assert.Equal(t, 1, fuse)
	assert.False(t, h.OwnsBlock(block), "block must return to the allocator")

	// Free is idempotent.
	o.Free()
	assert.Equal(t, 1, fuse)
}

// bombOrder asserts at finalize time that its backing block has not yet been
// returned to the allocator.
type bombOrder struct {
	h     *HeapAllocator
	block Block
	fuse  *int
}

func (b *bombOrder) Finalize() {
	if b.h.OwnsBlock(b.block) {
		*b.fuse++
	}
}

func Test_Owned_FinalizerBeforeDeallocate(t *testing.T) {
	h := NewHeap()
	fuse := 0

	o, err := New(h, bombOrder{h: h, fuse: &fuse})
	require.NoError(t, err)
	o.Get().block = o.AsBlock()

	// The finalizer observes its own backing block still live; fuse only
	// advances if teardown ran before deallocation.
	o.Free()
	assert.Equal(t, 1, fuse)
}

func Test_Owned_GetAfterFreePanics(t *testing.T) {
	o, err := New(NewHeap(), 42)
	require.NoError(t, err)
	o.Free()
	assert.Panics(t, func() { o.Get() })
}

func Test_Owned_MutateThroughHandle(t *testing.T) {
	o, err := New(NewHeap(), widget{id: 7})
	require.NoError(t, err)
	defer o.Free()

	o.Get().id = 9
	copy(o.Get().name[:], "gizmo")
	assert.Equal(t, 9, o.Get().id)
	assert.Equal(t, "gizmo", string(o.Get().name[:5]))
}

func Test_Owned_TakeSkipsFinalizer(t *testing.T) {
	h := NewHeap()
	fuse := 0
	o, err := New(h, bomb{fuse: &fuse})
	require.NoError(t, err)
	block := o.AsBlock()

	val := o.Take()
	assert.Equal(t, &fuse, val.fuse)
	assert.Equal(t, 0, fuse, "Take must not run the finalizer")
	assert.False(t, h.OwnsBlock(block))
	assert.Panics(t, func() { o.Take() })
}

func Test_Owned_ZeroSizedValue(t *testing.T) {
	o, err := New(NewHeap(), struct{}{})
	require.NoError(t, err)
	require.NotNil(t, o.Get())
	o.Free()
}

func Test_Place_FinalizeConverts(t *testing.T) {
	h := NewHeap()
	p, err := MakePlace[widget](h)
	require.NoError(t, err)

	o := p.Finalize(widget{id: 3})
	assert.Equal(t, 3, o.Get().id)
	assert.True(t, h.OwnsBlock(o.AsBlock()))

	// A finalized place no longer controls the block.
	p.Discard()
	assert.True(t, h.OwnsBlock(o.AsBlock()))
	assert.Panics(t, func() { p.Ptr() })

	o.Free()
	assert.False(t, h.OwnsBlock(o.AsBlock()))
}

func Test_Place_DiscardDeallocatesWithoutFinalize(t *testing.T) {
	h := NewHeap()
	p, err := MakePlace[bomb](h)
	require.NoError(t, err)
	block := p.block
	require.True(t, h.OwnsBlock(block))

	p.Discard()
	assert.False(t, h.OwnsBlock(block))
	p.Discard() // no-op
}

func Test_Place_InPlaceConstruction(t *testing.T) {
	// Large enough that building on the stack and copying would hurt;
	// the value is constructed directly in the reserved block.
	type big struct {
		data [1 << 16]byte
	}

	h := NewHeap()
	p, err := MakePlace[big](h)
	require.NoError(t, err)

	ptr := p.Ptr()
	for i := range ptr.data {
		ptr.data[i] = byte(i % 251)
	}
	o := p.Commit()
	defer o.Free()

	assert.Equal(t, byte(100%251), o.Get().data[100])
	assert.Equal(t, uintptr(1<<16), o.AsBlock().Size())
}

func Test_Place_ZeroesReusedMemory(t *testing.T) {
	s, err := NewScoped(NewHeap(), 128)
	require.NoError(t, err)
	defer s.Close()

	// Dirty the arena, rewind, then place over the same bytes.
	b, err := s.AllocateRaw(16, 8)
	require.NoError(t, err)
	for i := range b.Bytes() {
		b.Bytes()[i] = 0xFF
	}
	s.DeallocateRaw(b)

	p, err := MakePlace[widget](s)
	require.NoError(t, err)
	o := p.Commit()
	defer o.Free()
	assert.Equal(t, 0, o.Get().id)
	assert.Equal(t, [16]byte{}, o.Get().name)
}

func Test_Downcast_WrongTypeLeavesHandleIntact(t *testing.T) {
	h := NewHeap()
	fuse := 0
	o, err := New(h, bomb{fuse: &fuse})
	require.NoError(t, err)

	dyn := Erase(o)
	assert.Panics(t, func() { o.Get() }, "ownership moved into the dynamic handle")

	wrong, ok := Downcast[widget](dyn)
	assert.False(t, ok)
	assert.Nil(t, wrong)

	// The dynamic handle is completely intact: value untouched, block
	// still owned, nothing finalized.
	assert.Equal(t, 0, fuse)
	require.IsType(t, (*bomb)(nil), dyn.Get())
	assert.True(t, h.OwnsBlock(dyn.block))

	dyn.Free()
	assert.Equal(t, 1, fuse)
}

func Test_Downcast_RightTypeTransfersOwnership(t *testing.T) {
	h := NewHeap()
	fuse := 0
	o, err := New(h, bomb{fuse: &fuse})
	require.NoError(t, err)
	block := o.AsBlock()

	dyn := Erase(o)
	back, ok := Downcast[bomb](dyn)
	require.True(t, ok)
	assert.Equal(t, block, back.AsBlock(), "same block, no copy")
	assert.Panics(t, func() { dyn.Get() }, "ownership moved out of the dynamic handle")

	// Finalizer runs exactly once, through the concrete handle.
	back.Free()
	dyn.Free()
	assert.Equal(t, 1, fuse)
	assert.False(t, h.OwnsBlock(block))
}

func Test_OwnedAny_FreeRunsFinalizer(t *testing.T) {
	h := NewHeap()
	fuse := 0
	o, err := New(h, bomb{fuse: &fuse})
	require.NoError(t, err)

	dyn := Erase(o)
	dyn.Free()
	assert.Equal(t, 1, fuse)
	dyn.Free()
	assert.Equal(t, 1, fuse)
}

func Test_Owned_FromArena(t *testing.T) {
	s, err := NewScoped(NewHeap(), 1024)
	require.NoError(t, err)
	defer s.Close()

	fuse := 0
	o, err := New(s, bomb{fuse: &fuse})
	require.NoError(t, err)
	assert.True(t, s.OwnsBlock(o.AsBlock()))

	used := s.Used()
	o.Free()
	assert.Equal(t, 1, fuse)
	assert.Less(t, s.Used(), used, "most recent handle frees back into the arena")
}
