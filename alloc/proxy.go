package alloc

// TraceSink receives the outcome of every operation a Proxy forwards. In
// practice this is an output stream, a data collector, or a test recorder.
//
// Sinks observe; they cannot fail or alter an allocation. A sink that needs
// to report its own errors (e.g. a write failure) must swallow them.
type TraceSink interface {
	// AllocateSuccess is called after a successful allocation.
	AllocateSuccess(b Block)
	// AllocateFail is called after a failed allocation.
	AllocateFail(err error, size, align uintptr)

	// Deallocate is called when a block is deallocated.
	Deallocate(b Block)

	// ReallocateSuccess is called after a successful reallocation.
	ReallocateSuccess(old, moved Block)
	// ReallocateFail is called after a failed reallocation.
	ReallocateFail(err error, b Block, reqSize uintptr)
}

// Proxy wraps a delegate allocator and reports every operation's outcome to
// a TraceSink before returning. The delegate's results pass through
// unchanged; errors are never swallowed or masked.
type Proxy struct {
	delegate Allocator
	sink     TraceSink
}

// NewProxy wraps delegate so every operation is reported to sink.
func NewProxy(delegate Allocator, sink TraceSink) *Proxy {
	return &Proxy{delegate: delegate, sink: sink}
}

// AllocateRaw forwards to the delegate and reports the outcome.
func (p *Proxy) AllocateRaw(size, align uintptr) (Block, error) {
	b, err := p.delegate.AllocateRaw(size, align)
	if err != nil {
		p.sink.AllocateFail(err, size, align)
		return EmptyBlock(), err
	}
	p.sink.AllocateSuccess(b)
	return b, nil
}

// ReallocateRaw forwards to the delegate and reports the outcome.
func (p *Proxy) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	old := b
	nb, err := p.delegate.ReallocateRaw(b, newSize)
	if err != nil {
		p.sink.ReallocateFail(err, old, newSize)
		return EmptyBlock(), err
	}
	p.sink.ReallocateSuccess(old, nb)
	return nb, nil
}

// DeallocateRaw reports the block, then forwards to the delegate.
func (p *Proxy) DeallocateRaw(b Block) {
	p.sink.Deallocate(b)
	p.delegate.DeallocateRaw(b)
}

// Compile-time interface check
var _ Allocator = (*Proxy)(nil)
