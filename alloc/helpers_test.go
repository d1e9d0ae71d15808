package alloc

// recordingAllocator wraps a HeapAllocator and counts operations. Setting
// failAfter >= 0 makes allocation fail once that many blocks were issued,
// for exercising mid-construction failure paths.
type recordingAllocator struct {
	inner     *HeapAllocator
	allocs    int
	deallocs  int
	failAfter int // -1 = never fail
}

func newRecorder() *recordingAllocator {
	return &recordingAllocator{inner: NewHeap(), failAfter: -1}
}

func (r *recordingAllocator) AllocateRaw(size, align uintptr) (Block, error) {
	if r.failAfter >= 0 && r.allocs >= r.failAfter {
		return EmptyBlock(), ErrOutOfMemory
	}
	b, err := r.inner.AllocateRaw(size, align)
	if err == nil && !b.IsEmpty() {
		r.allocs++
	}
	return b, err
}

func (r *recordingAllocator) ReallocateRaw(b Block, newSize uintptr) (Block, error) {
	return r.inner.ReallocateRaw(b, newSize)
}

func (r *recordingAllocator) DeallocateRaw(b Block) {
	if !b.IsEmpty() {
		r.deallocs++
	}
	r.inner.DeallocateRaw(b)
}

func (r *recordingAllocator) OwnsBlock(b Block) bool {
	return r.inner.OwnsBlock(b)
}

var _ OwningAllocator = (*recordingAllocator)(nil)

// traceEvent captures one TraceSink callback for assertions.
type traceEvent struct {
	op      string
	block   Block
	old     Block
	err     error
	size    uintptr
	align   uintptr
	reqSize uintptr
}

// recordingSink collects every TraceSink callback in order.
type recordingSink struct {
	events []traceEvent
}

func (s *recordingSink) AllocateSuccess(b Block) {
	s.events = append(s.events, traceEvent{op: "alloc", block: b})
}

func (s *recordingSink) AllocateFail(err error, size, align uintptr) {
	s.events = append(s.events, traceEvent{op: "alloc-fail", err: err, size: size, align: align})
}

func (s *recordingSink) Deallocate(b Block) {
	s.events = append(s.events, traceEvent{op: "dealloc", block: b})
}

func (s *recordingSink) ReallocateSuccess(old, moved Block) {
	s.events = append(s.events, traceEvent{op: "realloc", old: old, block: moved})
}

func (s *recordingSink) ReallocateFail(err error, b Block, reqSize uintptr) {
	s.events = append(s.events, traceEvent{op: "realloc-fail", err: err, old: b, reqSize: reqSize})
}

var _ TraceSink = (*recordingSink)(nil)
