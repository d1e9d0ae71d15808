package alloc

import (
	"io"
	"log/slog"
)

// SlogSink adapts a *slog.Logger as a TraceSink. Successful operations are
// logged at debug level, failures at warn. Logging is best-effort: handler
// errors are slog's to deal with and never reach the allocation path.
type SlogSink struct {
	log *slog.Logger
}

// NewSlogSink creates a sink writing through l. A nil l discards all output.
func NewSlogSink(l *slog.Logger) *SlogSink {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SlogSink{log: l}
}

// AllocateSuccess logs the new block.
func (s *SlogSink) AllocateSuccess(b Block) {
	s.log.Debug("allocate",
		"addr", b.Addr(),
		"size", b.Size(),
		"align", b.Align())
}

// AllocateFail logs the failed request.
func (s *SlogSink) AllocateFail(err error, size, align uintptr) {
	s.log.Warn("allocate failed",
		"err", err,
		"size", size,
		"align", align)
}

// Deallocate logs the block being released.
func (s *SlogSink) Deallocate(b Block) {
	s.log.Debug("deallocate",
		"addr", b.Addr(),
		"size", b.Size(),
		"align", b.Align())
}

// ReallocateSuccess logs the old and new blocks.
func (s *SlogSink) ReallocateSuccess(old, moved Block) {
	s.log.Debug("reallocate",
		"old_addr", old.Addr(),
		"old_size", old.Size(),
		"new_addr", moved.Addr(),
		"new_size", moved.Size())
}

// ReallocateFail logs the failed request.
func (s *SlogSink) ReallocateFail(err error, b Block, reqSize uintptr) {
	s.log.Warn("reallocate failed",
		"err", err,
		"addr", b.Addr(),
		"size", b.Size(),
		"req_size", reqSize)
}

// Compile-time interface check
var _ TraceSink = (*SlogSink)(nil)
