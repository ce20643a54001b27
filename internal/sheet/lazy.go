package sheet

import (
	"sync"
	"sync/atomic"
)

// Lazy is a deferred Sheet. The computation runs at most once; later calls to
// Force return the cached result, error included.
type Lazy struct {
	once   sync.Once
	fn     func() (*Sheet, error)
	sheet  *Sheet
	err    error
	forced atomic.Bool
}

// NewLazy wraps fn in a compute-once handle.
func NewLazy(fn func() (*Sheet, error)) *Lazy {
	return &Lazy{fn: fn}
}

// Ready returns a handle that is already forced to s.
func Ready(s *Sheet) *Lazy {
	l := &Lazy{sheet: s}
	l.once.Do(func() {})
	l.forced.Store(true)
	return l
}

// Force runs the deferred computation on first use and returns its result.
func (l *Lazy) Force() (*Sheet, error) {
	l.once.Do(func() {
		l.sheet, l.err = l.fn()
		l.fn = nil
		l.forced.Store(true)
	})
	return l.sheet, l.err
}

// Forced reports whether Force has completed. It is safe to call while
// another goroutine is forcing the handle.
func (l *Lazy) Forced() bool {
	return l.forced.Load()
}
