package term

import (
	"sync"
	"sync/atomic"

	"tcore/buffer"
	"tcore/log"
)

// resizeRegistry centralizes resize-listener bookkeeping shared by every
// Device implementation, grounded on the teacher's
// signal.Notify(SIGWINCH)/OnResize callback in
// AhnafCodes-basementui/go/tui/screen.go, generalized into the explicit
// add/remove registry spec.md §9 calls for (no weak references needed in
// Go: removal is always explicit via ListenerHandle).
type resizeRegistry struct {
	mu        sync.Mutex
	listeners map[ListenerHandle]ResizeListener
	nextID    uint64
	sink      log.Sink
}

func newResizeRegistry(sink log.Sink) *resizeRegistry {
	return &resizeRegistry{listeners: make(map[ListenerHandle]ResizeListener), sink: sink}
}

func (r *resizeRegistry) add(l ResizeListener) ListenerHandle {
	h := ListenerHandle(atomic.AddUint64(&r.nextID, 1))
	r.mu.Lock()
	r.listeners[h] = l
	r.mu.Unlock()
	return h
}

func (r *resizeRegistry) remove(h ListenerHandle) {
	r.mu.Lock()
	delete(r.listeners, h)
	r.mu.Unlock()
}

// notify invokes every registered listener with newSize. A listener that
// panics is logged and does not prevent the remaining listeners from
// running (spec.md §7 propagation policy).
func (r *resizeRegistry) notify(newSize buffer.Size) {
	r.mu.Lock()
	snapshot := make([]ResizeListener, 0, len(r.listeners))
	for _, l := range r.listeners {
		snapshot = append(snapshot, l)
	}
	r.mu.Unlock()

	for _, l := range snapshot {
		r.invokeSafely(l, newSize)
	}
}

func (r *resizeRegistry) invokeSafely(l ResizeListener, newSize buffer.Size) {
	defer func() {
		if rec := recover(); rec != nil {
			r.sink.Error("resize listener panicked", nil, "recovered", rec)
		}
	}()
	l(newSize)
}
