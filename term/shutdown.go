package term

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// shutdownRegistry centralizes the "restore the tty on process exit"
// hook spec.md §4.3/§9 requires, instead of scattering ad hoc signal.Notify
// calls across devices (the teacher registers its own SIGWINCH handler
// per-Screen in tui/screen.go; this generalizes that into one process-wide
// registry so every live device's restoration runs exactly once on exit).
type shutdownRegistry struct {
	mu      sync.Mutex
	hooks   map[ListenerHandle]func()
	nextID  uint64
	started bool
	sigCh   chan os.Signal
}

var globalShutdown = &shutdownRegistry{hooks: make(map[ListenerHandle]func())}

// register adds a dispose hook, returning a handle that must be passed to
// unregister when the device is disposed normally (so it isn't run
// twice).
func (r *shutdownRegistry) register(hook func()) ListenerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	h := ListenerHandle(r.nextID)
	r.hooks[h] = hook
	r.ensureStartedLocked()
	return h
}

func (r *shutdownRegistry) unregister(h ListenerHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hooks, h)
}

func (r *shutdownRegistry) ensureStartedLocked() {
	if r.started {
		return
	}
	r.started = true
	r.sigCh = make(chan os.Signal, 1)
	signal.Notify(r.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go r.run()
}

func (r *shutdownRegistry) run() {
	sig := <-r.sigCh
	r.mu.Lock()
	hooks := make([]func(), 0, len(r.hooks))
	for _, h := range r.hooks {
		hooks = append(hooks, h)
	}
	r.mu.Unlock()

	for _, h := range hooks {
		func() {
			defer func() { recover() }()
			h()
		}()
	}

	signal.Stop(r.sigCh)
	if n, ok := sig.(syscall.Signal); ok {
		os.Exit(128 + int(n))
	}
	os.Exit(1)
}
