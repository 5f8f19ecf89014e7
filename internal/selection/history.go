package selection

import (
	"context"
	"sync"
)

// History is an in-memory Navigator with back and forward.
type History struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[uint64]func(string)
	nextID    uint64
}

// NewHistory starts a history at initial.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}, listeners: make(map[uint64]func(string))}
}

// Path returns the current path.
func (h *History) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Push navigates to path, dropping any forward entries. Pushing the
// current path is a no-op.
func (h *History) Push(path string) {
	h.mu.Lock()
	if h.entries[h.index] == path {
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries[:h.index+1], path)
	h.index++
	fns := h.listenersLocked()
	h.mu.Unlock()
	notify(fns, path)
}

// Back moves one entry back and reports whether it could.
func (h *History) Back() bool {
	return h.move(-1)
}

// Forward moves one entry forward and reports whether it could.
func (h *History) Forward() bool {
	return h.move(1)
}

func (h *History) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	path := h.entries[next]
	fns := h.listenersLocked()
	h.mu.Unlock()
	notify(fns, path)
	return true
}

// Listen calls fn after every path change.
func (h *History) Listen(fn func(path string)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *History) listenersLocked() []func(string) {
	fns := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(string), path string) {
	for _, fn := range fns {
		fn(path)
	}
}

// Follow keeps c in step with h: every path change re-resolves the
// selection. Failures go to onErr when it is set.
func Follow(ctx context.Context, c *Context, h *History, onErr func(error)) func() {
	return h.Listen(func(path string) {
		if err := c.SyncPath(ctx, path); err != nil && onErr != nil {
			onErr(err)
		}
	})
}
