package history

import "sync"

// Memory is an in-process history stack. It is the default history for
// routers that are not attached to a browser, and the workhorse of the
// test suite.
type Memory struct {
	mu        sync.Mutex
	entries   []Location
	index     int
	action    Action
	listeners listenerSet
}

var _ History = (*Memory)(nil)

// NewMemory creates a memory history with a single root entry.
func NewMemory(initial ...string) *Memory {
	start := "/"
	if len(initial) > 0 && initial[0] != "" {
		start = initial[0]
	}
	return &Memory{
		entries: []Location{parseLocation(start)},
		action:  ActionPop,
	}
}

// Location returns the current entry.
func (h *Memory) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Action returns the action that produced the current entry.
func (h *Memory) Action() Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.action
}

// Push appends a new entry, discarding forward history.
func (h *Memory) Push(path string) {
	h.mu.Lock()
	loc := parseLocation(path)
	h.entries = append(h.entries[:h.index+1], loc)
	h.index = len(h.entries) - 1
	h.action = ActionPush
	h.mu.Unlock()
	h.listeners.notify(loc, ActionPush)
}

// Replace swaps the current entry.
func (h *Memory) Replace(path string) {
	h.mu.Lock()
	loc := parseLocation(path)
	h.entries[h.index] = loc
	h.action = ActionReplace
	h.mu.Unlock()
	h.listeners.notify(loc, ActionReplace)
}

// Go moves n entries through the stack, clamped to the boundaries.
// Moving to a different entry notifies listeners with ActionPop.
func (h *Memory) Go(n int) {
	h.mu.Lock()
	target := h.index + n
	if target < 0 {
		target = 0
	}
	if target > len(h.entries)-1 {
		target = len(h.entries) - 1
	}
	if target == h.index {
		h.mu.Unlock()
		return
	}
	h.index = target
	h.action = ActionPop
	loc := h.entries[h.index]
	h.mu.Unlock()
	h.listeners.notify(loc, ActionPop)
}

// Back is Go(-1).
func (h *Memory) Back() { h.Go(-1) }

// Forward is Go(1).
func (h *Memory) Forward() { h.Go(1) }

// Listen registers a change listener.
func (h *Memory) Listen(fn Listener) func() {
	return h.listeners.add(fn)
}

// Len returns the number of entries in the stack.
func (h *Memory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
