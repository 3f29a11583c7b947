package router

import (
	"sync"

	"github.com/google/uuid"
)

// RouteListener observes navigation lifecycle events with snapshots of
// the current and pending routes. Either snapshot may be nil (no current
// route before the first resolution).
type RouteListener func(current, pending *Route)

// ErrorListener observes navigation-time errors.
type ErrorListener func(err error)

// routeListenerSet is an unordered keyed set of route listeners. Every
// registration returns an idempotent unregister function.
type routeListenerSet struct {
	mu sync.Mutex
	m  map[uuid.UUID]RouteListener
}

func (s *routeListenerSet) add(fn RouteListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[uuid.UUID]RouteListener)
	}
	key := uuid.New()
	s.m[key] = fn
	return func() {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
	}
}

func (s *routeListenerSet) notify(current, pending *Route) {
	s.mu.Lock()
	fns := make([]RouteListener, 0, len(s.m))
	for _, fn := range s.m {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(current, pending)
	}
}

// errorListenerSet is the keyed set of error listeners.
type errorListenerSet struct {
	mu sync.Mutex
	m  map[uuid.UUID]ErrorListener
}

func (s *errorListenerSet) add(fn ErrorListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[uuid.UUID]ErrorListener)
	}
	key := uuid.New()
	s.m[key] = fn
	return func() {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
	}
}

func (s *errorListenerSet) notify(err error) {
	s.mu.Lock()
	fns := make([]ErrorListener, 0, len(s.m))
	for _, fn := range s.m {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}

// guardList is the ordered guard registry: registration order is
// execution order. Unregistering mid-flight does not affect a chain that
// has already been snapshotted.
type guardList struct {
	mu     sync.Mutex
	next   uint64
	order  []uint64
	guards map[uint64]Guard
}

func (l *guardList) add(g Guard) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.guards == nil {
		l.guards = make(map[uint64]Guard)
	}
	l.next++
	id := l.next
	l.order = append(l.order, id)
	l.guards[id] = g
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.guards[id]; !ok {
			return
		}
		delete(l.guards, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

// snapshot returns the registered guards in registration order.
func (l *guardList) snapshot() []Guard {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Guard, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.guards[id])
	}
	return out
}
