// Package history abstracts the navigation history stack the router
// synchronizes with.
//
// Two implementations ship with the package: Memory, an in-process stack
// used by tests and server-held sessions, and Hash, an adapter that stores
// the application path in the URL fragment of an underlying history. A
// third, browser-backed implementation lives in pkg/bridge.
package history

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wayfind-go/wayfind/pkg/urlutil"
)

// Action identifies how a history location came to be current.
type Action string

const (
	ActionPush    Action = "PUSH"
	ActionReplace Action = "REPLACE"
	ActionPop     Action = "POP"
)

// Location is one entry in the history stack.
type Location struct {
	// Path is the base path, query- and hash-free.
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Hash is the fragment without the leading "#".
	Hash string

	// Key identifies the entry across pops. Opaque to callers.
	Key string

	// State is opaque per-entry state supplied at push/replace time.
	State any
}

// FullPath reassembles the location into a single URL string.
func (l Location) FullPath() string {
	return urlutil.FormatURL(l.Path, urlutil.ParseQuery(l.Query), l.Hash)
}

// Listener observes history changes.
type Listener func(loc Location, action Action)

// History is the external history surface the router consumes.
type History interface {
	// Location returns the current entry.
	Location() Location

	// Action returns the action that produced the current entry.
	Action() Action

	// Push appends a new entry for the given full path and makes it
	// current, discarding any forward entries.
	Push(path string)

	// Replace swaps the current entry for the given full path.
	Replace(path string)

	// Go moves n entries through the stack (negative = back). Moves past
	// either end are clamped to the boundary entry.
	Go(n int)

	// Back is Go(-1).
	Back()

	// Forward is Go(1).
	Forward()

	// Listen registers a change listener and returns an idempotent
	// unsubscribe function.
	Listen(fn Listener) func()
}

// parseLocation splits a full path into a Location. Malformed inputs
// (multiple separators) keep the raw string as the path; history is a
// dumb stack and leaves validation to the router.
func parseLocation(fullPath string) Location {
	path, query, hash, err := urlutil.SplitURL(fullPath)
	if err != nil {
		return Location{Path: fullPath, Key: uuid.NewString()}
	}
	return Location{Path: path, Query: query, Hash: hash, Key: uuid.NewString()}
}

// listenerSet is a keyed set of listeners with idempotent removal.
type listenerSet struct {
	mu sync.Mutex
	m  map[uuid.UUID]Listener
}

func (s *listenerSet) add(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[uuid.UUID]Listener)
	}
	key := uuid.New()
	s.m[key] = fn
	return func() {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
	}
}

func (s *listenerSet) notify(loc Location, action Action) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.m))
	for _, fn := range s.m {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(loc, action)
	}
}
