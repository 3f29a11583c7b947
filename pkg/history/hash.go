package history

import "strings"

// HashType controls how the application path is written into the URL
// fragment under hash mode.
type HashType string

const (
	// HashSlash writes fragments as "#/users/5".
	HashSlash HashType = "slash"

	// HashNoSlash writes fragments as "#users/5".
	HashNoSlash HashType = "noslash"
)

// Hash adapts an underlying history so that the application path lives in
// the URL fragment. The document path of the underlying history never
// changes; every Push/Replace rewrites only the fragment.
type Hash struct {
	inner    History
	hashType HashType
}

var _ History = (*Hash)(nil)

// NewHash wraps an underlying history in hash-mode encoding.
func NewHash(inner History, hashType HashType) *Hash {
	if hashType == "" {
		hashType = HashSlash
	}
	return &Hash{inner: inner, hashType: hashType}
}

// encode turns an app full path into the fragment representation. An
// app-level "#" is percent-escaped so the outer URL keeps exactly one
// fragment marker.
func (h *Hash) encode(path string) string {
	path = strings.ReplaceAll(path, "#", "%23")
	if h.hashType == HashNoSlash {
		return strings.TrimPrefix(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// decode turns a fragment back into an app full path.
func (h *Hash) decode(fragment string) string {
	fragment = strings.ReplaceAll(fragment, "%23", "#")
	if fragment == "" {
		return "/"
	}
	if !strings.HasPrefix(fragment, "/") {
		return "/" + fragment
	}
	return fragment
}

// appLocation converts an underlying entry to the app-visible location.
func (h *Hash) appLocation(inner Location) Location {
	loc := parseLocation(h.decode(inner.Hash))
	loc.Key = inner.Key
	loc.State = inner.State
	return loc
}

// Location returns the app-visible current entry.
func (h *Hash) Location() Location {
	return h.appLocation(h.inner.Location())
}

// Action returns the action that produced the current entry.
func (h *Hash) Action() Action { return h.inner.Action() }

// Push appends a new entry with the app path in the fragment.
func (h *Hash) Push(path string) {
	h.inner.Push(h.docPath() + "#" + h.encode(path))
}

// Replace swaps the current entry with the app path in the fragment.
func (h *Hash) Replace(path string) {
	h.inner.Replace(h.docPath() + "#" + h.encode(path))
}

// docPath returns the fixed document path of the underlying history.
func (h *Hash) docPath() string {
	return h.inner.Location().Path
}

// Go moves through the underlying stack.
func (h *Hash) Go(n int) { h.inner.Go(n) }

// Back is Go(-1).
func (h *Hash) Back() { h.inner.Back() }

// Forward is Go(1).
func (h *Hash) Forward() { h.inner.Forward() }

// Listen registers a listener that observes app-visible locations.
func (h *Hash) Listen(fn Listener) func() {
	return h.inner.Listen(func(loc Location, action Action) {
		fn(h.appLocation(loc), action)
	})
}
