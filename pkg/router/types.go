package router

import (
	"context"

	"github.com/wayfind-go/wayfind/pkg/history"
)

// Component is the opaque view value a matched route renders. The router
// never inspects it; it only carries it from configuration to consumers.
type Component = any

// ComponentLoader is a pending asynchronous component. Loaders for the
// matched chain are resolved concurrently before a navigation commits,
// and each result is cached per route node for the router's lifetime.
type ComponentLoader func(ctx context.Context) (Component, error)

// PropsMode selects how a matched route derives the props passed to its
// component.
type PropsMode int

const (
	// PropsNone disables props derivation.
	PropsNone PropsMode = iota

	// PropsParams passes the record's params map as props.
	PropsParams

	// PropsStatic passes a fixed object.
	PropsStatic

	// PropsResolved invokes a resolver with the route.
	PropsResolved
)

// PropsResolver computes props from a resolved route.
type PropsResolver func(route *Route) map[string]any

// Props is the compiled props declaration of a route node.
type Props struct {
	Mode     PropsMode
	Static   map[string]any
	Resolver PropsResolver
}

// RedirectResolver computes a redirect target from the route the
// navigation would otherwise resolve to. The returned value is a path
// string or a RawLocation.
type RedirectResolver func(to *Route) any

// Prefab is a caller-authored route description, unvalidated until the
// router compiles it into a RouteConfig tree.
type Prefab struct {
	// Path is the node's declared path suffix. Required for roots; an
	// empty child path inherits the parent's compiled path verbatim.
	// The literal "*" is the terminal wildcard.
	Path string

	// Name enables name-based resolution. Must be unique across the tree.
	Name string

	// Component is a Component, a ComponentLoader, or nil. Nil means
	// pass-through and is valid only when the node has children.
	Component any

	// Redirect is a path string, a RawLocation, or a RedirectResolver.
	Redirect any

	// Meta is an opaque key-value bag carried onto matched records.
	Meta map[string]any

	// Props is nil (disabled), bool true (derive from params), a
	// map[string]any (static), or a PropsResolver.
	Props any

	// Children are nested route prefabs.
	Children []Prefab
}

// RawLocation is a structured navigation request.
type RawLocation struct {
	// Path is the target path; may embed a query string and hash.
	Path string

	// Name selects name-based resolution when non-empty.
	Name string

	// Hash is the target fragment, with or without the leading "#".
	Hash string

	// Query entries are merged over any query embedded in Path.
	Query map[string]string

	// Params feed name-based reverse URL generation.
	Params map[string]any

	// Replace requests a history replace instead of a push.
	Replace bool
}

// Location is a normalized navigation request: an absolute, query- and
// hash-free base path plus the extracted pieces. Locations are built per
// navigation and discarded once a Route supersedes them.
type Location struct {
	Name   string
	Path   string
	Hash   string
	Query  map[string]string
	Params map[string]any
	Action history.Action
}
