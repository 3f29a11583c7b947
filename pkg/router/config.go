package router

import (
	navErrors "github.com/wayfind-go/wayfind/internal/errors"
	"github.com/wayfind-go/wayfind/pkg/pathpattern"
	"github.com/wayfind-go/wayfind/pkg/urlutil"
)

// WildcardPath is the sentinel path that matches any remaining path.
// A wildcard node must be terminal and should be the last sibling, since
// matching is first-match in sibling order.
const WildcardPath = "*"

// RouteConfig is a compiled node in the route tree. The tree is built
// once at router construction and never mutated afterwards.
type RouteConfig struct {
	// Path is the composed absolute path: the join of the parent's
	// compiled path and this node's declared suffix.
	Path string

	// Name is the unique name for name-based resolution, or empty.
	Name string

	// Component is the node's view: a Component, a ComponentLoader, or
	// nil for pass-through nodes.
	Component any

	// Redirect is a path string, RawLocation, or RedirectResolver, or nil.
	Redirect any

	// Meta is the opaque key-value bag declared on the prefab.
	Meta map[string]any

	// Props is the compiled props declaration.
	Props Props

	// Children are the compiled child nodes, in declaration order.
	Children []*RouteConfig

	// Parent is the back-reference up the tree; nil for roots.
	Parent *RouteConfig

	// id keys the async component cache.
	id uint64

	// pattern is the compiled matcher/generator; nil for the wildcard.
	pattern *pathpattern.Pattern
}

// Wildcard reports whether this node is the catch-all sentinel.
func (c *RouteConfig) Wildcard() bool { return c.Path == WildcardPath }

// ParamKeys returns the parameter keys this node declares, in order.
func (c *RouteConfig) ParamKeys() []pathpattern.Param {
	if c.pattern == nil {
		return nil
	}
	return c.pattern.Params()
}

// match attempts this node's matcher against a candidate path, returning
// the capture groups (index 0 = whole match).
func (c *RouteConfig) match(path string) ([]string, bool) {
	if c.Wildcard() {
		return []string{path}, true
	}
	return c.pattern.Match(path)
}

// buildPath reverse-generates a concrete path from a parameter map.
func (c *RouteConfig) buildPath(params map[string]any) (string, error) {
	if c.Wildcard() {
		return "/", nil
	}
	return c.pattern.Build(params)
}

// treeBuilder compiles prefabs into RouteConfig trees, reporting
// per-node configuration errors and skipping the offending subtree so a
// single malformed route never aborts the whole build.
type treeBuilder struct {
	nextID uint64
	report func(error)
}

// build compiles a prefab slice under the given parent (nil for roots).
func (b *treeBuilder) build(prefabs []Prefab, parent *RouteConfig) []*RouteConfig {
	configs := make([]*RouteConfig, 0, len(prefabs))
	for i := range prefabs {
		cfg, err := b.buildNode(&prefabs[i], parent)
		if err != nil {
			b.report(err)
			continue
		}
		configs = append(configs, cfg)
	}
	return configs
}

// buildNode validates and compiles a single prefab, then recurses into
// its children with the finalized node as parent.
func (b *treeBuilder) buildNode(p *Prefab, parent *RouteConfig) (*RouteConfig, error) {
	if p.Path == "" && parent == nil {
		return nil, navErrors.New("W001").WithDetail("root route is missing a path")
	}
	if p.Component == nil && p.Redirect == nil && len(p.Children) == 0 {
		return nil, navErrors.New("W001").
			WithDetail("route %q has no component, no redirect, and no children", p.Path).
			WithSuggestion("a pass-through node is only valid when it has children")
	}
	props, err := compileProps(p)
	if err != nil {
		return nil, err
	}
	if err := validateRedirect(p); err != nil {
		return nil, err
	}

	cfg := &RouteConfig{
		Name:      p.Name,
		Component: p.Component,
		Redirect:  p.Redirect,
		Meta:      p.Meta,
		Props:     props,
		Parent:    parent,
	}
	b.nextID++
	cfg.id = b.nextID

	if p.Path == WildcardPath {
		if len(p.Children) > 0 {
			return nil, navErrors.New("W002").WithDetail("wildcard route declares %d children", len(p.Children))
		}
		cfg.Path = WildcardPath
		return cfg, nil
	}

	if parent != nil {
		cfg.Path = urlutil.JoinPaths(parent.Path, p.Path)
	} else {
		cfg.Path = urlutil.EnsureLeadingSlash(p.Path)
	}

	// Non-leaf patterns match permissively as prefixes; leaves must
	// consume the complete remaining path.
	pattern, err := pathpattern.Compile(cfg.Path, pathpattern.Options{End: len(p.Children) == 0})
	if err != nil {
		return nil, navErrors.New("W001").
			WithDetail("route %q: %v", cfg.Path, err).
			Wrap(err)
	}
	cfg.pattern = pattern

	cfg.Children = b.build(p.Children, cfg)
	return cfg, nil
}

// compileProps normalizes the prefab's props declaration.
func compileProps(p *Prefab) (Props, error) {
	switch v := p.Props.(type) {
	case nil:
		return Props{Mode: PropsNone}, nil
	case bool:
		if !v {
			return Props{Mode: PropsNone}, nil
		}
		return Props{Mode: PropsParams}, nil
	case map[string]any:
		return Props{Mode: PropsStatic, Static: v}, nil
	case PropsResolver:
		return Props{Mode: PropsResolved, Resolver: v}, nil
	case func(route *Route) map[string]any:
		return Props{Mode: PropsResolved, Resolver: v}, nil
	default:
		return Props{}, navErrors.New("W001").
			WithDetail("route %q props must be bool, map, or resolver; got %T", p.Path, p.Props)
	}
}

// validateRedirect checks the redirect declaration's shape.
func validateRedirect(p *Prefab) error {
	switch p.Redirect.(type) {
	case nil, string, RawLocation, *RawLocation, RedirectResolver, func(to *Route) any:
		return nil
	default:
		return navErrors.New("W001").
			WithDetail("route %q redirect must be string, RawLocation, or resolver; got %T", p.Path, p.Redirect)
	}
}
