package router

import (
	navErrors "github.com/wayfind-go/wayfind/internal/errors"
)

// matchPath resolves a candidate path against the tree depth-first in
// sibling order, returning the root-to-leaf record chain of the first
// complete match, or nil.
//
// Non-leaf matchers are prefix matchers, so children are recursed into
// with the same candidate path: a leaf descendant re-consumes the whole
// remaining path. A matching node with children whose subtree produces no
// match is backtracked past; a matching leaf is an acceptance point.
func matchPath(configs []*RouteConfig, path string) []*RouteRecord {
	for _, cfg := range configs {
		groups, ok := cfg.match(path)
		if !ok {
			continue
		}
		if len(cfg.Children) == 0 {
			return []*RouteRecord{recordFromGroups(cfg, groups)}
		}
		if rest := matchPath(cfg.Children, path); rest != nil {
			chain := make([]*RouteRecord, 0, len(rest)+1)
			chain = append(chain, recordFromGroups(cfg, groups))
			return append(chain, rest...)
		}
	}
	return nil
}

// findByName searches the whole tree depth-first for an exact name
// match. Names are expected to be unique; the first hit wins.
func findByName(configs []*RouteConfig, name string) *RouteConfig {
	for _, cfg := range configs {
		if cfg.Name == name {
			return cfg
		}
		if found := findByName(cfg.Children, name); found != nil {
			return found
		}
	}
	return nil
}

// matchName resolves a named route: it reverse-generates the concrete
// path from the caller's params, then walks the parent chain producing
// one record per ancestor, each restricted to its own declared keys.
// The returned chain is ordered root to leaf.
func matchName(cfg *RouteConfig, params map[string]any) (string, []*RouteRecord, error) {
	path, err := cfg.buildPath(params)
	if err != nil {
		return "", nil, navErrors.New("W022").
			WithDetail("route %q: %v", cfg.Name, err).
			Wrap(err)
	}

	var chain []*RouteRecord
	for node := cfg; node != nil; node = node.Parent {
		chain = append(chain, newRecord(node, restrictParams(node, params)))
	}
	// chain is leaf-to-root; reverse in place.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return path, chain, nil
}
