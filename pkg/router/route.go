package router

import (
	"github.com/wayfind-go/wayfind/pkg/history"
	"github.com/wayfind-go/wayfind/pkg/urlutil"
)

// RouteRecord is one matched occurrence of a RouteConfig, restricted to
// the parameters that node declares. Records are created fresh on every
// match; only resolved async components are cached across navigations.
type RouteRecord struct {
	Path      string
	Name      string
	Component any
	Meta      map[string]any
	Props     Props
	Redirect  any

	// Params holds only the keys this record's config declares.
	Params map[string]any

	config *RouteConfig
}

// Config returns the compiled route node this record was matched from.
func (r *RouteRecord) Config() *RouteConfig { return r.config }

// newRecord builds a record for a config with an already-restricted
// parameter map.
func newRecord(cfg *RouteConfig, params map[string]any) *RouteRecord {
	return &RouteRecord{
		Path:      cfg.Path,
		Name:      cfg.Name,
		Component: cfg.Component,
		Meta:      cfg.Meta,
		Props:     cfg.Props,
		Redirect:  cfg.Redirect,
		Params:    params,
		config:    cfg,
	}
}

// recordFromGroups builds a record from matcher capture groups: group
// i+1 populates the i-th declared parameter key, as a string.
func recordFromGroups(cfg *RouteConfig, groups []string) *RouteRecord {
	keys := cfg.ParamKeys()
	var params map[string]any
	if len(keys) > 0 {
		params = make(map[string]any, len(keys))
		for i, k := range keys {
			if i+1 < len(groups) {
				params[k.Name] = groups[i+1]
			}
		}
	}
	return newRecord(cfg, params)
}

// restrictParams narrows a caller-supplied parameter map to the keys a
// config declares. Values keep their original types.
func restrictParams(cfg *RouteConfig, params map[string]any) map[string]any {
	keys := cfg.ParamKeys()
	if len(keys) == 0 {
		return nil
	}
	restricted := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := params[k.Name]; ok {
			restricted[k.Name] = v
		}
	}
	return restricted
}

// copyRecord is the explicit copy constructor for RouteRecord. Maps are
// copied; function-typed fields (component, props resolver, redirect
// resolver) are preserved by reference since they are not structurally
// copyable.
func copyRecord(r *RouteRecord) *RouteRecord {
	if r == nil {
		return nil
	}
	return &RouteRecord{
		Path:      r.Path,
		Name:      r.Name,
		Component: r.Component,
		Meta:      copyAnyMap(r.Meta),
		Props: Props{
			Mode:     r.Props.Mode,
			Static:   copyAnyMap(r.Props.Static),
			Resolver: r.Props.Resolver,
		},
		Redirect: r.Redirect,
		Params:   copyAnyMap(r.Params),
		config:   r.config,
	}
}

// Route is the resolution result exposed to consumers. Matched holds the
// root-to-leaf record chain; the last record's fields are promoted onto
// the Route itself.
type Route struct {
	Name     string
	Path     string
	FullPath string
	Hash     string
	Query    map[string]string
	Params   map[string]any
	Meta     map[string]any
	Redirect any
	Matched  []*RouteRecord
	Action   history.Action
}

// newRoute merges a normalized location with a matched record chain.
// Matches must be non-empty and ordered root to leaf.
func newRoute(loc *Location, matches []*RouteRecord) *Route {
	leaf := matches[len(matches)-1]
	return &Route{
		Name:     leaf.Name,
		Path:     loc.Path,
		FullPath: urlutil.FormatURL(loc.Path, loc.Query, loc.Hash),
		Hash:     loc.Hash,
		Query:    loc.Query,
		Params:   leaf.Params,
		Meta:     leaf.Meta,
		Redirect: leaf.Redirect,
		Matched:  matches,
		Action:   loc.Action,
	}
}

// copyRoute is the explicit copy constructor for Route: field-by-field,
// never a generic deep clone, so function-typed fields survive by
// reference.
func copyRoute(r *Route) *Route {
	if r == nil {
		return nil
	}
	matched := make([]*RouteRecord, len(r.Matched))
	for i, rec := range r.Matched {
		matched[i] = copyRecord(rec)
	}
	return &Route{
		Name:     r.Name,
		Path:     r.Path,
		FullPath: r.FullPath,
		Hash:     r.Hash,
		Query:    copyStringMap(r.Query),
		Params:   copyAnyMap(r.Params),
		Meta:     copyAnyMap(r.Meta),
		Redirect: r.Redirect,
		Matched:  matched,
		Action:   r.Action,
	}
}

// MergedMeta collects the meta bags of the matched chain root to leaf,
// with deeper entries overriding shallower ones.
func (r *Route) MergedMeta() map[string]any {
	merged := make(map[string]any)
	for _, rec := range r.Matched {
		for k, v := range rec.Meta {
			merged[k] = v
		}
	}
	return merged
}

func copyAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
