// Package routefile loads route tables from YAML files. A route file
// declares the same tree shape as a slice of router.Prefab values, with
// components referred to by name and bound at load time.
package routefile

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wayfind-go/wayfind/internal/errors"
	"github.com/wayfind-go/wayfind/pkg/router"
)

// File is the top-level YAML document.
type File struct {
	Routes []Node `yaml:"routes"`
}

// Node is one route declaration.
type Node struct {
	Path      string         `yaml:"path"`
	Name      string         `yaml:"name,omitempty"`
	Component string         `yaml:"component,omitempty"`
	Redirect  *Redirect      `yaml:"redirect,omitempty"`
	Meta      map[string]any `yaml:"meta,omitempty"`
	Props     any            `yaml:"props,omitempty"`
	Children  []Node         `yaml:"children,omitempty"`
}

// Redirect accepts either a plain string path or a structured target.
type Redirect struct {
	Path   string         `yaml:"path,omitempty"`
	Name   string         `yaml:"name,omitempty"`
	Params map[string]any `yaml:"params,omitempty"`
	Query  map[string]string `yaml:"query,omitempty"`
}

// UnmarshalYAML lets a redirect be written as a bare scalar.
func (r *Redirect) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.Path = value.Value
		return nil
	}
	type plain Redirect
	return value.Decode((*plain)(r))
}

// Load reads a route file and binds component names through components.
// A name absent from the map is kept as its string form, which lets
// tooling inspect a table without the application's component set.
func Load(path string, components map[string]router.Component) ([]router.Prefab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("W003").
				WithDetail("Route file not found: " + path).
				WithSuggestion("Check the path or create the file")
		}
		return nil, errors.New("W004").Wrap(err)
	}
	return Parse(data, components)
}

// Parse decodes YAML route-table bytes. See Load.
func Parse(data []byte, components map[string]router.Component) ([]router.Prefab, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.New("W004").Wrap(err)
	}
	if len(file.Routes) == 0 {
		return nil, errors.New("W004").
			WithDetail("The route file declares no routes")
	}
	prefabs := make([]router.Prefab, 0, len(file.Routes))
	for _, n := range file.Routes {
		prefabs = append(prefabs, toPrefab(n, components))
	}
	return prefabs, nil
}

func toPrefab(n Node, components map[string]router.Component) router.Prefab {
	p := router.Prefab{
		Path: n.Path,
		Name: n.Name,
		Meta: n.Meta,
	}
	if n.Component != "" {
		if c, ok := components[n.Component]; ok {
			p.Component = c
		} else {
			p.Component = n.Component
		}
	}
	if n.Redirect != nil {
		p.Redirect = toRedirect(*n.Redirect)
	}
	if n.Props != nil {
		p.Props = n.Props
	}
	for _, child := range n.Children {
		p.Children = append(p.Children, toPrefab(child, components))
	}
	return p
}

func toRedirect(r Redirect) any {
	if r.Name == "" && r.Params == nil && r.Query == nil {
		return r.Path
	}
	return router.RawLocation{
		Path:   r.Path,
		Name:   r.Name,
		Params: r.Params,
		Query:  r.Query,
	}
}
