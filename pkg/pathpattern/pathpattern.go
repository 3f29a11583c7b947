// Package pathpattern compiles route path patterns into matchers and
// reverse URL generators.
//
// A pattern is an absolute path whose segments may declare named
// parameters:
//
//	/users/:id          matches one segment, any value
//	/users/:id(\d+)     matches one segment constrained by a sub-pattern
//	/files/static       literal segments match verbatim
//
// Compile produces a *Pattern that both recognizes candidate paths
// (extracting ordered capture groups) and rebuilds a concrete path from a
// parameter map. Matching can be end-anchored (the candidate must be fully
// consumed) or prefix-mode (the candidate may continue past the pattern at
// a segment boundary).
package pathpattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Param describes one named parameter declared by a pattern, with the
// optional sub-pattern that constrains its values.
type Param struct {
	Name    string
	Pattern string
}

// Options configures compilation.
type Options struct {
	// End anchors the matcher to the end of the candidate path. When
	// false the pattern acts as a prefix matcher: the candidate may
	// continue past the matched portion, but only at a "/" boundary.
	End bool
}

// Pattern is a compiled path pattern.
type Pattern struct {
	source string
	end    bool
	re     *regexp.Regexp
	params []Param

	// tplParts and tplParams interleave to rebuild a concrete path:
	// tplParts[0] + value(tplParams[0]) + tplParts[1] + ...
	tplParts []string

	// subRes holds a compiled validator per param (nil when the param has
	// no sub-pattern).
	subRes []*regexp.Regexp
}

// Compile parses and compiles a path pattern.
func Compile(pattern string, opts Options) (*Pattern, error) {
	if pattern == "" {
		return nil, fmt.Errorf("pathpattern: empty pattern")
	}
	p := &Pattern{source: pattern, end: opts.End}

	var re strings.Builder
	re.WriteString("^")

	rest := pattern
	part := strings.Builder{}
	for rest != "" {
		i := strings.IndexByte(rest, ':')
		if i < 0 {
			part.WriteString(rest)
			re.WriteString(regexp.QuoteMeta(rest))
			break
		}
		part.WriteString(rest[:i])
		re.WriteString(regexp.QuoteMeta(rest[:i]))
		rest = rest[i+1:]

		name := rest
		if j := strings.IndexAny(rest, "/("); j >= 0 && rest[j] == '/' {
			name = rest[:j]
			rest = rest[j:]
		} else if j >= 0 && rest[j] == '(' {
			name = rest[:j]
			rest = rest[j:]
		} else {
			rest = ""
		}
		if name == "" {
			return nil, fmt.Errorf("pathpattern: missing parameter name in %q", pattern)
		}

		sub := ""
		if strings.HasPrefix(rest, "(") {
			end := matchingParen(rest)
			if end < 0 {
				return nil, fmt.Errorf("pathpattern: unbalanced sub-pattern in %q", pattern)
			}
			sub = rest[1:end]
			rest = rest[end+1:]
		}

		group := sub
		if group == "" {
			group = "[^/]+"
		}
		// Named groups keep extraction stable even when a sub-pattern
		// declares capture groups of its own.
		re.WriteString(fmt.Sprintf("(?P<wf%d>%s)", len(p.params), group))

		var subRe *regexp.Regexp
		if sub != "" {
			var err error
			subRe, err = regexp.Compile("^(?:" + sub + ")$")
			if err != nil {
				return nil, fmt.Errorf("pathpattern: invalid sub-pattern for %q: %w", name, err)
			}
		}
		p.params = append(p.params, Param{Name: name, Pattern: sub})
		p.subRes = append(p.subRes, subRe)
		p.tplParts = append(p.tplParts, part.String())
		part.Reset()
	}
	p.tplParts = append(p.tplParts, part.String())

	if opts.End {
		re.WriteString("$")
	}
	compiled, err := regexp.Compile(re.String())
	if err != nil {
		return nil, fmt.Errorf("pathpattern: cannot compile %q: %w", pattern, err)
	}
	p.re = compiled
	return p, nil
}

// matchingParen returns the index of the ")" closing the "(" at s[0],
// or -1 when unbalanced.
func matchingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		case '\\':
			i++
		}
	}
	return -1
}

// Source returns the original pattern text.
func (p *Pattern) Source() string { return p.source }

// Params returns the declared parameters in pattern order.
func (p *Pattern) Params() []Param { return p.params }

// Match attempts the pattern against a candidate path. On success it
// returns the capture groups with index 0 holding the whole matched
// portion. In prefix mode (End false) the candidate may continue past the
// match, but only at a segment boundary.
func (p *Pattern) Match(path string) ([]string, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	if !p.end {
		rest := path[len(m[0]):]
		if rest != "" && !strings.HasPrefix(rest, "/") && !strings.HasSuffix(m[0], "/") {
			return nil, false
		}
	}
	groups := make([]string, 0, len(p.params)+1)
	groups = append(groups, m[0])
	for i := range p.params {
		groups = append(groups, m[p.re.SubexpIndex(fmt.Sprintf("wf%d", i))])
	}
	return groups, true
}

// Build produces a concrete path from a parameter map. Values are
// stringified with fmt. It fails when a declared parameter is absent or
// when a value does not satisfy the parameter's sub-pattern.
func (p *Pattern) Build(params map[string]any) (string, error) {
	var b strings.Builder
	for i, prm := range p.params {
		b.WriteString(p.tplParts[i])
		v, ok := params[prm.Name]
		if !ok {
			return "", fmt.Errorf("pathpattern: missing parameter %q for %q", prm.Name, p.source)
		}
		s := fmt.Sprintf("%v", v)
		if p.subRes[i] != nil && !p.subRes[i].MatchString(s) {
			return "", fmt.Errorf("pathpattern: parameter %q value %q does not match (%s)", prm.Name, s, prm.Pattern)
		}
		b.WriteString(s)
	}
	b.WriteString(p.tplParts[len(p.params)])
	return b.String(), nil
}
