// Package urlutil provides the pure string and URL helpers used by the
// routing engine: path predicates, path joining, and splitting a raw URL
// into its base path, query, and hash components.
//
// Query keys and values are treated as opaque strings. Nothing in this
// package percent-encodes or decodes; callers that need encoding apply it
// before the URL reaches the router.
package urlutil

import (
	"errors"
	"sort"
	"strings"
)

// Raw URL parsing errors.
var (
	// ErrInvalidURL is returned when a raw URL contains more than one
	// query separator or more than one hash separator.
	ErrInvalidURL = errors.New("invalid URL")
)

// EnsureLeadingSlash returns p with a leading "/" added if it is
// non-empty and does not already start with one.
func EnsureLeadingSlash(p string) string {
	if p == "" || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// StripTrailingSlash removes a single trailing "/" except for the root path.
func StripTrailingSlash(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return strings.TrimSuffix(p, "/")
	}
	return p
}

// JoinPaths joins a parent path and a child suffix with exactly one slash
// between them. An empty suffix yields the parent verbatim; an empty
// parent yields the suffix with a leading slash.
func JoinPaths(parent, child string) string {
	if child == "" {
		return parent
	}
	child = EnsureLeadingSlash(child)
	if parent == "" || parent == "/" {
		return child
	}
	return StripTrailingSlash(parent) + child
}

// StripPrefix removes prefix from p when p starts with it, keeping the
// remainder slash-prefixed. It returns p unchanged when the prefix does
// not match or is empty.
func StripPrefix(p, prefix string) string {
	if prefix == "" || prefix == "/" {
		return p
	}
	if p == prefix {
		return "/"
	}
	if strings.HasPrefix(p, prefix+"/") {
		return p[len(prefix):]
	}
	return p
}

// IsExternal reports whether a navigation target is an absolute external
// URL rather than an in-app path.
func IsExternal(target string) bool {
	return strings.HasPrefix(target, "http")
}

// SplitURL splits a raw URL into its base path, raw query string (without
// the leading "?"), and hash fragment (without the leading "#").
//
// It fails with ErrInvalidURL when the input contains more than one "?"
// or more than one "#": such inputs are ambiguous and rejected rather
// than guessed at.
func SplitURL(raw string) (path, query, hash string, err error) {
	if strings.Count(raw, "?") > 1 || strings.Count(raw, "#") > 1 {
		return "", "", "", ErrInvalidURL
	}
	path = raw
	if i := strings.Index(path, "#"); i >= 0 {
		hash = path[i+1:]
		path = path[:i]
	}
	if i := strings.Index(path, "?"); i >= 0 {
		query = path[i+1:]
		path = path[:i]
	}
	return path, query, hash, nil
}

// ParseQuery parses a raw query string ("a=1&b=2") into a map. Values are
// passthrough strings: no decoding is applied. A key without "=" maps to
// the empty string. An empty input yields a nil map.
func ParseQuery(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	q := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		q[k] = v
	}
	return q
}

// FormatQuery serializes a query map as "k=v" pairs joined by "&".
// Keys are emitted in sorted order so the output is deterministic.
func FormatQuery(q map[string]string) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(q[k])
	}
	return b.String()
}

// FormatURL reassembles a full URL from a base path, query map, and hash
// fragment: path, then "?query" when non-empty, then "#hash" when
// non-empty, in that fixed order.
func FormatURL(path string, query map[string]string, hash string) string {
	var b strings.Builder
	b.WriteString(path)
	if qs := FormatQuery(query); qs != "" {
		b.WriteByte('?')
		b.WriteString(qs)
	}
	if hash != "" {
		b.WriteByte('#')
		b.WriteString(hash)
	}
	return b.String()
}
