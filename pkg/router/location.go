package router

import (
	"strings"

	navErrors "github.com/wayfind-go/wayfind/internal/errors"
	"github.com/wayfind-go/wayfind/pkg/history"
	"github.com/wayfind-go/wayfind/pkg/urlutil"
)

// NewLocation normalizes a raw navigation request into a canonical
// Location. It fails with a location error when the raw path embeds more
// than one query separator or more than one hash separator.
//
// An empty path is valid and short-circuits parsing; it represents
// "no path" for name-based navigation.
func NewLocation(raw RawLocation) (*Location, error) {
	loc := &Location{
		Path:   urlutil.EnsureLeadingSlash(raw.Path),
		Name:   raw.Name,
		Hash:   strings.TrimPrefix(raw.Hash, "#"),
		Action: history.ActionPush,
	}
	if raw.Replace {
		loc.Action = history.ActionReplace
	}
	if len(raw.Params) > 0 {
		loc.Params = make(map[string]any, len(raw.Params))
		for k, v := range raw.Params {
			loc.Params[k] = v
		}
	}
	if len(raw.Query) > 0 {
		loc.Query = make(map[string]string, len(raw.Query))
		for k, v := range raw.Query {
			loc.Query[k] = v
		}
	}

	if loc.Path == "" {
		return loc, nil
	}

	path, query, hash, err := urlutil.SplitURL(loc.Path)
	if err != nil {
		return nil, navErrors.New("W010").WithDetail("cannot parse %q", raw.Path).Wrap(err)
	}
	loc.Path = path
	for k, v := range urlutil.ParseQuery(query) {
		if loc.Query == nil {
			loc.Query = make(map[string]string)
		}
		// Caller-provided query entries win over ones embedded in the path.
		if _, exists := loc.Query[k]; !exists {
			loc.Query[k] = v
		}
	}
	if hash != "" && loc.Hash == "" {
		loc.Hash = hash
	}
	return loc, nil
}

// toRawLocation converts a push/replace argument into a RawLocation.
// Strings become path-only requests.
func toRawLocation(raw any) (RawLocation, error) {
	switch v := raw.(type) {
	case string:
		return RawLocation{Path: v}, nil
	case RawLocation:
		return v, nil
	case *RawLocation:
		if v == nil {
			return RawLocation{}, navErrors.New("W010").WithDetail("nil *RawLocation")
		}
		return *v, nil
	default:
		return RawLocation{}, navErrors.New("W010").WithDetail("unsupported location type %T", raw)
	}
}
