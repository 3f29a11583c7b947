package router

import "testing"

func TestMatchPathChain(t *testing.T) {
	rt := newTestRouter(t, Options{})

	route, err := rt.Resolve("/users/42")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(route.Matched) != 2 {
		t.Fatalf("matched chain len = %d, want 2", len(route.Matched))
	}
	if route.Matched[0].Name != "USERS" || route.Matched[1].Name != "USER" {
		t.Errorf("chain = [%s %s], want [USERS USER]", route.Matched[0].Name, route.Matched[1].Name)
	}
	// Path captures are strings.
	if got, ok := route.Params["id"].(string); !ok || got != "42" {
		t.Errorf("params[id] = %#v, want string \"42\"", route.Params["id"])
	}
	// The parent record declares no params of its own.
	if len(route.Matched[0].Params) != 0 {
		t.Errorf("parent record params = %v, want none", route.Matched[0].Params)
	}
}

func TestMatchPathDeepChain(t *testing.T) {
	rt := newTestRouter(t, Options{})

	route, err := rt.Resolve("/users/5/msg/9")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if route.Name != "MSG" {
		t.Fatalf("resolved %q, want MSG", route.Name)
	}
	if route.Params["id"] != "5" || route.Params["mid"] != "9" {
		t.Errorf("params = %v, want id=5 mid=9", route.Params)
	}
}

func TestMatchPathWildcardFallback(t *testing.T) {
	rt := newTestRouter(t, Options{})

	route, err := rt.Resolve("/no/such/path")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(route.Matched) != 1 {
		t.Fatalf("matched chain len = %d, want 1", len(route.Matched))
	}
	if route.Matched[0].Path != WildcardPath {
		t.Errorf("matched path = %q, want %q", route.Matched[0].Path, WildcardPath)
	}
	if route.Path != "/no/such/path" {
		t.Errorf("route path = %q, want the requested path", route.Path)
	}
}

func TestMatchPathSiblingOrder(t *testing.T) {
	// Both siblings match /items/new; the first declared wins.
	rt := newTestRouter(t, Options{Routes: []Prefab{
		{Path: "/items/new", Name: "NEW", Component: "new"},
		{Path: "/items/:id", Name: "ITEM", Component: "item"},
	}})

	route, err := rt.Resolve("/items/new")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if route.Name != "NEW" {
		t.Errorf("resolved %q, want NEW", route.Name)
	}
}

func TestMatchPathBacktracksPastChildlessSubtree(t *testing.T) {
	// /docs matches the first subtree as a prefix, but no leaf below it
	// accepts the full path, so matching falls through to the sibling.
	rt := newTestRouter(t, Options{Routes: []Prefab{
		{Path: "/docs", Component: "docs", Children: []Prefab{
			{Path: "guide", Name: "GUIDE", Component: "guide"},
		}},
		{Path: "/:page", Name: "PAGE", Component: "page"},
	}})

	route, err := rt.Resolve("/docs")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if route.Name != "PAGE" {
		t.Errorf("resolved %q, want PAGE", route.Name)
	}
}

func TestMatchNoRoute(t *testing.T) {
	rt := newTestRouter(t, Options{Routes: []Prefab{
		{Path: "/only", Component: "only"},
	}})
	if _, err := rt.Resolve("/other"); err == nil {
		t.Error("expected no-matching-route error")
	}
}

func TestResolveByName(t *testing.T) {
	rt := newTestRouter(t, Options{})

	route, err := rt.Resolve(RawLocation{Name: "MSG", Params: map[string]any{"id": 5, "mid": 9}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if route.FullPath != "/users/5/msg/9" {
		t.Errorf("full path = %q, want /users/5/msg/9", route.FullPath)
	}
	// Name-based resolution keeps the caller's value types.
	if got, ok := route.Params["id"].(int); !ok || got != 5 {
		t.Errorf("params[id] = %#v, want int 5", route.Params["id"])
	}
	if len(route.Matched) != 2 {
		t.Errorf("matched chain len = %d, want 2", len(route.Matched))
	}
}

func TestResolveByNameUnknown(t *testing.T) {
	rt := newTestRouter(t, Options{})
	if _, err := rt.Resolve(RawLocation{Name: "NOPE"}); err == nil {
		t.Error("expected unknown-route-name error")
	}
}

func TestResolveByNameBadParams(t *testing.T) {
	rt := newTestRouter(t, Options{})
	// id must be digits.
	if _, err := rt.Resolve(RawLocation{Name: "USER", Params: map[string]any{"id": "abc"}}); err == nil {
		t.Error("expected invalid-parameters error")
	}
	// mid is missing.
	if _, err := rt.Resolve(RawLocation{Name: "MSG", Params: map[string]any{"id": 5}}); err == nil {
		t.Error("expected missing-parameter error")
	}
}
