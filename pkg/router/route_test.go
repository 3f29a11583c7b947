package router

import (
	"context"
	"testing"
)

func TestCopyRoutePreservesFunctionFields(t *testing.T) {
	loaderCalled := false
	loader := ComponentLoader(func(ctx context.Context) (Component, error) {
		loaderCalled = true
		return "view", nil
	})
	resolver := PropsResolver(func(route *Route) map[string]any {
		return map[string]any{"k": "v"}
	})
	redirect := RedirectResolver(func(to *Route) any { return "/elsewhere" })

	orig := &Route{
		Name:     "USER",
		Path:     "/users/42",
		FullPath: "/users/42?tab=posts",
		Query:    map[string]string{"tab": "posts"},
		Params:   map[string]any{"id": "42"},
		Meta:     map[string]any{"auth": true},
		Redirect: redirect,
		Matched: []*RouteRecord{
			{
				Path:      "/users/:id",
				Name:      "USER",
				Component: loader,
				Props:     Props{Mode: PropsResolved, Resolver: resolver},
				Params:    map[string]any{"id": "42"},
			},
		},
	}

	cp := copyRoute(orig)

	if cp == orig || cp.Matched[0] == orig.Matched[0] {
		t.Fatal("copy shares identity with the original")
	}

	// Function-typed fields survive by reference and stay callable.
	if _, err := cp.Matched[0].Component.(ComponentLoader)(context.Background()); err != nil {
		t.Fatalf("copied loader failed: %v", err)
	}
	if !loaderCalled {
		t.Error("copied loader is not the original function")
	}
	if got := cp.Matched[0].Props.Resolver(cp)["k"]; got != "v" {
		t.Errorf("copied props resolver returned %v", got)
	}
	if got := cp.Redirect.(RedirectResolver)(cp); got != "/elsewhere" {
		t.Errorf("copied redirect resolver returned %v", got)
	}

	// Maps are copied, not shared.
	cp.Params["id"] = "mutated"
	cp.Query["tab"] = "mutated"
	cp.Meta["auth"] = false
	cp.Matched[0].Params["id"] = "mutated"
	if orig.Params["id"] != "42" || orig.Query["tab"] != "posts" {
		t.Error("mutating the copy leaked into the original route maps")
	}
	if orig.Meta["auth"] != true {
		t.Error("mutating the copy leaked into the original meta")
	}
	if orig.Matched[0].Params["id"] != "42" {
		t.Error("mutating the copy leaked into the original record params")
	}
}

func TestCopyRouteNil(t *testing.T) {
	if copyRoute(nil) != nil {
		t.Error("copyRoute(nil) should be nil")
	}
	if copyRecord(nil) != nil {
		t.Error("copyRecord(nil) should be nil")
	}
}

func TestMergedMeta(t *testing.T) {
	route := &Route{
		Matched: []*RouteRecord{
			{Meta: map[string]any{"layout": "main", "auth": false}},
			{Meta: map[string]any{"auth": true}},
		},
	}
	merged := route.MergedMeta()
	if merged["layout"] != "main" {
		t.Errorf("layout = %v, want main", merged["layout"])
	}
	if merged["auth"] != true {
		t.Error("deeper meta entry should override the shallower one")
	}
}

func TestNewRoutePromotesLeaf(t *testing.T) {
	loc := &Location{
		Path:  "/users/42",
		Query: map[string]string{"tab": "posts"},
		Hash:  "top",
	}
	matches := []*RouteRecord{
		{Name: "USERS", Path: "/users"},
		{Name: "USER", Path: "/users/:id", Params: map[string]any{"id": "42"}, Meta: map[string]any{"auth": true}},
	}
	route := newRoute(loc, matches)

	if route.Name != "USER" {
		t.Errorf("name = %q, want leaf name USER", route.Name)
	}
	if route.FullPath != "/users/42?tab=posts#top" {
		t.Errorf("full path = %q", route.FullPath)
	}
	if route.Params["id"] != "42" {
		t.Errorf("params = %v, want leaf params", route.Params)
	}
	if route.Meta["auth"] != true {
		t.Errorf("meta = %v, want leaf meta", route.Meta)
	}
}
