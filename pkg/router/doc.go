// Package router implements route resolution and the navigation pipeline
// for wayfind.
//
// The router provides:
//   - Compilation of route prefabs into an immutable, nested route tree
//   - Path-based and name-based matching with parameter extraction
//   - A sequential navigation-guard protocol with redirect/abort semantics
//   - Concurrent resolution of asynchronous components with a
//     write-once cache
//   - History synchronization, including pop translation and
//     duplicate-navigation suppression
//
// # Route Trees
//
// Routes are declared as nested prefabs; a child's compiled path is the
// join of its parent's path and its own suffix:
//
//	routes := []router.Prefab{
//	    {Path: "/", Name: "HOME", Component: home},
//	    {Path: "/users", Component: users,
//	        Children: []router.Prefab{
//	            {Path: ":id(\\d+)", Name: "USER", Component: user},
//	            {Path: ":id(\\d+)/msg/:mid(\\d+)", Name: "MSG", Component: msg},
//	        }},
//	    {Path: "*", Component: notFound},
//	}
//
// Matching is depth-first in sibling order and first-match wins, which is
// why the "*" catch-all must be declared last.
//
// # Navigation
//
// Push and Replace normalize the request, match it, then run every
// registered guard in order. A guard receives snapshots of the current
// and pending routes and a single-shot next function:
//
//	unregister := r.RegisterGuard(func(current, pending *router.Route, next func(router.Directive)) {
//	    if pending.Path == "/admin" && !loggedIn {
//	        next(router.RedirectTo("/login"))
//	        return
//	    }
//	    next(router.Continue())
//	})
//
// Once the chain is exhausted, async components are resolved and the
// route commits: navigation-changed listeners fire, the route becomes
// current, and the external history is brought in line.
//
// # Usage
//
//	r, err := router.New(router.Options{Routes: routes})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.OnNavigationChanged(func(from, to *router.Route) { render(to) })
//	if err := r.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	r.Push("/users/42", nil, nil)
package router
