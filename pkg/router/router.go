package router

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	navErrors "github.com/wayfind-go/wayfind/internal/errors"
	"github.com/wayfind-go/wayfind/pkg/history"
	"github.com/wayfind-go/wayfind/pkg/urlutil"
)

// Mode selects how the router encodes app locations in the history.
type Mode string

const (
	// ModeHistory keeps app paths in the history path itself.
	ModeHistory Mode = "history"

	// ModeHash keeps app paths in the URL fragment.
	ModeHash Mode = "hash"
)

// ErrNavigationAborted is passed to the abort callback when a guard stops
// a navigation without supplying its own error. No error event is emitted
// for it.
var ErrNavigationAborted = errors.New("router: navigation aborted")

// ErrAlreadyStarted is returned by Start when called more than once.
var ErrAlreadyStarted = errors.New("router: already started")

// Options configures a Router.
type Options struct {
	// Mode selects history or hash URLs. Default: ModeHistory.
	Mode Mode

	// Basename is a URL prefix stripped from and added to every resolved
	// path. Auto-prefixed with "/" when non-empty.
	Basename string

	// HashType selects the fragment style under ModeHash.
	HashType history.HashType

	// Routes is the route prefab tree.
	Routes []Prefab

	// ActiveClass is the CSS class link components apply to active
	// links. Default: "active".
	ActiveClass string

	// History is the external history to synchronize with. Defaults to
	// an in-memory history; under ModeHash the history (default or
	// supplied) is wrapped in the hash adapter.
	History history.History

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// ExternalNavigator handles redirect targets that are absolute
	// external URLs ("http..."). Default: no-op.
	ExternalNavigator func(url string)
}

// Router orchestrates the resolve-guard-commit navigation cycle. It owns
// the compiled route tree, the current and pending routes, the guard and
// listener registries, and the async component cache, and keeps the
// external history in step with committed navigations.
type Router struct {
	tree        []*RouteConfig
	hist        history.History
	logger      *slog.Logger
	basename    string
	activeClass string
	externalNav func(string)

	mu      sync.Mutex
	current *Route
	pending *Route
	// attempt numbers navigation attempts. A pipeline step that observes
	// a newer attempt than its own stops silently: superseding a
	// navigation cancels the superseded one.
	attempt uint64
	started bool

	guards     guardList
	beforeNav  routeListenerSet
	navChanged routeListenerSet
	errorSet   errorListenerSet

	asyncMu    sync.Mutex
	asyncCache map[uint64]Component

	configErrs []error
	unlisten   func()
}

// New compiles the route tree and creates a Router. Construction fails
// for an unrecognized mode or hash type. Malformed route prefabs do not
// fail construction: each is reported (logger + ConfigErrors) and its
// subtree skipped.
func New(opts Options) (*Router, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeHistory
	}
	if mode != ModeHistory && mode != ModeHash {
		return nil, navErrors.Newf(navErrors.CategoryConfig, "unrecognized mode %q", opts.Mode)
	}
	hashType := opts.HashType
	if hashType == "" {
		hashType = history.HashSlash
	}
	if hashType != history.HashSlash && hashType != history.HashNoSlash {
		return nil, navErrors.Newf(navErrors.CategoryConfig, "unrecognized hash type %q", opts.HashType)
	}

	basename := opts.Basename
	if basename != "" && !strings.HasPrefix(basename, "/") {
		basename = "/" + basename
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "router")

	hist := opts.History
	if hist == nil {
		hist = history.NewMemory()
	}
	if mode == ModeHash {
		hist = history.NewHash(hist, hashType)
	}

	activeClass := opts.ActiveClass
	if activeClass == "" {
		activeClass = "active"
	}

	externalNav := opts.ExternalNavigator
	if externalNav == nil {
		externalNav = func(string) {}
	}

	r := &Router{
		hist:        hist,
		logger:      logger,
		basename:    basename,
		activeClass: activeClass,
		externalNav: externalNav,
		asyncCache:  make(map[uint64]Component),
	}

	builder := &treeBuilder{report: func(err error) {
		r.configErrs = append(r.configErrs, err)
		logger.Error("invalid route configuration", "error", err)
	}}
	r.tree = builder.build(opts.Routes, nil)

	return r, nil
}

// Start subscribes to the history and performs the initial resolution of
// its current location. It must be called exactly once, before any route
// is consumed; a second call returns ErrAlreadyStarted.
func (r *Router) Start() error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.mu.Unlock()

	r.unlisten = r.hist.Listen(func(loc history.Location, action history.Action) {
		// A pop is never its own pipeline action: it re-enters as a push
		// so guards and resolution always run.
		if action == history.ActionPop {
			r.Push(loc.FullPath(), nil, nil)
		}
	})
	r.Push(r.hist.Location().FullPath(), nil, nil)
	return nil
}

// Stop releases the history subscription. The router remains usable for
// programmatic navigation.
func (r *Router) Stop() {
	if r.unlisten != nil {
		r.unlisten()
		r.unlisten = nil
	}
}

// Push navigates to a new location, appending a history entry on commit.
// raw is a path string or a RawLocation. Completion and abort callbacks
// may be nil; errors are never returned directly, they flow to onAbort
// and the error listeners.
func (r *Router) Push(raw any, onComplete func(*Route), onAbort func(error)) {
	r.navigateRaw(raw, false, onComplete, onAbort)
}

// Replace navigates like Push but replaces the current history entry.
func (r *Router) Replace(raw any, onComplete func(*Route), onAbort func(error)) {
	r.navigateRaw(raw, true, onComplete, onAbort)
}

// Go moves n entries through the external history.
func (r *Router) Go(n int) { r.hist.Go(n) }

// Back moves one entry back.
func (r *Router) Back() { r.hist.Back() }

// Forward moves one entry forward.
func (r *Router) Forward() { r.hist.Forward() }

// CurrentRoute returns a snapshot of the last committed route, or nil
// before the first successful resolution.
func (r *Router) CurrentRoute() *Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyRoute(r.current)
}

// Basename returns the configured base path.
func (r *Router) Basename() string { return r.basename }

// ActiveClass returns the class name link components apply when active.
func (r *Router) ActiveClass() string { return r.activeClass }

// History returns the history the router synchronizes with.
func (r *Router) History() history.History { return r.hist }

// WalkRoutes visits every compiled route config in depth-first prefab
// order. Returning false from fn stops the walk.
func (r *Router) WalkRoutes(fn func(rc *RouteConfig) bool) {
	var walk func(nodes []*RouteConfig) bool
	walk = func(nodes []*RouteConfig) bool {
		for _, rc := range nodes {
			if !fn(rc) {
				return false
			}
			if !walk(rc.Children) {
				return false
			}
		}
		return true
	}
	walk(r.tree)
}

// ConfigErrors returns the configuration errors collected while building
// the route tree.
func (r *Router) ConfigErrors() []error {
	return append([]error(nil), r.configErrs...)
}

// RegisterGuard appends a navigation guard. Guards run in registration
// order. The returned unregister function is idempotent.
func (r *Router) RegisterGuard(g Guard) func() {
	return r.guards.add(g)
}

// OnBeforeNavigation registers a listener invoked with snapshots of the
// current and pending routes before the guard chain runs.
func (r *Router) OnBeforeNavigation(fn RouteListener) func() {
	return r.beforeNav.add(fn)
}

// OnNavigationChanged registers a listener invoked with snapshots of the
// outgoing and committed routes when a navigation commits.
func (r *Router) OnNavigationChanged(fn RouteListener) func() {
	return r.navChanged.add(fn)
}

// OnError registers a listener for navigation-time errors.
func (r *Router) OnError(fn ErrorListener) func() {
	return r.errorSet.add(fn)
}

// RouteURL reverse-resolves a named location into a concrete URL without
// running the navigation pipeline. Used by link components for hrefs.
func (r *Router) RouteURL(raw any) (string, error) {
	rl, err := toRawLocation(raw)
	if err != nil {
		return "", err
	}
	if rl.Name == "" {
		return "", navErrors.New("W021").WithDetail("RouteURL requires a route name")
	}
	cfg := findByName(r.tree, rl.Name)
	if cfg == nil {
		return "", navErrors.New("W021").WithDetail("no route named %q", rl.Name)
	}
	path, err := cfg.buildPath(rl.Params)
	if err != nil {
		return "", navErrors.New("W022").WithDetail("route %q: %v", rl.Name, err).Wrap(err)
	}
	hash := strings.TrimPrefix(rl.Hash, "#")
	return r.historyPath(urlutil.FormatURL(path, rl.Query, hash)), nil
}

// Resolve runs location normalization and matching without guards,
// commits, or history writes. Redirect declarations are not followed.
func (r *Router) Resolve(raw any) (*Route, error) {
	rl, err := toRawLocation(raw)
	if err != nil {
		return nil, err
	}
	loc, err := NewLocation(rl)
	if err != nil {
		return nil, err
	}
	loc.Path = urlutil.StripPrefix(loc.Path, r.basename)
	matches, err := r.matchLocation(loc)
	if err != nil {
		return nil, err
	}
	return newRoute(loc, matches), nil
}

// IsActive reports whether href points at (exact) or above (prefix) the
// current route's path.
func (r *Router) IsActive(href string, exact bool) bool {
	cur := r.CurrentRoute()
	if cur == nil {
		return false
	}
	path, _, _, err := urlutil.SplitURL(href)
	if err != nil {
		return false
	}
	path = urlutil.StripPrefix(urlutil.EnsureLeadingSlash(path), r.basename)
	if exact {
		return cur.Path == path
	}
	return cur.Path == path || strings.HasPrefix(cur.Path, urlutil.StripTrailingSlash(path)+"/")
}

// ----------------------------------------------------------------------------
// Pipeline
// ----------------------------------------------------------------------------

// maxRedirects bounds declared-redirect chains so a cycle surfaces as an
// error instead of unbounded recursion.
const maxRedirects = 10

func (r *Router) navigateRaw(raw any, forceReplace bool, onComplete func(*Route), onAbort func(error)) {
	rl, err := toRawLocation(raw)
	if err != nil {
		r.fail(err, onAbort)
		return
	}
	if forceReplace {
		rl.Replace = true
	}
	r.navigate(rl, 0, onComplete, onAbort)
}

// navigate runs steps 1-8 of the pipeline: normalize, strip base, match,
// build the pending route, resolve declared redirects, short-circuit
// same-location pushes, then hand off to the guard chain.
func (r *Router) navigate(rl RawLocation, redirects int, onComplete func(*Route), onAbort func(error)) {
	loc, err := NewLocation(rl)
	if err != nil {
		r.fail(err, onAbort)
		return
	}
	loc.Path = urlutil.StripPrefix(loc.Path, r.basename)

	matches, err := r.matchLocation(loc)
	if err != nil {
		r.fail(err, onAbort)
		return
	}
	route := newRoute(loc, matches)

	if route.Redirect != nil {
		r.followRedirect(route, rl, redirects, onComplete, onAbort)
		return
	}

	// Idempotent same-location short-circuit: repeated pushes to an
	// unchanged location succeed without notifying listeners or touching
	// history.
	r.mu.Lock()
	if r.current != nil && r.current.FullPath == route.FullPath {
		r.pending = nil
		cur := copyRoute(r.current)
		r.mu.Unlock()
		if onComplete != nil {
			onComplete(cur)
		}
		return
	}
	r.attempt++
	attempt := r.attempt
	r.pending = route
	curSnap := copyRoute(r.current)
	pendSnap := copyRoute(route)
	r.mu.Unlock()

	r.beforeNav.notify(curSnap, pendSnap)
	r.runGuards(attempt, r.guards.snapshot(), 0, curSnap, pendSnap, route, onComplete, onAbort)
}

// matchLocation resolves a normalized location to its record chain,
// by name when one is set and by path otherwise. Name-based resolution
// writes the reverse-generated path back onto the location.
func (r *Router) matchLocation(loc *Location) ([]*RouteRecord, error) {
	if loc.Name != "" {
		cfg := findByName(r.tree, loc.Name)
		if cfg == nil {
			return nil, navErrors.New("W021").WithDetail("no route named %q", loc.Name)
		}
		path, matches, err := matchName(cfg, loc.Params)
		if err != nil {
			return nil, err
		}
		loc.Path = path
		return matches, nil
	}
	matches := matchPath(r.tree, loc.Path)
	if matches == nil {
		return nil, navErrors.New("W020").WithDetail("no route matches %q", loc.Path)
	}
	return matches, nil
}

// followRedirect resolves a declared redirect and re-enters the pipeline
// at the target, preserving the original callbacks. External targets
// ("http...") leave the pipeline entirely.
func (r *Router) followRedirect(route *Route, rl RawLocation, redirects int, onComplete func(*Route), onAbort func(error)) {
	if redirects >= maxRedirects {
		r.fail(navErrors.Newf(navErrors.CategoryResolution, "redirect chain exceeds %d hops at %q", maxRedirects, route.Path), onAbort)
		return
	}

	target := route.Redirect
	switch fn := target.(type) {
	case RedirectResolver:
		target = fn(copyRoute(route))
	case func(to *Route) any:
		target = fn(copyRoute(route))
	}

	var next RawLocation
	switch t := target.(type) {
	case string:
		if urlutil.IsExternal(t) {
			r.externalNav(t)
			return
		}
		next = RawLocation{Path: t}
	case RawLocation:
		next = t
	case *RawLocation:
		if t == nil {
			r.fail(navErrors.Newf(navErrors.CategoryResolution, "redirect at %q resolved to nil", route.Path), onAbort)
			return
		}
		next = *t
	default:
		r.fail(navErrors.Newf(navErrors.CategoryResolution, "redirect at %q resolved to unsupported type %T", route.Path, target), onAbort)
		return
	}
	// Carry the original history action forward.
	next.Replace = next.Replace || rl.Replace
	r.navigate(next, redirects+1, onComplete, onAbort)
}

// runGuards advances the guard chain for one attempt. Each guard's next
// is single-shot; directives from a superseded attempt are dropped.
func (r *Router) runGuards(attempt uint64, guards []Guard, idx int, curSnap, pendSnap, route *Route, onComplete func(*Route), onAbort func(error)) {
	if r.stale(attempt) {
		return
	}
	if idx >= len(guards) {
		r.resolveComponents(attempt, route, onComplete, onAbort)
		return
	}

	var once sync.Once
	next := func(d Directive) {
		once.Do(func() {
			r.applyDirective(attempt, d, guards, idx, curSnap, pendSnap, route, onComplete, onAbort)
		})
	}
	guards[idx](curSnap, pendSnap, next)
}

// applyDirective dispatches one guard directive.
func (r *Router) applyDirective(attempt uint64, d Directive, guards []Guard, idx int, curSnap, pendSnap, route *Route, onComplete func(*Route), onAbort func(error)) {
	if r.stale(attempt) {
		return
	}
	switch d.kind {
	case directiveContinue:
		r.runGuards(attempt, guards, idx+1, curSnap, pendSnap, route, onComplete, onAbort)

	case directiveAbort:
		r.abortAndResync(attempt, nil, onAbort)

	case directiveAbortWithError:
		err := navErrors.New("W030").Wrap(d.err)
		if d.err != nil {
			err = err.WithDetail("%v", d.err)
		}
		r.abortAndResync(attempt, err, onAbort)

	case directiveRedirect:
		r.mu.Lock()
		if r.attempt == attempt {
			r.pending = nil
		}
		replace := route.Action == history.ActionReplace
		r.mu.Unlock()
		r.navigateRaw(d.target, replace, onComplete, onAbort)

	default:
		r.abortAndResync(attempt, navErrors.New("W031").WithDetail("directive from guard %d", idx), onAbort)
	}
}

// abortAndResync clears the pending route, surfaces the abort, and
// re-aligns the external history with the current route if the two have
// drifted apart (e.g. the browser already advanced past it).
func (r *Router) abortAndResync(attempt uint64, err error, onAbort func(error)) {
	r.mu.Lock()
	if r.attempt == attempt {
		r.pending = nil
	}
	cur := r.current
	var curFull string
	if cur != nil {
		curFull = cur.FullPath
	}
	r.mu.Unlock()

	if err != nil {
		r.emitError(err)
	} else {
		err = ErrNavigationAborted
	}
	if onAbort != nil {
		onAbort(err)
	}

	if cur != nil {
		histPath := r.historyPath(curFull)
		if r.hist.Location().FullPath() != histPath {
			r.hist.Push(histPath)
		}
	}
}

// resolveComponents loads every unresolved async component of the
// matched chain concurrently, populates the write-once cache, and
// substitutes results before commit. A load failure aborts the
// navigation and leaves the current route unchanged.
func (r *Router) resolveComponents(attempt uint64, route *Route, onComplete func(*Route), onAbort func(error)) {
	type pendingLoad struct {
		rec    *RouteRecord
		loader ComponentLoader
	}
	var loads []pendingLoad

	r.asyncMu.Lock()
	for _, rec := range route.Matched {
		loader, ok := rec.Component.(ComponentLoader)
		if !ok {
			if fn, isFn := rec.Component.(func(ctx context.Context) (Component, error)); isFn {
				loader, ok = ComponentLoader(fn), true
			}
		}
		if !ok {
			continue
		}
		if cached, hit := r.asyncCache[rec.config.id]; hit {
			rec.Component = cached
			continue
		}
		loads = append(loads, pendingLoad{rec: rec, loader: loader})
	}
	r.asyncMu.Unlock()

	if len(loads) == 0 {
		r.commit(attempt, route, onComplete)
		return
	}

	results := make([]Component, len(loads))
	g, ctx := errgroup.WithContext(context.Background())
	for i, load := range loads {
		i, load := i, load
		g.Go(func() error {
			c, err := load.loader(ctx)
			if err != nil {
				return err
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		navErr := navErrors.New("W040").Wrap(err).WithDetail("%v", err)
		r.mu.Lock()
		if r.attempt == attempt {
			r.pending = nil
		}
		superseded := r.attempt != attempt
		r.mu.Unlock()
		if superseded {
			return
		}
		r.emitError(navErr)
		if onAbort != nil {
			onAbort(navErr)
		}
		return
	}
	if r.stale(attempt) {
		return
	}

	r.asyncMu.Lock()
	for i, load := range loads {
		r.asyncCache[load.rec.config.id] = results[i]
		load.rec.Component = results[i]
	}
	r.asyncMu.Unlock()

	r.commit(attempt, route, onComplete)
}

// commit publishes the pending route: listeners are notified, the route
// becomes current, and the external history is written if it is not
// already at the new location.
func (r *Router) commit(attempt uint64, route *Route, onComplete func(*Route)) {
	r.mu.Lock()
	if r.attempt != attempt {
		r.mu.Unlock()
		return
	}
	outgoing := copyRoute(r.current)
	incoming := copyRoute(route)
	r.current = copyRoute(route)
	r.pending = nil
	committed := copyRoute(r.current)
	r.mu.Unlock()

	r.navChanged.notify(outgoing, incoming)

	histPath := r.historyPath(route.FullPath)
	if r.hist.Location().FullPath() != histPath {
		if route.Action == history.ActionReplace {
			r.hist.Replace(histPath)
		} else {
			r.hist.Push(histPath)
		}
	}

	r.logger.Debug("navigation committed", "path", route.FullPath, "name", route.Name)
	if onComplete != nil {
		onComplete(committed)
	}
}

// fail surfaces a pre-guard navigation failure: error event plus abort
// callback, with no pipeline state to unwind.
func (r *Router) fail(err error, onAbort func(error)) {
	r.emitError(err)
	if onAbort != nil {
		onAbort(err)
	}
}

func (r *Router) emitError(err error) {
	r.logger.Warn("navigation error", "error", err)
	r.errorSet.notify(err)
}

// stale reports whether a newer navigation attempt has superseded this one.
func (r *Router) stale(attempt uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempt != attempt
}

// historyPath prepends the basename to an app-relative full path.
func (r *Router) historyPath(fullPath string) string {
	if r.basename == "" {
		return fullPath
	}
	return urlutil.JoinPaths(r.basename, fullPath)
}
