// Package bridge synchronizes the router's history with a browser tab
// over a WebSocket connection. The browser side mirrors pushState,
// replaceState and history.go calls, and reports popstate events back.
package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wayfind-go/wayfind/pkg/history"
	"github.com/wayfind-go/wayfind/pkg/urlutil"
)

// Frame types exchanged with the browser.
const (
	frameInit     = "init"     // browser -> server: initial location
	framePopState = "popstate" // browser -> server: back/forward traversal
	framePush     = "push"     // server -> browser: history.pushState
	frameReplace  = "replace"  // server -> browser: history.replaceState
	frameGo       = "go"       // server -> browser: history.go(delta)
)

// frame is the JSON wire format. URL and Key are set for init, popstate,
// push and replace frames; Delta is set for go frames.
type frame struct {
	Type  string `json:"type"`
	URL   string `json:"url,omitempty"`
	Key   string `json:"key,omitempty"`
	Delta int    `json:"delta,omitempty"`
}

// Config controls connection behavior.
type Config struct {
	// ReadTimeout bounds how long a read may block before the
	// connection is considered dead. Zero disables the deadline.
	ReadTimeout time.Duration

	// WriteTimeout bounds outgoing frame writes. Zero disables it.
	WriteTimeout time.Duration

	// Logger receives connection lifecycle events. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// Browser is a history.History whose authoritative state lives in a
// remote browser tab. Push, Replace and Go are forwarded over the
// socket; popstate events received from the browser update the local
// mirror and fire listeners.
type Browser struct {
	conn   *websocket.Conn
	config Config
	logger *slog.Logger

	writeMu sync.Mutex

	mu        sync.Mutex
	location  history.Location
	action    history.Action
	listeners map[string]history.Listener

	ready     chan struct{}
	readyOnce sync.Once
}

var _ history.History = (*Browser)(nil)

// New wraps an established WebSocket connection. The caller keeps
// ownership of the connection; Run must be started before the browser
// history reflects the remote tab.
func New(conn *websocket.Conn, config Config) *Browser {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		conn:   conn,
		config: config,
		logger: logger.With("component", "bridge"),
		location: history.Location{
			Path: "/",
			Key:  uuid.NewString(),
		},
		action:    history.ActionReplace,
		listeners: make(map[string]history.Listener),
		ready:     make(chan struct{}),
	}
}

// Run reads frames from the browser until the connection closes, the
// context is canceled, or a read fails. It blocks and is intended to
// be called from its own goroutine.
func (b *Browser) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			b.conn.Close()
		case <-done:
		}
	}()

	for {
		if b.config.ReadTimeout > 0 {
			b.conn.SetReadDeadline(time.Now().Add(b.config.ReadTimeout))
		}

		var f frame
		if err := b.conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				b.logger.Error("read error", "error", err)
				return err
			}
			return nil
		}

		switch f.Type {
		case frameInit:
			b.setLocation(frameLocation(f), history.ActionReplace)
			b.readyOnce.Do(func() { close(b.ready) })

		case framePopState:
			loc := frameLocation(f)
			b.setLocation(loc, history.ActionPop)
			b.notify(loc, history.ActionPop)

		default:
			b.logger.Warn("unknown frame type", "type", f.Type)
		}
	}
}

// Ready is closed once the browser has reported its initial location.
func (b *Browser) Ready() <-chan struct{} {
	return b.ready
}

// Location returns the last location mirrored from the browser.
func (b *Browser) Location() history.Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.location
}

// Action returns the action that produced the current location.
func (b *Browser) Action() history.Action {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.action
}

// Push forwards a pushState to the browser and updates the mirror.
func (b *Browser) Push(path string) {
	b.apply(framePush, path, history.ActionPush)
}

// Replace forwards a replaceState to the browser and updates the mirror.
func (b *Browser) Replace(path string) {
	b.apply(frameReplace, path, history.ActionReplace)
}

// Go asks the browser to traverse its session history. The resulting
// location arrives asynchronously as a popstate frame.
func (b *Browser) Go(n int) {
	if n == 0 {
		return
	}
	if err := b.writeFrame(frame{Type: frameGo, Delta: n}); err != nil {
		b.logger.Error("write error", "frame", frameGo, "error", err)
	}
}

// Back traverses one entry backwards.
func (b *Browser) Back() { b.Go(-1) }

// Forward traverses one entry forwards.
func (b *Browser) Forward() { b.Go(1) }

// Listen registers a listener for location changes. The returned
// function removes it; calling it more than once is harmless.
func (b *Browser) Listen(fn history.Listener) func() {
	id := uuid.NewString()
	b.mu.Lock()
	b.listeners[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *Browser) apply(typ, path string, action history.Action) {
	loc := splitLocation(path, uuid.NewString())
	b.setLocation(loc, action)
	if err := b.writeFrame(frame{Type: typ, URL: path, Key: loc.Key}); err != nil {
		b.logger.Error("write error", "frame", typ, "error", err)
	}
	b.notify(loc, action)
}

func (b *Browser) setLocation(loc history.Location, action history.Action) {
	b.mu.Lock()
	b.location = loc
	b.action = action
	b.mu.Unlock()
}

func (b *Browser) notify(loc history.Location, action history.Action) {
	b.mu.Lock()
	fns := make([]history.Listener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(loc, action)
	}
}

func (b *Browser) writeFrame(f frame) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if b.config.WriteTimeout > 0 {
		b.conn.SetWriteDeadline(time.Now().Add(b.config.WriteTimeout))
	}
	return b.conn.WriteJSON(f)
}

func frameLocation(f frame) history.Location {
	key := f.Key
	if key == "" {
		key = uuid.NewString()
	}
	return splitLocation(f.URL, key)
}

// splitLocation tolerates malformed URLs the way the in-memory history
// does: the raw string becomes the path and validation is left to the
// router.
func splitLocation(raw, key string) history.Location {
	path, query, hash, err := urlutil.SplitURL(raw)
	if err != nil {
		return history.Location{Path: raw, Key: key}
	}
	return history.Location{Path: path, Query: query, Hash: hash, Key: key}
}
