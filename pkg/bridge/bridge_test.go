package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wayfind-go/wayfind/pkg/history"
)

// dialPair upgrades a connection through an httptest server and returns
// both ends.
func dialPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(time.Second):
		t.Fatal("server connection never arrived")
	}
	t.Cleanup(func() { server.Close() })
	return server, client
}

func startBrowser(t *testing.T) (*Browser, *websocket.Conn, context.CancelFunc) {
	t.Helper()
	serverConn, clientConn := dialPair(t)
	b := New(serverConn, Config{WriteTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)
	return b, clientConn, cancel
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	return f
}

func TestInitSetsLocationAndReady(t *testing.T) {
	b, client, cancel := startBrowser(t)
	defer cancel()

	if err := client.WriteJSON(frame{Type: frameInit, URL: "/users/5?tab=posts", Key: "k1"}); err != nil {
		t.Fatalf("writing init: %v", err)
	}

	select {
	case <-b.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready never closed after init")
	}

	loc := b.Location()
	if loc.Path != "/users/5" || loc.Query != "tab=posts" || loc.Key != "k1" {
		t.Errorf("location = %+v, want /users/5?tab=posts key k1", loc)
	}
	if got := b.Action(); got != history.ActionReplace {
		t.Errorf("action after init = %q, want REPLACE", got)
	}
}

func TestPushForwardsFrameAndUpdatesMirror(t *testing.T) {
	b, client, cancel := startBrowser(t)
	defer cancel()

	var gotLoc history.Location
	var gotAction history.Action
	b.Listen(func(loc history.Location, action history.Action) {
		gotLoc, gotAction = loc, action
	})

	b.Push("/login")

	f := readFrame(t, client)
	if f.Type != framePush || f.URL != "/login" || f.Key == "" {
		t.Errorf("frame = %+v, want push /login with a key", f)
	}
	if got := b.Location().Path; got != "/login" {
		t.Errorf("mirror path = %q, want /login", got)
	}
	if gotLoc.Path != "/login" || gotAction != history.ActionPush {
		t.Errorf("listener got (%q, %q), want (/login, PUSH)", gotLoc.Path, gotAction)
	}
}

func TestReplaceFrame(t *testing.T) {
	b, client, cancel := startBrowser(t)
	defer cancel()

	b.Replace("/swapped")
	f := readFrame(t, client)
	if f.Type != frameReplace || f.URL != "/swapped" {
		t.Errorf("frame = %+v, want replace /swapped", f)
	}
	if got := b.Action(); got != history.ActionReplace {
		t.Errorf("action = %q, want REPLACE", got)
	}
}

func TestPopStateNotifiesListeners(t *testing.T) {
	b, client, cancel := startBrowser(t)
	defer cancel()

	popped := make(chan history.Location, 1)
	b.Listen(func(loc history.Location, action history.Action) {
		if action == history.ActionPop {
			popped <- loc
		}
	})

	if err := client.WriteJSON(frame{Type: framePopState, URL: "/back#frag", Key: "k9"}); err != nil {
		t.Fatalf("writing popstate: %v", err)
	}

	select {
	case loc := <-popped:
		if loc.Path != "/back" || loc.Hash != "frag" || loc.Key != "k9" {
			t.Errorf("popstate location = %+v", loc)
		}
	case <-time.After(time.Second):
		t.Fatal("popstate never reached the listener")
	}
	if got := b.Action(); got != history.ActionPop {
		t.Errorf("action = %q, want POP", got)
	}
}

func TestGoWritesDelta(t *testing.T) {
	b, client, cancel := startBrowser(t)
	defer cancel()

	b.Go(-2)
	f := readFrame(t, client)
	if f.Type != frameGo || f.Delta != -2 {
		t.Errorf("frame = %+v, want go delta -2", f)
	}

	b.Back()
	if f := readFrame(t, client); f.Delta != -1 {
		t.Errorf("back delta = %d, want -1", f.Delta)
	}
	b.Forward()
	if f := readFrame(t, client); f.Delta != 1 {
		t.Errorf("forward delta = %d, want 1", f.Delta)
	}
}

func TestGoZeroWritesNothing(t *testing.T) {
	b, client, cancel := startBrowser(t)
	defer cancel()

	b.Go(0)
	b.Push("/marker")

	// The first frame on the wire must be the push, not a go(0).
	f := readFrame(t, client)
	if f.Type != framePush {
		t.Errorf("first frame = %+v, want the push marker", f)
	}
}

func TestUnlistenStopsNotifications(t *testing.T) {
	b, _, cancel := startBrowser(t)
	defer cancel()

	calls := 0
	unlisten := b.Listen(func(history.Location, history.Action) { calls++ })
	b.Push("/a")
	unlisten()
	unlisten()
	b.Push("/b")

	if calls != 1 {
		t.Errorf("listener ran %d times, want 1", calls)
	}
}
