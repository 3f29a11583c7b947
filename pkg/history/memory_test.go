package history

import "testing"

func TestMemoryInitial(t *testing.T) {
	h := NewMemory()
	if got := h.Location().Path; got != "/" {
		t.Errorf("initial path = %q, want %q", got, "/")
	}
	if got := h.Action(); got != ActionPop {
		t.Errorf("initial action = %q, want %q", got, ActionPop)
	}

	h = NewMemory("/users?page=2")
	loc := h.Location()
	if loc.Path != "/users" || loc.Query != "page=2" {
		t.Errorf("initial location = %+v, want /users?page=2", loc)
	}
}

func TestMemoryPushReplace(t *testing.T) {
	h := NewMemory()

	h.Push("/users")
	if got := h.Location().Path; got != "/users" {
		t.Errorf("path after push = %q, want %q", got, "/users")
	}
	if got := h.Action(); got != ActionPush {
		t.Errorf("action after push = %q, want %q", got, ActionPush)
	}
	if got := h.Len(); got != 2 {
		t.Errorf("len after push = %d, want 2", got)
	}

	h.Replace("/login")
	if got := h.Location().Path; got != "/login" {
		t.Errorf("path after replace = %q, want %q", got, "/login")
	}
	if got := h.Len(); got != 2 {
		t.Errorf("len after replace = %d, want 2", got)
	}
}

func TestMemoryGoClamped(t *testing.T) {
	h := NewMemory()
	h.Push("/a")
	h.Push("/b")

	h.Go(-10)
	if got := h.Location().Path; got != "/" {
		t.Errorf("path after clamped back = %q, want %q", got, "/")
	}
	if got := h.Action(); got != ActionPop {
		t.Errorf("action after go = %q, want %q", got, ActionPop)
	}

	h.Go(10)
	if got := h.Location().Path; got != "/b" {
		t.Errorf("path after clamped forward = %q, want %q", got, "/b")
	}
}

func TestMemoryPushDiscardsForward(t *testing.T) {
	h := NewMemory()
	h.Push("/a")
	h.Push("/b")
	h.Back()
	h.Push("/c")

	if got := h.Len(); got != 3 {
		t.Errorf("len = %d, want 3", got)
	}
	h.Forward()
	if got := h.Location().Path; got != "/c" {
		t.Errorf("forward after truncating push landed on %q, want %q", got, "/c")
	}
}

func TestMemoryListen(t *testing.T) {
	h := NewMemory()

	var gotLoc Location
	var gotAction Action
	calls := 0
	unlisten := h.Listen(func(loc Location, action Action) {
		gotLoc = loc
		gotAction = action
		calls++
	})

	h.Push("/users")
	if calls != 1 {
		t.Fatalf("listener called %d times, want 1", calls)
	}
	if gotLoc.Path != "/users" || gotAction != ActionPush {
		t.Errorf("listener got (%q, %q), want (/users, PUSH)", gotLoc.Path, gotAction)
	}

	h.Go(0)
	if calls != 1 {
		t.Errorf("Go(0) notified listeners; calls = %d, want 1", calls)
	}

	unlisten()
	unlisten() // second call is harmless
	h.Push("/more")
	if calls != 1 {
		t.Errorf("listener called after unlisten; calls = %d, want 1", calls)
	}
}

func TestMemoryKeysDiffer(t *testing.T) {
	h := NewMemory()
	h.Push("/users")
	first := h.Location().Key
	h.Push("/users")
	if second := h.Location().Key; second == first {
		t.Error("expected distinct keys for distinct entries")
	}
}
