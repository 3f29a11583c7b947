package history

import "testing"

func TestHashPushWritesFragment(t *testing.T) {
	inner := NewMemory("/index.html")
	h := NewHash(inner, HashSlash)

	h.Push("/users/5")

	innerLoc := inner.Location()
	if innerLoc.Path != "/index.html" {
		t.Errorf("document path changed to %q", innerLoc.Path)
	}
	if innerLoc.Hash != "/users/5" {
		t.Errorf("fragment = %q, want %q", innerLoc.Hash, "/users/5")
	}

	appLoc := h.Location()
	if appLoc.Path != "/users/5" {
		t.Errorf("app path = %q, want %q", appLoc.Path, "/users/5")
	}
}

func TestHashNoSlashEncoding(t *testing.T) {
	inner := NewMemory("/index.html")
	h := NewHash(inner, HashNoSlash)

	h.Push("/users/5")
	if got := inner.Location().Hash; got != "users/5" {
		t.Errorf("fragment = %q, want %q", got, "users/5")
	}
	// Decoding restores the leading slash.
	if got := h.Location().Path; got != "/users/5" {
		t.Errorf("app path = %q, want %q", got, "/users/5")
	}
}

func TestHashQueryInFragment(t *testing.T) {
	inner := NewMemory("/index.html")
	h := NewHash(inner, HashSlash)

	h.Push("/users?page=2")
	loc := h.Location()
	if loc.Path != "/users" || loc.Query != "page=2" {
		t.Errorf("app location = %+v, want /users?page=2", loc)
	}
}

func TestHashAppFragmentEscaped(t *testing.T) {
	inner := NewMemory("/index.html")
	h := NewHash(inner, HashSlash)

	h.Push("/users/42#top")

	// The app-level fragment must not introduce a second "#" into the
	// outer URL.
	if got := inner.Location().Hash; got != "/users/42%23top" {
		t.Errorf("fragment = %q, want %q", got, "/users/42%23top")
	}

	loc := h.Location()
	if loc.Path != "/users/42" || loc.Hash != "top" {
		t.Errorf("app location = %+v, want /users/42#top", loc)
	}
	if got := loc.FullPath(); got != "/users/42#top" {
		t.Errorf("full path = %q, want %q", got, "/users/42#top")
	}
}

func TestHashEmptyFragmentIsRoot(t *testing.T) {
	inner := NewMemory("/index.html")
	h := NewHash(inner, HashSlash)
	if got := h.Location().Path; got != "/" {
		t.Errorf("app path = %q, want %q", got, "/")
	}
}

func TestHashListenTranslates(t *testing.T) {
	inner := NewMemory("/index.html")
	h := NewHash(inner, HashSlash)

	var got Location
	unlisten := h.Listen(func(loc Location, action Action) { got = loc })
	defer unlisten()

	h.Push("/users/5")
	if got.Path != "/users/5" {
		t.Errorf("listener saw path %q, want %q", got.Path, "/users/5")
	}
}

func TestHashGoTraversesInner(t *testing.T) {
	inner := NewMemory("/index.html")
	h := NewHash(inner, HashSlash)

	h.Push("/a")
	h.Push("/b")
	h.Back()
	if got := h.Location().Path; got != "/a" {
		t.Errorf("path after back = %q, want %q", got, "/a")
	}
	h.Forward()
	if got := h.Location().Path; got != "/b" {
		t.Errorf("path after forward = %q, want %q", got, "/b")
	}
}
