package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "W001",
			wantMsg: "Invalid route prefab",
			wantCat: CategoryConfig,
		},
		{
			name:    "location error",
			code:    "W010",
			wantMsg: "Invalid URL",
			wantCat: CategoryLocation,
		},
		{
			name:    "resolution error",
			code:    "W020",
			wantMsg: "No matching route",
			wantCat: CategoryResolution,
		},
		{
			name:    "guard error",
			code:    "W031",
			wantMsg: "Unexpected guard directive",
			wantCat: CategoryGuard,
		},
		{
			name:    "unknown error code",
			code:    "W999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryResolution, "no route for %q", "/nope")
	if err.Message != `no route for "/nope"` {
		t.Errorf("Message = %q, want %q", err.Message, `no route for "/nope"`)
	}
	if err.Category != CategoryResolution {
		t.Errorf("Category = %q, want %q", err.Category, CategoryResolution)
	}
}

func TestNavErrorError(t *testing.T) {
	err := New("W020")
	got := err.Error()
	want := "W020: No matching route"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Without code
	err2 := &NavError{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("inner failure")
	err := New("W040").Wrap(inner)
	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}

	var ne *NavError
	if !errors.As(err, &ne) {
		t.Error("errors.As should find *NavError")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "W040") != nil {
		t.Error("FromError(nil) should be nil")
	}

	ne := New("W030")
	if got := FromError(ne, "W040"); got != ne {
		t.Error("FromError should pass *NavError through unchanged")
	}

	plain := errors.New("boom")
	wrapped := FromError(plain, "W040")
	if wrapped.Code != "W040" {
		t.Errorf("Code = %q, want W040", wrapped.Code)
	}
	if !errors.Is(wrapped, plain) {
		t.Error("wrapped error should satisfy errors.Is on the original")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("W022").
		WithDetail("parameter id=abc does not match (\\d+)").
		WithSuggestion("pass a numeric id")

	out := err.Format()
	for _, want := range []string{"W022", "Invalid route parameters", "[resolution]", "Hint: pass a numeric id"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("aaa bbb ccc ddd", 7)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0] != "aaa bbb" || lines[1] != "ccc ddd" {
		t.Errorf("lines = %v", lines)
	}
}
