package router

// directiveKind discriminates the guard directive union.
type directiveKind int

const (
	directiveInvalid directiveKind = iota
	directiveContinue
	directiveAbort
	directiveAbortWithError
	directiveRedirect
)

// Directive is the tagged result a guard passes to next: continue to the
// next guard, abort the navigation (silently or with an error), or
// restart the pipeline at a new target. The zero Directive is invalid
// and aborts with an unexpected-directive error.
type Directive struct {
	kind   directiveKind
	err    error
	target any
}

// Continue advances to the next guard, or commits if none remain.
func Continue() Directive { return Directive{kind: directiveContinue} }

// Abort stops the navigation without emitting an error event.
func Abort() Directive { return Directive{kind: directiveAbort} }

// AbortWithError stops the navigation and emits an error event wrapping
// the guard's error.
func AbortWithError(err error) Directive {
	return Directive{kind: directiveAbortWithError, err: err}
}

// RedirectTo abandons the pending route and restarts the push/replace
// cycle at the given target (a path string or RawLocation), carrying the
// original completion/abort callbacks forward.
func RedirectTo(target any) Directive {
	return Directive{kind: directiveRedirect, target: target}
}

// Guard is a navigation interceptor. Guards run strictly in registration
// order; each must invoke next exactly once. A guard may hold the
// navigation suspended for as long as it likes before calling next.
// Calling next a second time is a no-op.
type Guard func(current, pending *Route, next func(Directive))
