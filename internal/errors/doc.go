// Package errors provides structured, actionable error values for the
// navigation engine.
//
// Every navigation-time failure carries a category and a stable code so
// error listeners can dispatch on it without string matching.
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: malformed route prefabs discovered while building the tree
//   - location: malformed raw URLs (multiple query/hash separators)
//   - resolution: no matching route, unknown route name, bad parameters
//   - guard: a navigation guard rejected the attempt or misbehaved
//   - asyncload: an asynchronous component failed to load
//
// # Error Codes
//
// Each error has a unique code (e.g. "W001") that maps to a short message
// and a longer explanation.
//
// # Usage
//
//	err := errors.New("W020").
//	    WithDetail("no route matches /users/abc").
//	    WithSuggestion("check the declared parameter sub-patterns")
package errors
