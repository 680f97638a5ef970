// Package xregexp builds readable regular expressions out of small
// composable operators, for the identifier and key grammars.
package xregexp

import "strings"

// Expression concatenates sub-expressions, each of which must follow
// the previous.
func Expression(res ...string) string {
	return strings.Join(res, "")
}

// Optional wraps the expression in a non-capturing group matched zero
// or one times.
func Optional(res ...string) string {
	return Group(Expression(res...)) + `?`
}

// Group wraps the expression in a non-capturing group.
func Group(res ...string) string {
	return `(?:` + Expression(res...) + `)`
}

// Capture wraps the expression in a capturing group.
func Capture(res ...string) string {
	return `(` + Expression(res...) + `)`
}

// Anchored pins the expression to the start and end of its input.
func Anchored(res ...string) string {
	return `^` + Expression(res...) + `$`
}
