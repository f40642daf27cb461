// Package codegen implements the protoc-gen-relay code generator: it
// consumes service and method descriptors and emits a client stub plus a
// server dispatch adapter for each service.
package codegen

import "strings"

// MatchName reports whether path matches pattern, using the same
// leading-dot-anchored segment matching as the original implementation's
// match_name: an empty pattern matches nothing, "." or an exact match
// matches everything, a pattern starting with "." anchors to the left of
// path, and any other pattern matches as a trailing segment sequence.
// path is a fully-qualified name with a leading dot (".foo.Bar"), the form
// Generate passes; a left-anchored pattern never matches a path without one.
func MatchName(pattern, path string) bool {
	if pattern == "" {
		return false
	}
	if pattern == "." || pattern == path {
		return true
	}

	patternSegments := strings.Split(pattern, ".")
	pathSegments := strings.Split(path, ".")

	if strings.HasPrefix(pattern, ".") {
		if len(patternSegments) > len(pathSegments) {
			return false
		}
		return segmentsEqual(patternSegments, pathSegments[:len(patternSegments)])
	}

	if len(patternSegments) > len(pathSegments) {
		return false
	}
	return segmentsEqual(patternSegments, pathSegments[len(pathSegments)-len(patternSegments):])
}

func segmentsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SnakeCase is a naive camelCase-to-snake_case converter: it lowercases
// every rune and inserts an underscore before every uppercase ASCII letter
// that follows another rune ("HTTPServer" becomes "h_t_t_p_server"),
// without any attempt at acronym or locale awareness. Ported directly from
// the original implementation's naive_snake_case, including the name —
// it really is that naive, by design, so generated identifiers stay
// predictable rather than "smart".
func SnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		b.WriteRune(toASCIILower(r))
		if i+1 < len(runes) && isUpper(runes[i+1]) {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func toASCIILower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
