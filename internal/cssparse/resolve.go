package cssparse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnresolved is returned when a var() chain names a variable that is not defined
	ErrUnresolved = errors.New("unresolved variable reference")
	// ErrCycle is returned when a var() chain revisits a variable
	ErrCycle = errors.New("variable reference cycle")
)

var varPattern = regexp.MustCompile(`^var\(\s*(--[A-Za-z0-9_-]+)\s*(?:,\s*(.*?))?\s*\)$`)

// Resolve follows the var() chain starting at the custom property name and
// returns the first literal value. Composite values such as
// "calc(var(--a) * 2)" are returned unchanged.
func Resolve(name string, vars map[string]string) (string, error) {
	return resolveValue("var("+name+")", vars, make(map[string]bool))
}

// ResolveValue resolves a declaration value the same way as Resolve
func ResolveValue(value string, vars map[string]string) (string, error) {
	return resolveValue(value, vars, make(map[string]bool))
}

func resolveValue(value string, vars map[string]string, visited map[string]bool) (string, error) {
	value = strings.TrimSpace(value)
	ref, fallback, ok := splitVar(value)
	if !ok {
		return value, nil
	}

	if visited[ref] {
		return "", fmt.Errorf("%w at %s", ErrCycle, ref)
	}

	next, defined := vars[ref]
	if !defined {
		if fallback != "" {
			return resolveValue(fallback, vars, visited)
		}
		return "", fmt.Errorf("%w: %s", ErrUnresolved, ref)
	}

	visited[ref] = true
	return resolveValue(next, vars, visited)
}

// splitVar parses "var(--name[, fallback])"
func splitVar(value string) (ref, fallback string, ok bool) {
	m := varPattern.FindStringSubmatch(value)
	if m == nil || !balanced(m[2]) {
		return "", "", false
	}
	return m[1], m[2], true
}

func balanced(s string) bool {
	depth := 0
	for _, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// cssKeywords are color values that never name a base color
var cssKeywords = map[string]bool{
	"transparent":  true,
	"currentcolor": true,
	"inherit":      true,
	"initial":      true,
	"unset":        true,
	"revert":       true,
	"none":         true,
}

// ReferenceName returns the base color name of a "var(--color-<name>)"
// value, or the trimmed value itself when it is any other literal
func ReferenceName(value string) string {
	value = strings.TrimSpace(value)
	ref, fallback, ok := splitVar(value)
	if ok && fallback == "" && strings.HasPrefix(ref, ColorPrefix) {
		return strings.TrimPrefix(ref, ColorPrefix)
	}
	return value
}

// ReferenceValue is the inverse of ReferenceName: token names become
// "var(--color-<name>)", other literals are written as-is
func ReferenceValue(ref string) string {
	ref = strings.TrimSpace(ref)
	if IsReference(ref) {
		return "var(" + ColorPrefix + ref + ")"
	}
	return ref
}

// IsReference reports whether ref looks like a base color name rather
// than a CSS literal
func IsReference(ref string) bool {
	if ref == "" || cssKeywords[strings.ToLower(ref)] {
		return false
	}
	if ref[0] >= '0' && ref[0] <= '9' {
		return false
	}
	for _, c := range ref {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}
