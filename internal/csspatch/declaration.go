// Package csspatch applies token edits to CSS text. Every edit locates its
// section with the cssparse scanner and rewrites only that span; all other
// bytes pass through unchanged.
package csspatch

import (
	"regexp"
	"strings"

	"github.com/yacobolo/themesync/internal/cssparse"
)

// scope is a [from, to) byte range searched for a declaration
type scope struct {
	from, to int
}

// declPattern matches "<prop>: <value>;" anchored on the full property
// name so "--color-sun" never matches "--color-sun-yellow"
func declPattern(prop string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^A-Za-z0-9_-])(` + regexp.QuoteMeta(prop) + `\s*:\s*)([^;{}]+)(;)`)
}

// lineDeclPattern matches a whole declaration line including its leading
// newline and indentation
func lineDeclPattern(prop string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|\n)[ \t]*` + regexp.QuoteMeta(prop) + `\s*:[^;{}]*;[ \t]*`)
}

// themeScopes returns the bodies searched for a declaration: the @theme
// blocks, then the @theme inline blocks (or the reverse when inlineFirst),
// then the whole text
func themeScopes(css string, inlineFirst bool) []scope {
	var theme, inline []scope
	for _, r := range cssparse.Scan(css) {
		switch {
		case cssparse.IsThemeInline(r):
			inline = append(inline, scope{r.BodyStart, r.BodyEnd})
		case cssparse.IsTheme(r):
			theme = append(theme, scope{r.BodyStart, r.BodyEnd})
		}
	}

	var out []scope
	if inlineFirst {
		out = append(inline, theme...)
	} else {
		out = append(theme, inline...)
	}
	return append(out, scope{0, len(css)})
}

// findDeclaration returns the submatch indexes of the first declaration of
// prop outside comments, searching scopes in order
func findDeclaration(css, prop string, scopes []scope) []int {
	re := declPattern(prop)
	comments := cssparse.CommentSpans(css)

	for _, s := range scopes {
		for _, m := range re.FindAllStringSubmatchIndex(css[s.from:s.to], -1) {
			abs := make([]int, len(m))
			for i, v := range m {
				abs[i] = v
				if v >= 0 {
					abs[i] = v + s.from
				}
			}
			if !cssparse.InComment(comments, abs[4]) {
				return abs
			}
		}
	}
	return nil
}

// SetDeclaration replaces the value of the first declaration of prop. The
// count is 1 only when the value actually changed.
func SetDeclaration(css, prop, value string) (string, int) {
	return setDeclaration(css, prop, value, themeScopes(css, false))
}

func setDeclaration(css, prop, value string, scopes []scope) (string, int) {
	value = strings.TrimSpace(value)
	m := findDeclaration(css, prop, scopes)
	if m == nil {
		return css, 0
	}

	// Group 3 is the value; keep whitespace that precedes the semicolon
	start, end := m[6], m[7]
	old := css[start:end]
	trimmed := strings.TrimRight(old, " \t\r\n")
	if trimmed == value {
		return css, 0
	}
	return css[:start] + value + old[len(trimmed):] + css[end:], 1
}

// HasDeclaration reports whether prop is declared anywhere outside comments
func HasDeclaration(css, prop string) bool {
	return findDeclaration(css, prop, []scope{{0, len(css)}}) != nil
}

// RemoveDeclaration deletes the first declaration of prop together with its
// line. Returns 1 when something was removed.
func RemoveDeclaration(css, prop string) (string, int) {
	comments := cssparse.CommentSpans(css)
	re := lineDeclPattern(prop)

	for _, s := range themeScopes(css, false) {
		for _, m := range re.FindAllStringIndex(css[s.from:s.to], -1) {
			start, end := m[0]+s.from, m[1]+s.from
			if cssparse.InComment(comments, strings.Index(css[start:end], prop)+start) {
				continue
			}
			return css[:start] + css[end:], 1
		}
	}

	// Declarations sharing a line with others
	m := findDeclaration(css, prop, themeScopes(css, false))
	if m == nil {
		return css, 0
	}
	start, end := m[4], m[9]
	for end < len(css) && (css[end] == ' ' || css[end] == '\t') {
		end++
	}
	return css[:start] + css[end:], 1
}

// AddDeclaration appends "prop: value;" before the closing brace of the
// @theme block, creating the block when needed. A color goes to the block
// that already holds the base colors when there is one. An existing
// declaration is updated in place instead.
func AddDeclaration(css, prop, value string) (string, int) {
	return addDeclaration(css, prop, value, false)
}

func addDeclaration(css, prop, value string, inline bool) (string, int) {
	if HasDeclaration(css, prop) {
		return setDeclaration(css, prop, value, themeScopes(css, inline))
	}

	if !inline && strings.HasPrefix(prop, cssparse.ColorPrefix) {
		if block, ok := baseColorBlock(css); ok {
			return appendToBlock(css, block, prop+": "+strings.TrimSpace(value)+";"), 1
		}
	}

	css = EnsureThemeBlock(css, inline)
	match := cssparse.IsTheme
	if inline {
		match = cssparse.IsThemeInline
	}
	blocks := cssparse.Find(css, match)
	block := blocks[len(blocks)-1]

	return appendToBlock(css, block, prop+": "+strings.TrimSpace(value)+";"), 1
}

// baseColorBlock returns the first theme block, inline or not, that already
// holds a base color: a color declaration whose value is not a var()
func baseColorBlock(css string) (cssparse.Rule, bool) {
	blocks := cssparse.Find(css, func(r cssparse.Rule) bool {
		return cssparse.IsTheme(r) || cssparse.IsThemeInline(r)
	})
	for _, b := range blocks {
		for _, d := range cssparse.Declarations(b.Body(css)) {
			if strings.HasPrefix(d.Name, cssparse.ColorPrefix) && !strings.HasPrefix(strings.TrimSpace(d.Value), "var(") {
				return b, true
			}
		}
	}
	return cssparse.Rule{}, false
}

// appendToBlock inserts text as the last entry of a block body, indented
// like the existing entries. Multi-line text is indented line by line.
func appendToBlock(css string, block cssparse.Rule, text string) string {
	body := block.Body(css)
	indent := bodyIndent(body)

	entry := indentLines(text, indent)

	// "...;\n}" keeps the closing line; "{ }" is opened up
	if nl := strings.LastIndex(body, "\n"); nl >= 0 && strings.TrimSpace(body[nl:]) == "" {
		at := block.BodyStart + nl + 1
		if strings.TrimSpace(body) == "" {
			at = block.BodyStart
			return css[:at] + "\n" + entry + "\n" + css[block.BodyEnd:]
		}
		return css[:at] + entry + "\n" + css[at:]
	}

	trimmed := strings.TrimRight(body, " \t")
	at := block.BodyStart + len(trimmed)
	return css[:at] + "\n" + entry + "\n" + css[block.BodyEnd:]
}

// bodyIndent returns the indentation of the first indented line of body
func bodyIndent(body string) string {
	for _, line := range strings.Split(body, "\n")[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	}
	return "  "
}

// EnsureThemeBlocks creates the @theme inline and @theme blocks when they
// are missing
func EnsureThemeBlocks(css string) string {
	return EnsureThemeBlock(EnsureThemeBlock(css, true), false)
}

// EnsureThemeBlock creates one theme block when missing. "@theme inline"
// goes right after the tailwind import; "@theme" right after the inline
// block, else after the import. Without an anchor the block starts the file.
func EnsureThemeBlock(css string, inline bool) string {
	var anchor *cssparse.Rule
	for _, r := range cssparse.Scan(css) {
		switch {
		case inline && cssparse.IsThemeInline(r), !inline && cssparse.IsTheme(r):
			return css
		case cssparse.IsTailwindImport(r) && anchor == nil:
			anchor = &r
		case !inline && cssparse.IsThemeInline(r):
			anchor = &r
		}
	}

	block := "@theme {\n}"
	if inline {
		block = "@theme inline {\n}"
	}

	if anchor == nil {
		if strings.TrimSpace(css) == "" {
			return block + "\n"
		}
		return block + "\n\n" + css
	}
	return css[:anchor.End] + "\n\n" + block + css[anchor.End:]
}
