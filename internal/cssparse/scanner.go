package cssparse

import (
	"strings"
)

// Rule is one top-level construct found by the block scanner. Offsets are
// absolute byte positions in the scanned text.
//
//	@theme inline { --color-a: #fff; }
//	^Start         ^BodyStart       ^BodyEnd
//	                                 ^End-1
type Rule struct {
	Prelude   string // Selector or at-rule head, comments removed, trimmed
	Start     int    // First byte of the prelude
	BodyStart int    // Byte after '{'
	BodyEnd   int    // Byte of the matching '}'
	End       int    // Byte after '}' or ';'
	Statement bool   // Block-less: "@import ...;" or a declaration inside a body
}

// Body returns the text between the braces
func (r Rule) Body(css string) string {
	return css[r.BodyStart:r.BodyEnd]
}

// Text returns the whole rule including its prelude
func (r Rule) Text(css string) string {
	return css[r.Start:r.End]
}

// IsAt reports whether the rule is the named at-rule ("@theme", "@font-face")
func (r Rule) IsAt(keyword string) bool {
	if !strings.HasPrefix(r.Prelude, keyword) {
		return false
	}
	rest := r.Prelude[len(keyword):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '"' || rest[0] == '\'' || rest[0] == '('
}

// Scan walks css and returns its top-level rules in source order
func Scan(css string) []Rule {
	return ScanRange(css, 0, len(css))
}

// Children scans the body of r
func Children(css string, r Rule) []Rule {
	if r.Statement {
		return nil
	}
	return ScanRange(css, r.BodyStart, r.BodyEnd)
}

// ScanRange returns the depth-zero rules in css[from:to]. Comments and
// strings are skipped; there is no nesting limit. An unbalanced rule
// extends to the end of the range.
func ScanRange(css string, from, to int) []Rule {
	var (
		rules  []Rule
		depth  int
		parens int
		start  = -1
		cur    Rule
	)

	for i := from; i < to; i++ {
		c := css[i]

		switch {
		case c == '/' && i+1 < to && css[i+1] == '*':
			end := strings.Index(css[i+2:to], "*/")
			if end < 0 {
				i = to
			} else {
				i += end + 3
			}
			continue

		case c == '"' || c == '\'':
			if start < 0 && depth == 0 {
				start = i
			}
			i = skipString(css, i, to)
			continue

		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			continue
		}

		if depth == 0 && start < 0 && c != '}' {
			start = i
		}

		switch c {
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		case '{':
			if depth == 0 {
				cur = Rule{
					Prelude:   cleanPrelude(css[start:i]),
					Start:     start,
					BodyStart: i + 1,
				}
			}
			depth++
			parens = 0
		case '}':
			if depth == 0 {
				// Stray closing brace
				start = -1
				continue
			}
			depth--
			parens = 0
			if depth == 0 {
				cur.BodyEnd = i
				cur.End = i + 1
				rules = append(rules, cur)
				start = -1
			}
		case ';':
			if depth == 0 && parens == 0 && start >= 0 {
				rules = append(rules, Rule{
					Prelude:   cleanPrelude(css[start:i]),
					Start:     start,
					BodyStart: i,
					BodyEnd:   i,
					End:       i + 1,
					Statement: true,
				})
				start = -1
			}
		}
	}

	switch {
	case depth > 0:
		cur.BodyEnd = to
		cur.End = to
		rules = append(rules, cur)
	case start >= 0:
		// Trailing declaration without a semicolon
		rules = append(rules, Rule{
			Prelude:   cleanPrelude(css[start:to]),
			Start:     start,
			BodyStart: to,
			BodyEnd:   to,
			End:       to,
			Statement: true,
		})
	}

	return rules
}

// skipString returns the index of the closing quote of the string at i
func skipString(css string, i, to int) int {
	quote := css[i]
	for j := i + 1; j < to; j++ {
		switch css[j] {
		case '\\':
			j++
		case quote, '\n':
			return j
		}
	}
	return to
}

func cleanPrelude(s string) string {
	return strings.Join(strings.Fields(StripComments(s)), " ")
}

// CommentSpans returns the [start, end) offsets of every comment in css
func CommentSpans(css string) [][2]int {
	var spans [][2]int
	for i := 0; i < len(css); i++ {
		switch css[i] {
		case '"', '\'':
			i = skipString(css, i, len(css))
		case '/':
			if i+1 < len(css) && css[i+1] == '*' {
				end := strings.Index(css[i+2:], "*/")
				if end < 0 {
					spans = append(spans, [2]int{i, len(css)})
					return spans
				}
				spans = append(spans, [2]int{i, i + end + 4})
				i += end + 3
			}
		}
	}
	return spans
}

// StripComments removes every comment from css, leaving strings intact
func StripComments(css string) string {
	spans := CommentSpans(css)
	if len(spans) == 0 {
		return css
	}
	var b strings.Builder
	b.Grow(len(css))
	last := 0
	for _, s := range spans {
		b.WriteString(css[last:s[0]])
		last = s[1]
	}
	b.WriteString(css[last:])
	return b.String()
}

// InComment reports whether offset falls inside one of spans
func InComment(spans [][2]int, offset int) bool {
	for _, s := range spans {
		if offset >= s[0] && offset < s[1] {
			return true
		}
	}
	return false
}

// Find returns the top-level rules whose prelude satisfies match
func Find(css string, match func(Rule) bool) []Rule {
	var out []Rule
	for _, r := range Scan(css) {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// IsThemeInline matches "@theme inline { ... }"
func IsThemeInline(r Rule) bool {
	return !r.Statement && r.IsAt("@theme") && hasWord(r.Prelude, "inline")
}

// IsTheme matches any "@theme" block without the inline keyword
func IsTheme(r Rule) bool {
	return !r.Statement && r.IsAt("@theme") && !hasWord(r.Prelude, "inline")
}

// IsFontFace matches "@font-face { ... }"
func IsFontFace(r Rule) bool {
	return !r.Statement && r.Prelude == "@font-face"
}

// IsLayerBase matches "@layer base { ... }"
func IsLayerBase(r Rule) bool {
	if r.Statement || !r.IsAt("@layer") {
		return false
	}
	for _, name := range strings.Split(strings.TrimSpace(r.Prelude[len("@layer"):]), ",") {
		if strings.TrimSpace(name) == "base" {
			return true
		}
	}
	return false
}

// IsClass returns a matcher for the exact selector ".<name>"
func IsClass(name string) func(Rule) bool {
	return func(r Rule) bool {
		return !r.Statement && r.Prelude == "."+name
	}
}

// IsTailwindImport matches `@import "tailwindcss";`
func IsTailwindImport(r Rule) bool {
	if !r.Statement || !r.IsAt("@import") {
		return false
	}
	spec := strings.TrimSpace(r.Prelude[len("@import"):])
	return strings.HasPrefix(spec, `"tailwindcss"`) || strings.HasPrefix(spec, `'tailwindcss'`)
}

func hasWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}
