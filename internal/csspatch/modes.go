package csspatch

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/tokens"
)

var scrollbarComment = regexp.MustCompile(`(?i)scrollbar`)

// RewriteModes replaces every top-level ".<mode>" block for the allow-listed
// and requested mode names with freshly generated blocks. Modes without
// overrides produce no block, so sending an empty list removes them all.
func RewriteModes(css string, modes []tokens.ColorMode, allow []string) string {
	names := make(map[string]bool)
	for _, m := range allow {
		names[m] = true
	}
	for _, m := range modes {
		names[className(m)] = true
	}

	var stale []cssparse.Rule
	for _, r := range cssparse.Scan(css) {
		if !r.Statement && strings.HasPrefix(r.Prelude, ".") && names[r.Prelude[1:]] {
			stale = append(stale, r)
		}
	}
	css, _ = removeRules(css, stale)

	var blocks []string
	for _, m := range modes {
		if block := GenerateMode(m); block != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return css
	}
	group := strings.Join(blocks, "\n\n")

	if roots := cssparse.Find(css, func(r cssparse.Rule) bool { return !r.Statement && r.Prelude == ":root" }); len(roots) > 0 {
		return insertBefore(css, roots[0].Start, group)
	}
	if at := scrollbarCommentOffset(css); at >= 0 {
		return insertBefore(css, at, group)
	}
	return appendBlock(css, group)
}

// GenerateMode renders one mode block with sorted override keys, or ""
// when the mode has no overrides
func GenerateMode(m tokens.ColorMode) string {
	if len(m.Overrides) == 0 {
		return ""
	}

	keys := make([]string, 0, len(m.Overrides))
	for k := range m.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("." + className(m) + " {\n")
	for _, k := range keys {
		b.WriteString("  " + cssparse.ColorPrefix + k + ": " + cssparse.ReferenceValue(m.Overrides[k]) + ";\n")
	}
	b.WriteString("}")
	return b.String()
}

func className(m tokens.ColorMode) string {
	if m.ClassName != "" {
		return m.ClassName
	}
	return m.Name
}

// scrollbarCommentOffset returns the start of the first top-level comment
// mentioning scrollbars, or -1
func scrollbarCommentOffset(css string) int {
	rules := cssparse.Scan(css)
	for _, span := range cssparse.CommentSpans(css) {
		nested := false
		for _, r := range rules {
			if !r.Statement && span[0] > r.BodyStart && span[0] < r.BodyEnd {
				nested = true
				break
			}
		}
		if !nested && scrollbarComment.MatchString(css[span[0]:span[1]]) {
			return span[0]
		}
	}
	return -1
}
