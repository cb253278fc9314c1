package csspatch

import (
	"strings"

	"github.com/yacobolo/themesync/internal/cssparse"
)

// removeRules cuts rules (in source order) out of css together with the
// whitespace that precedes each one. A rule at the start of the file takes
// its trailing whitespace instead. It returns the new text and the offset
// where the first rule used to be, or -1.
func removeRules(css string, rules []cssparse.Rule) (string, int) {
	first := -1
	for i := len(rules) - 1; i >= 0; i-- {
		start, end := rules[i].Start, rules[i].End
		for start > 0 && isSpace(css[start-1]) {
			start--
		}
		if start == 0 {
			for end < len(css) && isSpace(css[end]) {
				end++
			}
		}
		css = css[:start] + css[end:]
		first = start
	}
	return css, first
}

// insertAt places a block at offset, separated from its neighbours by a
// blank line
func insertAt(css string, at int, block string) string {
	if at <= 0 {
		if strings.TrimSpace(css) == "" {
			return block + "\n"
		}
		return block + "\n\n" + css
	}
	return css[:at] + "\n\n" + block + css[at:]
}

// insertBefore places a block directly before offset, separated from what
// follows by a blank line
func insertBefore(css string, at int, block string) string {
	return css[:at] + block + "\n\n" + css[at:]
}

// appendBlock adds a block at the end of the file
func appendBlock(css, block string) string {
	if strings.TrimSpace(css) == "" {
		return block + "\n"
	}
	if !strings.HasSuffix(css, "\n") {
		css += "\n"
	}
	return css + "\n" + block + "\n"
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
