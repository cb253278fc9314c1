package cssparse

import (
	"strings"

	"github.com/yacobolo/themesync/internal/tokens"
)

// fontWeights are the Tailwind font-weight utilities (font-<keyword>)
var fontWeights = map[string]bool{
	"thin":       true,
	"extralight": true,
	"light":      true,
	"normal":     true,
	"medium":     true,
	"semibold":   true,
	"bold":       true,
	"extrabold":  true,
	"black":      true,
}

// fontSizes are the Tailwind text-<size> scale steps
var fontSizes = map[string]bool{
	"xs": true, "sm": true, "base": true, "lg": true, "xl": true,
	"2xl": true, "3xl": true, "4xl": true, "5xl": true,
	"6xl": true, "7xl": true, "8xl": true, "9xl": true,
}

// textUtilities are text-* classes that are neither a size nor a color
var textUtilities = map[string]bool{
	"left": true, "center": true, "right": true, "justify": true,
	"start": true, "end": true, "wrap": true, "nowrap": true,
	"balance": true, "pretty": true, "ellipsis": true, "clip": true,
}

// ClassifyApply splits an @apply class list into typography slots. This is
// a best-effort import step: classes that do not fit a slot, or compete for
// one that is already filled, land in Utilities and are never dropped.
func ClassifyApply(element, classes string) tokens.TypographyStyle {
	style := tokens.TypographyStyle{Element: element, Utilities: []string{}}

	for _, class := range strings.Fields(classes) {
		if !placeClass(&style, class) {
			style.Utilities = append(style.Utilities, class)
		}
	}

	return style
}

func placeClass(style *tokens.TypographyStyle, class string) bool {
	// Variants (md:, hover:) and important modifiers stay opaque
	if strings.ContainsAny(class, ":!") {
		return false
	}

	switch {
	case strings.HasPrefix(class, "text-"):
		v := class[len("text-"):]
		switch {
		case textUtilities[v]:
			return false
		case fontSizes[v] || isArbitraryLength(v):
			return fill(&style.FontSize, v)
		default:
			return fill(&style.BaseColorID, v)
		}
	case strings.HasPrefix(class, "font-"):
		v := class[len("font-"):]
		if fontWeights[v] || isArbitraryLength(v) {
			return fill(&style.FontWeight, v)
		}
		return fill(&style.FontFamilyID, v)
	case strings.HasPrefix(class, "leading-"):
		return fill(&style.LineHeight, class[len("leading-"):])
	case strings.HasPrefix(class, "tracking-"):
		return fill(&style.LetterSpacing, class[len("tracking-"):])
	}
	return false
}

func fill(slot *string, value string) bool {
	if *slot != "" || value == "" {
		return false
	}
	*slot = value
	return true
}

// isArbitraryLength matches numeric arbitrary values like "[14px]" or "[600]"
func isArbitraryLength(v string) bool {
	return len(v) > 2 && v[0] == '[' && v[len(v)-1] == ']' && v[1] >= '0' && v[1] <= '9'
}

// FormatApply renders a style back to an @apply class list
func FormatApply(style tokens.TypographyStyle) string {
	var classes []string
	add := func(prefix, value string) {
		if value != "" {
			classes = append(classes, prefix+value)
		}
	}

	add("font-", style.FontFamilyID)
	add("text-", style.FontSize)
	add("font-", style.FontWeight)
	add("leading-", style.LineHeight)
	add("tracking-", style.LetterSpacing)
	add("text-", style.BaseColorID)
	classes = append(classes, style.Utilities...)

	return strings.Join(classes, " ")
}
