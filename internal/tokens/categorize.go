package tokens

import (
	"sort"
	"strconv"
	"strings"
)

// neutralKeywords marks base color names that belong to the neutral scale
var neutralKeywords = map[string]bool{
	"black":     true,
	"white":     true,
	"gray":      true,
	"grey":      true,
	"neutral":   true,
	"slate":     true,
	"zinc":      true,
	"stone":     true,
	"cream":     true,
	"warm-gray": true,
	"cool-gray": true,
	"charcoal":  true,
	"ink":       true,
	"paper":     true,
}

// semanticPrefixes maps semantic token name prefixes to categories
var semanticPrefixes = map[string]SemanticCategory{
	"surface-": SemanticSurface,
	"content-": SemanticContent,
	"edge-":    SemanticEdge,
	"status-":  SemanticSystem,
	"system-":  SemanticSystem,
}

// systemNames are semantic tokens that carry state rather than a layer role
var systemNames = map[string]bool{
	"success": true,
	"warning": true,
	"error":   true,
	"danger":  true,
	"info":    true,
	"focus":   true,
	"link":    true,
}

// CategorizeColor determines whether a base color is brand or neutral
func CategorizeColor(name string) ColorCategory {
	switch {
	case strings.HasPrefix(name, "neutral-"):
		return ColorNeutral
	case strings.HasPrefix(name, "brand-"):
		return ColorBrand
	}

	if neutralKeywords[name] {
		return ColorNeutral
	}

	// Scale steps: gray-100, warm-gray-900
	if i := strings.LastIndex(name, "-"); i > 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil && neutralKeywords[name[:i]] {
			return ColorNeutral
		}
	}

	return ColorBrand
}

// CategorizeSemantic reports whether a --color-* name is a semantic token and its category
func CategorizeSemantic(name string) (SemanticCategory, bool) {
	for prefix, cat := range semanticPrefixes {
		if strings.HasPrefix(name, prefix) {
			return cat, true
		}
	}

	base := name
	if i := strings.Index(name, "-"); i > 0 {
		base = name[:i]
	}
	if systemNames[base] {
		return SemanticSystem, true
	}

	return "", false
}

// DisplayName converts a kebab-case token key to Title Case
func DisplayName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

// weightKeywords maps font-weight keywords to numeric weights
var weightKeywords = map[string]int{
	"normal": 400,
	"bold":   700,
}

// ExpandWeight expands a font-weight value into every weight it covers.
// "400" yields [400]; the range form "100 900" yields each 100-unit step.
func ExpandWeight(raw string) []int {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 || len(fields) > 2 {
		return nil
	}

	values := make([]int, 0, len(fields))
	for _, f := range fields {
		if w, ok := weightKeywords[f]; ok {
			values = append(values, w)
			continue
		}
		w, err := strconv.Atoi(f)
		if err != nil || w < 1 || w > 1000 {
			return nil
		}
		values = append(values, w)
	}

	if len(values) == 1 {
		return values
	}

	lo, hi := values[0], values[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	start := ((lo + 99) / 100) * 100
	var out []int
	for w := start; w <= hi; w += 100 {
		out = append(out, w)
	}
	return out
}

// mergeWeights adds weights to a sorted unique set
func mergeWeights(set []int, weights ...int) []int {
	seen := make(map[int]bool, len(set)+len(weights))
	for _, w := range set {
		seen[w] = true
	}
	for _, w := range weights {
		if !seen[w] {
			seen[w] = true
			set = append(set, w)
		}
	}
	sort.Ints(set)
	return set
}

// AddFile appends a font file and updates the expanded weights and styles
func (f *FontDefinition) AddFile(file FontFile) {
	f.Files = append(f.Files, file)
	f.Weights = mergeWeights(f.Weights, ExpandWeight(file.Weight)...)
	style := file.Style
	if style == "" {
		style = "normal"
	}
	for _, s := range f.Styles {
		if s == style {
			return
		}
	}
	f.Styles = append(f.Styles, style)
}
