package cssparse

import (
	"regexp"
	"strings"

	"github.com/yacobolo/themesync/internal/tokens"
)

// srcPattern matches one "url(...) format(...)" entry of a src descriptor
var srcPattern = regexp.MustCompile(`url\(\s*(?:"([^"]*)"|'([^']*)'|([^)\s]*))\s*\)(?:\s*format\(\s*["']?([^"')]*)["']?\s*\))?`)

// FontFaces extracts the top-level @font-face blocks grouped by family in
// first-seen order
func FontFaces(css string) []tokens.FontDefinition {
	var (
		fonts []tokens.FontDefinition
		index = make(map[string]int)
	)

	for _, r := range Find(css, IsFontFace) {
		body := ParseBody(r.Body(css))
		family, _ := body.Get("font-family")
		family = Unquote(family)
		if family == "" {
			continue
		}

		weight, _ := body.Get("font-weight")
		style, _ := body.Get("font-style")
		if style == "" {
			style = "normal"
		}
		src, _ := body.Get("src")

		i, ok := index[family]
		if !ok {
			i = len(fonts)
			index[family] = i
			fonts = append(fonts, tokens.FontDefinition{
				ID:      tokens.FontID(family),
				Family:  family,
				Files:   []tokens.FontFile{},
				Weights: []int{},
				Styles:  []string{},
			})
		}

		for _, m := range srcPattern.FindAllStringSubmatch(src, -1) {
			path := m[1] + m[2] + m[3]
			if path == "" {
				continue
			}
			if fonts[i].Source == "" {
				fonts[i].Source = FontSource(path)
			}
			fonts[i].AddFile(tokens.FontFile{
				Path:   path,
				Format: m[4],
				Weight: weight,
				Style:  style,
			})
		}
	}

	for i := range fonts {
		if fonts[i].Source == "" {
			fonts[i].Source = tokens.SourceLocal
		}
	}

	return fonts
}

// FontSource infers where a font file is served from by its URL shape
func FontSource(path string) tokens.FontSource {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "fonts.gstatic.com"), strings.Contains(lower, "fonts.googleapis.com"):
		return tokens.SourceGoogle
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "//"):
		return tokens.SourceRemote
	default:
		return tokens.SourceLocal
	}
}

// Unquote trims whitespace and one pair of matching quotes
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
