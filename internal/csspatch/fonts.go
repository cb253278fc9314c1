package csspatch

import (
	"fmt"
	"strings"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/tokens"
)

// RewriteFontFaces removes every top-level @font-face block and writes the
// regenerated group where the first one was. Without existing blocks the
// group goes right after the tailwind import, else at the top of the file.
func RewriteFontFaces(css string, fonts []tokens.FontDefinition) string {
	css, at := removeRules(css, cssparse.Find(css, cssparse.IsFontFace))

	group := GenerateFonts(fonts)
	if group == "" {
		return css
	}

	if at < 0 {
		at = 0
		if imports := cssparse.Find(css, cssparse.IsTailwindImport); len(imports) > 0 {
			at = imports[0].End
		}
	}
	return insertAt(css, at, group)
}

// GenerateFonts renders one @font-face block per font file
func GenerateFonts(fonts []tokens.FontDefinition) string {
	var blocks []string
	for _, f := range fonts {
		for _, file := range f.Files {
			blocks = append(blocks, fontFace(f.Family, file))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func fontFace(family string, file tokens.FontFile) string {
	var b strings.Builder
	b.WriteString("@font-face {\n")
	fmt.Fprintf(&b, "  font-family: %q;\n", family)
	if file.Format != "" {
		fmt.Fprintf(&b, "  src: url(%q) format(%q);\n", file.Path, file.Format)
	} else {
		fmt.Fprintf(&b, "  src: url(%q);\n", file.Path)
	}
	if file.Weight != "" {
		fmt.Fprintf(&b, "  font-weight: %s;\n", file.Weight)
	}
	style := file.Style
	if style == "" {
		style = "normal"
	}
	fmt.Fprintf(&b, "  font-style: %s;\n", style)
	b.WriteString("  font-display: swap;\n")
	b.WriteString("}")
	return b.String()
}
