package csspatch

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/tokens"
)

// Generate renders a complete tokens document for a snapshot: the tailwind
// import, "@theme inline" with the semantic tokens, "@theme" with base
// colors, radii and shadows, then the mode blocks.
func Generate(snap *tokens.Snapshot) string {
	var b strings.Builder
	b.WriteString("@import \"tailwindcss\";\n\n")

	b.WriteString("@theme inline {\n")
	for _, t := range snap.Semantic {
		writeDecl(&b, cssparse.ColorPrefix+t.Name, semanticValue(snap, t.Reference))
	}
	b.WriteString("}\n\n")

	b.WriteString("@theme {\n")
	for _, c := range snap.Colors {
		writeDecl(&b, cssparse.ColorPrefix+c.Name, c.Value)
	}
	for _, k := range sortedKeys(snap.Radius) {
		writeDecl(&b, cssparse.RadiusPrefix+k, snap.Radius[k])
	}
	for _, k := range sortedKeys(snap.Shadows) {
		writeDecl(&b, cssparse.ShadowPrefix+k, snap.Shadows[k])
	}
	b.WriteString("}\n")

	for _, m := range snap.Modes {
		if block := GenerateMode(m); block != "" {
			b.WriteString("\n" + block + "\n")
		}
	}

	return b.String()
}

// semanticValue writes references to known base colors as var(); other
// references follow the same rule as mode overrides
func semanticValue(snap *tokens.Snapshot, ref string) string {
	if _, ok := snap.Color(ref); ok {
		return "var(" + cssparse.ColorPrefix + ref + ")"
	}
	return cssparse.ReferenceValue(ref)
}

func writeDecl(b *strings.Builder, prop, value string) {
	b.WriteString("  " + prop + ": " + value + ";\n")
}

// GenerateFontsFile renders a fonts file for a snapshot
func GenerateFontsFile(snap *tokens.Snapshot) string {
	if group := GenerateFonts(snap.Fonts); group != "" {
		return group + "\n"
	}
	return ""
}

// GenerateTypographyFile renders a typography file for a snapshot
func GenerateTypographyFile(snap *tokens.Snapshot) string {
	if layer := GenerateTypography(snap.Typography); layer != "" {
		return layer + "\n"
	}
	return ""
}

// UnifiedDiff renders a unified diff between two versions of a file, or ""
// when they are equal
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (patched)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}
