package csspatch

import (
	"strings"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/tokens"
)

// ApplyTypography writes each style as the @apply statement of its element
// rule inside "@layer base". Other declarations of the rule are kept. A
// missing rule is appended to the layer, a missing layer to the file.
func ApplyTypography(css string, styles []tokens.TypographyStyle) string {
	for _, style := range styles {
		css = applyStyle(css, style)
	}
	return css
}

func applyStyle(css string, style tokens.TypographyStyle) string {
	classes := cssparse.FormatApply(style)
	statement := "@apply " + classes + ";"

	layers := cssparse.Find(css, cssparse.IsLayerBase)
	if len(layers) == 0 {
		if classes == "" {
			return css
		}
		return appendBlock(css, GenerateTypography([]tokens.TypographyStyle{style}))
	}

	for _, layer := range layers {
		for _, r := range cssparse.Children(css, layer) {
			if r.Statement || r.Prelude != style.Element {
				continue
			}
			return replaceApply(css, r, statement, classes == "")
		}
	}

	if classes == "" {
		return css
	}
	layer := layers[len(layers)-1]
	return appendToBlock(css, layer, elementRule(style.Element, statement, bodyIndent(layer.Body(css))))
}

// replaceApply swaps the first @apply statement of rule, or adds one
func replaceApply(css string, rule cssparse.Rule, statement string, remove bool) string {
	for _, child := range cssparse.Children(css, rule) {
		if !child.Statement || !child.IsAt("@apply") {
			continue
		}
		if remove {
			out, _ := removeRules(css, []cssparse.Rule{child})
			return out
		}
		return css[:child.Start] + statement + css[child.End:]
	}
	if remove {
		return css
	}
	return appendToBlock(css, rule, statement)
}

// elementRule renders "<element> {\n<indent>@apply ...;\n}"
func elementRule(element, statement, indent string) string {
	return element + " {\n" + indent + statement + "\n}"
}

// GenerateTypography renders a complete "@layer base" block
func GenerateTypography(styles []tokens.TypographyStyle) string {
	var rules []string
	for _, style := range styles {
		classes := cssparse.FormatApply(style)
		if classes == "" {
			continue
		}
		rule := elementRule(style.Element, "@apply "+classes+";", "  ")
		rules = append(rules, indentLines(rule, "  "))
	}
	if len(rules) == 0 {
		return ""
	}
	return "@layer base {\n" + strings.Join(rules, "\n\n") + "\n}"
}

func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
