package csspatch

import (
	"sort"

	"github.com/yacobolo/themesync/internal/cssparse"
)

// TokenChanges is a partial change-set for a tokens file. Keys are token
// names without their prefix ("sun-yellow", "md", "card").
type TokenChanges struct {
	Colors       map[string]string `json:"colors,omitempty"`
	Radius       map[string]string `json:"radius,omitempty"`
	Shadows      map[string]string `json:"shadows,omitempty"`
	AddColors    map[string]string `json:"addColors,omitempty"`
	RemoveColors []string          `json:"removeColors,omitempty"`
}

// Empty reports whether the change-set carries no edits
func (c TokenChanges) Empty() bool {
	return len(c.Colors) == 0 && len(c.Radius) == 0 && len(c.Shadows) == 0 &&
		len(c.AddColors) == 0 && len(c.RemoveColors) == 0
}

// ApplyTokens applies a change-set in the order remove, set colors, radius,
// shadows, add. It returns the patched text and the number of declarations
// that changed. Values sent for names that do not exist count zero.
func ApplyTokens(css string, changes TokenChanges) (string, int) {
	total := 0
	apply := func(out string, n int) {
		css = out
		total += n
	}

	for _, name := range changes.RemoveColors {
		apply(RemoveDeclaration(css, cssparse.ColorPrefix+name))
	}
	for _, name := range sortedKeys(changes.Colors) {
		apply(SetDeclaration(css, cssparse.ColorPrefix+name, changes.Colors[name]))
	}
	for _, name := range sortedKeys(changes.Radius) {
		apply(SetDeclaration(css, cssparse.RadiusPrefix+name, changes.Radius[name]))
	}
	for _, name := range sortedKeys(changes.Shadows) {
		apply(SetDeclaration(css, cssparse.ShadowPrefix+name, changes.Shadows[name]))
	}
	for _, name := range sortedKeys(changes.AddColors) {
		apply(AddDeclaration(css, cssparse.ColorPrefix+name, changes.AddColors[name]))
	}

	return css, total
}

// ApplySemantic points semantic tokens at new base colors. Only the right
// hand side changes, to "var(--color-<base>)". The @theme inline block is
// searched first.
func ApplySemantic(css string, mappings map[string]string) (string, int) {
	total := 0
	for _, name := range sortedKeys(mappings) {
		prop := cssparse.ColorPrefix + name
		value := "var(" + cssparse.ColorPrefix + mappings[name] + ")"

		var n int
		css, n = setDeclaration(css, prop, value, themeScopes(css, true))
		total += n
	}
	return css, total
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
