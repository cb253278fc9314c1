package cssparse

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yacobolo/themesync/internal/tokens"
)

// Custom property prefixes that carry tokens
const (
	ColorPrefix  = "--color-"
	RadiusPrefix = "--radius-"
	ShadowPrefix = "--shadow-"
)

// DefaultModes is the mode allow-list used when none is configured
var DefaultModes = []string{"dark", "light", "contrast"}

// Options controls parsing
type Options struct {
	// Modes lists the class names treated as color modes
	Modes []string
}

func (o Options) modes() []string {
	if len(o.Modes) == 0 {
		return DefaultModes
	}
	return o.Modes
}

// ParseFile reads and parses a single CSS file. It is the only entry point
// that can fail, and only when the file cannot be read.
func ParseFile(path, themeID string, opts Options) (*tokens.Snapshot, error) {
	// #nosec G304 - path comes from the theme registry
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(themeID, string(content), opts), nil
}

// Parse extracts the token model from CSS text. Missing sections leave the
// corresponding parts of the snapshot empty.
func Parse(themeID, css string, opts Options) *tokens.Snapshot {
	snap := tokens.NewSnapshot(themeID)
	rules := Scan(css)

	// Theme block declarations in source order; later values win
	var (
		order  []string
		themed = make(map[string]string)
		vars   = make(map[string]string)
	)
	for _, r := range rules {
		switch {
		case IsThemeInline(r), IsTheme(r):
			for _, d := range Declarations(r.Body(css)) {
				if !strings.HasPrefix(d.Name, "--") {
					continue
				}
				if _, seen := themed[d.Name]; !seen {
					order = append(order, d.Name)
				}
				themed[d.Name] = d.Value
				vars[d.Name] = d.Value
			}
		case !r.Statement && r.Prelude == ":root":
			for _, d := range Declarations(r.Body(css)) {
				if _, defined := vars[d.Name]; !defined && strings.HasPrefix(d.Name, "--") {
					vars[d.Name] = d.Value
				}
			}
		}
	}

	for _, name := range order {
		value := themed[name]
		switch {
		case strings.HasPrefix(name, ColorPrefix):
			classifyColor(snap, strings.TrimPrefix(name, ColorPrefix), value, vars)
		case strings.HasPrefix(name, RadiusPrefix):
			snap.Radius[strings.TrimPrefix(name, RadiusPrefix)] = value
		case strings.HasPrefix(name, ShadowPrefix):
			snap.Shadows[strings.TrimPrefix(name, ShadowPrefix)] = value
		}
	}

	snap.Modes = append(snap.Modes, Modes(css, opts.modes())...)
	snap.Fonts = append(snap.Fonts, FontFaces(css)...)
	snap.Typography = append(snap.Typography, Typography(css)...)
	snap.AssignIDs()

	return snap
}

func classifyColor(snap *tokens.Snapshot, name, value string, vars map[string]string) {
	if category, ok := tokens.CategorizeSemantic(name); ok {
		snap.Semantic = append(snap.Semantic, tokens.SemanticToken{
			Name:      name,
			Reference: ReferenceName(value),
			Category:  category,
		})
		return
	}

	resolved, err := ResolveValue(value, vars)
	if err != nil {
		if errors.Is(err, ErrCycle) {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("%s%s: %v", ColorPrefix, name, err))
		}
		resolved = value
	}

	snap.Colors = append(snap.Colors, tokens.BaseColor{
		Name:        name,
		DisplayName: tokens.DisplayName(name),
		Value:       resolved,
		Category:    tokens.CategorizeColor(name),
	})
}

// Modes extracts the top-level ".<mode>" blocks for allow-listed mode names.
// Repeated blocks for one mode are merged.
func Modes(css string, allow []string) []tokens.ColorMode {
	allowed := make(map[string]bool, len(allow))
	for _, m := range allow {
		allowed[m] = true
	}

	var (
		modes []tokens.ColorMode
		index = make(map[string]int)
	)
	for _, r := range Scan(css) {
		if r.Statement || !strings.HasPrefix(r.Prelude, ".") {
			continue
		}
		name := r.Prelude[1:]
		if !allowed[name] {
			continue
		}

		i, ok := index[name]
		if !ok {
			i = len(modes)
			index[name] = i
			modes = append(modes, tokens.ColorMode{
				Name:      name,
				ClassName: name,
				Overrides: map[string]string{},
			})
		}

		for _, d := range Declarations(r.Body(css)) {
			if strings.HasPrefix(d.Name, ColorPrefix) {
				modes[i].Overrides[strings.TrimPrefix(d.Name, ColorPrefix)] = ReferenceName(d.Value)
			}
		}
	}
	return modes
}

// Typography extracts one style per element rule of the top-level
// "@layer base" blocks that carries an @apply statement
func Typography(css string) []tokens.TypographyStyle {
	var styles []tokens.TypographyStyle
	for _, layer := range Find(css, IsLayerBase) {
		for _, r := range Children(css, layer) {
			if r.Statement {
				continue
			}
			body := ParseBody(r.Body(css))
			if len(body.Apply) == 0 {
				continue
			}
			styles = append(styles, ClassifyApply(r.Prelude, strings.Join(body.Apply, " ")))
		}
	}
	return styles
}

// Merge folds src into dst. Entries in src replace same-named entries in dst.
func Merge(dst, src *tokens.Snapshot) {
	if src == nil {
		return
	}

	for _, c := range src.Colors {
		if i := indexOf(len(dst.Colors), func(i int) bool { return dst.Colors[i].Name == c.Name }); i >= 0 {
			dst.Colors[i] = c
		} else {
			dst.Colors = append(dst.Colors, c)
		}
	}
	for _, t := range src.Semantic {
		if i := indexOf(len(dst.Semantic), func(i int) bool { return dst.Semantic[i].Name == t.Name }); i >= 0 {
			dst.Semantic[i] = t
		} else {
			dst.Semantic = append(dst.Semantic, t)
		}
	}
	for _, m := range src.Modes {
		i := indexOf(len(dst.Modes), func(i int) bool { return dst.Modes[i].Name == m.Name })
		if i < 0 {
			dst.Modes = append(dst.Modes, m)
			continue
		}
		for k, v := range m.Overrides {
			dst.Modes[i].Overrides[k] = v
		}
	}
	for k, v := range src.Radius {
		dst.Radius[k] = v
	}
	for k, v := range src.Shadows {
		dst.Shadows[k] = v
	}
	for _, f := range src.Fonts {
		i := indexOf(len(dst.Fonts), func(i int) bool { return dst.Fonts[i].Family == f.Family })
		if i < 0 {
			dst.Fonts = append(dst.Fonts, f)
			continue
		}
		for _, file := range f.Files {
			dst.Fonts[i].AddFile(file)
		}
	}
	for _, t := range src.Typography {
		if i := indexOf(len(dst.Typography), func(i int) bool { return dst.Typography[i].Element == t.Element }); i >= 0 {
			dst.Typography[i] = t
		} else {
			dst.Typography = append(dst.Typography, t)
		}
	}
	dst.Warnings = append(dst.Warnings, src.Warnings...)
	dst.AssignIDs()
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}
