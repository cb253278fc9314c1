package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yacobolo/themesync/internal/tokens"
)

// Swatch renders value as a colored chip with a legible foreground. Non-hex
// values and disabled colors render the plain value.
func Swatch(value string, useColors bool) string {
	if !useColors || !strings.HasPrefix(value, "#") {
		return value
	}
	fg := "#000000"
	if tokens.IsDark(value) {
		fg = "#ffffff"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(value)).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 1).
		Render(value)
}

// Printer writes human-readable reports
type Printer struct {
	w         io.Writer
	useColors bool
}

// NewPrinter creates a Printer
func NewPrinter(w io.Writer, useColors bool) *Printer {
	return &Printer{w: w, useColors: useColors}
}

// UseColors returns whether colors are enabled
func (p *Printer) UseColors() bool {
	return p.useColors
}

func (p *Printer) header(title string) {
	fmt.Fprintln(p.w, "")
	fmt.Fprintln(p.w, RenderStyle(StyleCyan, title, p.useColors))
	fmt.Fprintln(p.w, strings.Repeat("-", len(title)))
}

// Snapshot prints every section of a token model
func (p *Printer) Snapshot(snap *tokens.Snapshot) {
	fmt.Fprintf(p.w, "Theme: %s\n", RenderStyle(StyleGreen, snap.ThemeID, p.useColors))

	if len(snap.Files) > 0 {
		keys := make([]string, 0, len(snap.Files))
		for k := range snap.Files {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			mark := "✓"
			if !snap.Files[k] {
				mark = "✗"
			}
			parts = append(parts, k+" "+mark)
		}
		fmt.Fprintln(p.w, RenderStyle(StyleGray, strings.Join(parts, "  "), p.useColors))
	}

	if len(snap.Colors) > 0 {
		p.header("Base Colors")
		for _, c := range snap.Colors {
			fmt.Fprintf(p.w, "%-24s %-8s %s\n", c.Name, c.Category, Swatch(c.Value, p.useColors))
		}
	}

	if len(snap.Semantic) > 0 {
		p.header("Semantic Tokens")
		for _, t := range snap.Semantic {
			value := t.Reference
			if c, ok := snap.Color(t.Reference); ok {
				value = t.Reference + " " + Swatch(c.Value, p.useColors)
			}
			fmt.Fprintf(p.w, "%-24s %-8s → %s\n", t.Name, t.Category, value)
		}
	}

	for _, m := range snap.Modes {
		p.header("Mode ." + m.ClassName)
		for _, k := range sortedKeys(m.Overrides) {
			fmt.Fprintf(p.w, "%-24s → %s\n", k, m.Overrides[k])
		}
	}

	p.pairs("Radius", snap.Radius)
	p.pairs("Shadows", snap.Shadows)

	if len(snap.Fonts) > 0 {
		p.header("Fonts")
		for _, f := range snap.Fonts {
			weights := make([]string, len(f.Weights))
			for i, w := range f.Weights {
				weights[i] = strconv.Itoa(w)
			}
			fmt.Fprintf(p.w, "%-24s %-7s %s (%s)\n", f.Family, f.Source,
				strings.Join(weights, ","), Pluralize(len(f.Files), "file", "files"))
		}
	}

	if len(snap.Typography) > 0 {
		p.header("Typography")
		for _, s := range snap.Typography {
			fmt.Fprintf(p.w, "%-8s family=%s size=%s weight=%s color=%s", s.Element,
				orDash(s.FontFamilyID), orDash(s.FontSize), orDash(s.FontWeight), orDash(s.BaseColorID))
			if len(s.Utilities) > 0 {
				fmt.Fprintf(p.w, " +%s", strings.Join(s.Utilities, " "))
			}
			fmt.Fprintln(p.w)
		}
	}

	if len(snap.Warnings) > 0 {
		p.header("Warnings")
		for _, w := range snap.Warnings {
			fmt.Fprintf(p.w, "• %s\n", RenderStyle(StyleYellow, w, p.useColors))
		}
	}
}

func (p *Printer) pairs(title string, values map[string]string) {
	if len(values) == 0 {
		return
	}
	p.header(title)
	for _, k := range sortedKeys(values) {
		fmt.Fprintf(p.w, "%-24s %s\n", k, values[k])
	}
}

// Themes prints the theme list, marking the active theme
func (p *Printer) Themes(themes []tokens.Theme) {
	if len(themes) == 0 {
		fmt.Fprintln(p.w, "No theme packages found")
		return
	}
	for _, t := range themes {
		marker := "  "
		name := t.ID
		if t.IsActive {
			marker = RenderStyle(StyleGreen, "* ", p.useColors)
			name = RenderStyle(StyleGreen, t.ID, p.useColors)
		}
		fmt.Fprintf(p.w, "%s%-20s %s %s\n", marker, name, t.PackageName,
			RenderStyle(StyleGray, t.Version, p.useColors))
	}
}

// Components prints discovered components with their props
func (p *Printer) Components(components []tokens.DiscoveredComponent) {
	if len(components) == 0 {
		fmt.Fprintln(p.w, "No components found")
		return
	}
	for _, c := range components {
		fmt.Fprintf(p.w, "%s %s\n", RenderStyle(StyleCyan, c.Name, p.useColors),
			RenderStyle(StyleGray, c.Path, p.useColors))
		for _, prop := range c.Props {
			opt := ""
			if prop.Optional {
				opt = "?"
			}
			fmt.Fprintf(p.w, "    %s%s: %s\n", prop.Name, opt, prop.Type)
		}
	}
}

// Diff prints a unified diff, coloring added and removed lines
func (p *Printer) Diff(diff string) {
	if diff == "" {
		fmt.Fprintln(p.w, RenderStyle(StyleGray, "No changes", p.useColors))
		return
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			text = RenderStyle(StyleCyan, text, p.useColors)
		case strings.HasPrefix(line, "+"):
			text = RenderStyle(StyleGreen, text, p.useColors)
		case strings.HasPrefix(line, "-"):
			text = RenderStyle(StyleRed, text, p.useColors)
		case strings.HasPrefix(line, "@@"):
			text = RenderStyle(StyleGray, text, p.useColors)
		}
		fmt.Fprintln(p.w, text)
	}
}

// Changes prints a token diff between two snapshots
func (p *Printer) Changes(changes []tokens.Change) {
	for _, c := range changes {
		switch c.Kind {
		case tokens.ChangeAdded:
			fmt.Fprintf(p.w, "%s %s/%s = %s\n", RenderStyle(StyleGreen, "+", p.useColors), c.Section, c.Name, c.New)
		case tokens.ChangeRemoved:
			fmt.Fprintf(p.w, "%s %s/%s (was %s)\n", RenderStyle(StyleRed, "-", p.useColors), c.Section, c.Name, c.Old)
		default:
			fmt.Fprintf(p.w, "%s %s/%s: %s → %s\n", RenderStyle(StyleYellow, "~", p.useColors), c.Section, c.Name, c.Old, c.New)
		}
	}
}

// Success prints a confirmation line
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.w, RenderStyle(StyleGreen, "✓ ", p.useColors)+msg)
}

// Hint prints a dimmed hint line
func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.w, RenderStyle(StyleGray, msg, p.useColors))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
