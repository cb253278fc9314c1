package themesync

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/themesync/internal/csspatch"
	"github.com/yacobolo/themesync/internal/theme"
	"github.com/yacobolo/themesync/internal/tokens"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

const (
	testGlobalCSS = `@import "tailwindcss";
/* @import "@rdna/theme-phase"; */
@import "@rdna/theme-rad-os";
`

	testTokensCSS = `@theme inline {
  --color-cream: #fef8e2;
  --color-black: #0f0e0c;
  --color-sun-yellow: #fce184;
  --color-surface-primary: var(--color-cream);
  --color-content-primary: var(--color-black);
}

@theme {
  --radius-md: 0.5rem;
  --shadow-card: 2px 2px 0 var(--color-black);
}
`

	testDarkCSS = `.dark {
  --color-surface-primary: var(--color-black);
  --color-content-primary: var(--color-cream);
}
`

	testFontsCSS = `@font-face {
  font-family: "Joystix Mono";
  src: url("./fonts/joystix.woff2") format("woff2");
  font-weight: 400;
  font-style: normal;
}
`

	testTypographyCSS = `@layer base {
  h1 {
    @apply text-4xl font-bold text-black;
  }
}
`
)

// workspace is a temp monorepo with the rad-os (active) and phase themes
type workspace struct {
	root   string
	engine *Engine
}

func (w *workspace) path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

func (w *workspace) write(t *testing.T, rel, content string) {
	t.Helper()
	path := w.path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (w *workspace) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(w.path(rel))
	require.NoError(t, err)
	return string(data)
}

func newWorkspace(t *testing.T, mutate ...func(*Config)) *workspace {
	t.Helper()
	w := &workspace{root: t.TempDir()}

	w.write(t, "app/globals.css", testGlobalCSS)
	w.write(t, "packages/theme-rad-os/package.json", `{"name": "@rdna/theme-rad-os", "version": "1.0.0"}`)
	w.write(t, "packages/theme-rad-os/tokens.css", testTokensCSS)
	w.write(t, "packages/theme-rad-os/dark.css", testDarkCSS)
	w.write(t, "packages/theme-rad-os/fonts.css", testFontsCSS)
	w.write(t, "packages/theme-rad-os/typography.css", testTypographyCSS)
	w.write(t, "packages/theme-phase/package.json", `{"name": "@rdna/theme-phase", "version": "1.0.0"}`)
	w.write(t, "packages/theme-phase/tokens.css", "@theme {\n  --radius-md: 0.5rem;\n}\n")

	cfg := DefaultConfig(w.root)
	for _, m := range mutate {
		m(&cfg)
	}

	engine, err := New(cfg)
	require.NoError(t, err)
	w.engine = engine
	return w
}

func colorValues(snap *tokens.Snapshot) map[string]string {
	out := make(map[string]string, len(snap.Colors))
	for _, c := range snap.Colors {
		out[c.Name] = c.Value
	}
	return out
}

func semanticRefs(snap *tokens.Snapshot) map[string]string {
	out := make(map[string]string, len(snap.Semantic))
	for _, s := range snap.Semantic {
		out[s.Name] = s.Reference
	}
	return out
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "missing root", mutate: func(c *Config) { c.Root = "" }, field: "root"},
		{name: "scope without @", mutate: func(c *Config) { c.Scope = "rdna" }, field: "scope"},
		{name: "negative history", mutate: func(c *Config) { c.BackupHistory = -1 }, field: "backuphistory"},
		{name: "bad mode name", mutate: func(c *Config) { c.Modes = []string{"Dark Mode"} }, field: "modes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(t.TempDir())
			tt.mutate(&cfg)

			_, err := New(cfg)
			require.Error(t, err)

			var verr *tserrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, strings.ToLower(verr.Field), tt.field)
			assert.Equal(t, "invalid", tserrors.Kind(err))
		})
	}
}

func TestProductionGate(t *testing.T) {
	w := newWorkspace(t, func(c *Config) { c.Env = "Production" })
	e := w.engine

	ops := map[string]func() error{
		"ReadTokens":   func() error { _, err := e.ReadTokens(Current); return err },
		"CurrentTheme": func() error { _, err := e.CurrentTheme(); return err },
		"ListThemes":   func() error { _, err := e.ListThemes(); return err },
		"SwitchTheme":  func() error { _, err := e.SwitchTheme("@rdna/theme-phase"); return err },
		"WriteTokens": func() error {
			_, err := e.WriteTokens(Current, csspatch.TokenChanges{Radius: map[string]string{"md": "8px"}})
			return err
		},
		"WriteSemantic": func() error {
			_, err := e.WriteSemantic(Current, map[string]string{"surface-primary": "black"})
			return err
		},
		"WriteCSS": func() error {
			_, err := e.WriteCSS(Current, CSSChanges{Modes: []tokens.ColorMode{}})
			return err
		},
		"Audit":       func() error { _, err := e.Audit(Current, AuditConfig{}); return err },
		"Export":      func() error { _, err := e.ExportTheme(Current); return err },
		"CreateTheme": func() error { _, err := e.CreateTheme("new-theme", ""); return err },
		"Components":  func() error { _, _, err := e.DiscoverComponents(Current); return err },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			assert.ErrorIs(t, err, tserrors.ErrProduction)
			assert.Equal(t, "production", tserrors.Kind(err))
		})
	}

	assert.Equal(t, testTokensCSS, w.read(t, "packages/theme-rad-os/tokens.css"), "nothing written")
	assert.NoDirExists(t, w.path("packages/theme-new-theme"))
}

func TestReadTokens_ActiveTheme(t *testing.T) {
	w := newWorkspace(t)

	snap, err := w.engine.ReadTokens(Current)
	require.NoError(t, err)

	assert.Equal(t, "rad-os", snap.ThemeID)
	assert.Equal(t, map[string]string{
		"cream":      "#fef8e2",
		"black":      "#0f0e0c",
		"sun-yellow": "#fce184",
	}, colorValues(snap))
	assert.Equal(t, map[string]string{
		"surface-primary": "cream",
		"content-primary": "black",
	}, semanticRefs(snap))
	assert.Equal(t, map[string]string{"md": "0.5rem"}, snap.Radius)
	assert.Equal(t, "2px 2px 0 var(--color-black)", snap.Shadows["card"])

	require.Len(t, snap.Modes, 1)
	assert.Equal(t, "dark", snap.Modes[0].Name)
	assert.Equal(t, map[string]string{
		"surface-primary": "black",
		"content-primary": "cream",
	}, snap.Modes[0].Overrides)

	require.Len(t, snap.Fonts, 1)
	assert.Equal(t, "Joystix Mono", snap.Fonts[0].Family)
	assert.Equal(t, "joystix-mono", snap.Fonts[0].ID)

	require.Len(t, snap.Typography, 1)
	assert.Equal(t, "h1", snap.Typography[0].Element)
	assert.Equal(t, "black", snap.Typography[0].BaseColorID)

	assert.Equal(t, map[string]bool{"tokens": true, "dark": true, "fonts": true, "typography": true}, snap.Files)

	for _, c := range snap.Colors {
		assert.Equal(t, tokens.ColorID("rad-os", c.Name), c.ID)
	}
}

func TestReadTokens_StableIDs(t *testing.T) {
	w := newWorkspace(t)

	first, err := w.engine.ReadTokens("rad-os")
	require.NoError(t, err)
	second, err := w.engine.ReadTokens("rad-os")
	require.NoError(t, err)

	require.Equal(t, len(first.Colors), len(second.Colors))
	for i := range first.Colors {
		assert.Equal(t, first.Colors[i].ID, second.Colors[i].ID)
	}
}

func TestReadTokens_MissingFiles(t *testing.T) {
	w := newWorkspace(t)

	snap, err := w.engine.ReadTokens("phase")
	require.NoError(t, err)
	assert.Empty(t, snap.Colors)
	assert.Equal(t, map[string]string{"md": "0.5rem"}, snap.Radius)
	assert.Equal(t, map[string]bool{"tokens": true, "dark": false, "fonts": false, "typography": false}, snap.Files)

	snap, err = w.engine.ReadTokens("ghost")
	require.NoError(t, err, "a theme without files yields an empty model")
	assert.Empty(t, snap.Colors)
	assert.Empty(t, snap.Semantic)
	assert.Empty(t, snap.Modes)
	assert.False(t, snap.Files["tokens"])
}

func TestReadTokens_FollowsImports(t *testing.T) {
	w := newWorkspace(t)
	w.write(t, "packages/theme-phase/palette.css", "@theme inline {\n  --color-ink: #111111;\n}\n")
	w.write(t, "packages/theme-phase/tokens.css", "@import \"./palette.css\";\n\n@theme {\n  --radius-md: 0.5rem;\n}\n")

	snap, err := w.engine.ReadTokens("phase")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ink": "#111111"}, colorValues(snap))
}

func TestReadTokens_InvalidThemeID(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.engine.ReadTokens("../etc")
	var verr *tserrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReadTokens_NoActiveTheme(t *testing.T) {
	w := newWorkspace(t)
	w.write(t, "app/globals.css", `@import "tailwindcss";`)

	_, err := w.engine.ReadTokens(Current)
	assert.ErrorIs(t, err, tserrors.ErrNoActiveTheme)
}

func TestWriteTokens_RadiusEdit(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.engine.WriteTokens(Current, csspatch.TokenChanges{Radius: map[string]string{"md": "8px"}})
	require.NoError(t, err)

	want := strings.Replace(testTokensCSS, "--radius-md: 0.5rem;", "--radius-md: 8px;", 1)
	assert.Equal(t, want, w.read(t, "packages/theme-rad-os/tokens.css"), "only the edited line changes")

	assert.Equal(t, "rad-os", res.Theme)
	assert.Equal(t, 1, res.Updated)
	assert.True(t, res.Changed)
	assert.Equal(t, "packages/theme-rad-os/tokens.css", res.File)
	assert.Equal(t, theme.BackupPath(w.path("packages/theme-rad-os/tokens.css")), res.Backup)
	assert.Equal(t, testTokensCSS, w.read(t, "packages/theme-rad-os/.tokens.css.backup"))
	assert.Contains(t, res.Diff, "-  --radius-md: 0.5rem;")
	assert.Contains(t, res.Diff, "+  --radius-md: 8px;")
	assert.Equal(t, []tokens.Change{
		{Section: "radius", Name: "md", Kind: tokens.ChangeChanged, Old: "0.5rem", New: "8px"},
	}, res.Changes)
}

func TestWriteTokens_UnchangedWritesNothing(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.engine.WriteTokens(Current, csspatch.TokenChanges{
		Radius: map[string]string{"md": "0.5rem"},
		Colors: map[string]string{"not-defined": "#ffffff"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated, "unknown names and equal values count zero")
	assert.False(t, res.Changed)
	assert.Empty(t, res.Backup)
	assert.NoFileExists(t, w.path("packages/theme-rad-os/.tokens.css.backup"))
}

func TestWriteTokens_AddAndRemoveColors(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.engine.WriteTokens("rad-os", csspatch.TokenChanges{
		AddColors:    map[string]string{"sky-blue": "#95bad2"},
		RemoveColors: []string{"sun-yellow"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)

	snap, err := w.engine.ReadTokens("rad-os")
	require.NoError(t, err)
	colors := colorValues(snap)
	assert.Equal(t, "#95bad2", colors["sky-blue"])
	assert.NotContains(t, colors, "sun-yellow")
}

func TestWriteTokens_WriteLocked(t *testing.T) {
	w := newWorkspace(t)
	before := w.read(t, "packages/theme-phase/tokens.css")

	_, err := w.engine.WriteTokens("phase", csspatch.TokenChanges{Radius: map[string]string{"md": "8px"}})
	require.Error(t, err)

	var locked *tserrors.WriteLockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, "phase", locked.Theme)
	assert.Equal(t, "rad-os", locked.Active)
	assert.Equal(t, "write_locked", tserrors.Kind(err))
	assert.Equal(t, before, w.read(t, "packages/theme-phase/tokens.css"), "locked theme untouched")
}

func TestWriteTokens_Validation(t *testing.T) {
	tests := []struct {
		name    string
		changes csspatch.TokenChanges
	}{
		{name: "empty change-set", changes: csspatch.TokenChanges{}},
		{name: "bad color name", changes: csspatch.TokenChanges{Colors: map[string]string{"Bad Name": "#fff"}}},
		{name: "unsafe value", changes: csspatch.TokenChanges{Radius: map[string]string{"md": "1px; color: red"}}},
		{name: "malformed hex", changes: csspatch.TokenChanges{Colors: map[string]string{"cream": "#zzzzzz"}}},
		{name: "bad removal", changes: csspatch.TokenChanges{RemoveColors: []string{"--color-cream"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)

			_, err := w.engine.WriteTokens(Current, tt.changes)
			require.Error(t, err)
			assert.Equal(t, "invalid", tserrors.Kind(err))
			assert.Equal(t, testTokensCSS, w.read(t, "packages/theme-rad-os/tokens.css"))
			assert.NoFileExists(t, w.path("packages/theme-rad-os/.tokens.css.backup"))
		})
	}
}

func TestPreviewTokens(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.engine.PreviewTokens("phase", csspatch.TokenChanges{Radius: map[string]string{"md": "8px"}})
	require.NoError(t, err, "previews ignore the write-lock")
	assert.True(t, res.Changed)
	assert.Empty(t, res.Backup)
	assert.Contains(t, res.Diff, "+  --radius-md: 8px;")
	assert.Equal(t, "@theme {\n  --radius-md: 0.5rem;\n}\n", w.read(t, "packages/theme-phase/tokens.css"))
}

func TestWriteSemantic(t *testing.T) {
	tests := []struct {
		name string
		key  func(*tokens.Snapshot) string
	}{
		{name: "by name", key: func(*tokens.Snapshot) string { return "surface-primary" }},
		{name: "by id", key: func(s *tokens.Snapshot) string { return tokens.SemanticID(s.ThemeID, "surface-primary") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)
			snap, err := w.engine.ReadTokens(Current)
			require.NoError(t, err)

			res, err := w.engine.WriteSemantic(Current, map[string]string{
				tt.key(snap): "var(--color-sun-yellow)",
				"not-a-token": "black",
			})
			require.NoError(t, err)
			assert.Equal(t, 1, res.Updated)
			assert.Contains(t, w.read(t, "packages/theme-rad-os/tokens.css"), "--color-surface-primary: var(--color-sun-yellow);")

			snap, err = w.engine.ReadTokens(Current)
			require.NoError(t, err)
			assert.Equal(t, "sun-yellow", semanticRefs(snap)["surface-primary"])
			assert.Equal(t, "black", semanticRefs(snap)["content-primary"])
		})
	}
}

func TestWriteSemantic_Empty(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.engine.WriteSemantic(Current, nil)
	assert.Equal(t, "invalid", tserrors.Kind(err))
}

func TestWriteSemantic_UnknownBaseColor(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.engine.WriteSemantic(Current, map[string]string{"surface-primary": "does-not-exist"})
	require.Error(t, err)
	assert.Equal(t, "invalid", tserrors.Kind(err))
	assert.Contains(t, err.Error(), "mappings[surface-primary]")
	assert.Equal(t, testTokensCSS, w.read(t, "packages/theme-rad-os/tokens.css"))
	assert.NoFileExists(t, w.path("packages/theme-rad-os/.tokens.css.backup"))
}

func TestWriteCSS_UnknownBaseColor(t *testing.T) {
	tests := []struct {
		name    string
		changes CSSChanges
		field   string
	}{
		{
			name:    "semantic target",
			changes: CSSChanges{Semantic: map[string]string{"content-primary": "ghost"}},
			field:   "mappings[content-primary]",
		},
		{
			name: "mode override",
			changes: CSSChanges{Modes: []tokens.ColorMode{{
				Name:      "dark",
				Overrides: map[string]string{"surface-primary": "var(--color-ghost)"},
			}}},
			field: "colorModes[0].overrides.surface-primary",
		},
		{
			name: "removed in the same change-set",
			changes: CSSChanges{
				Tokens:   &csspatch.TokenChanges{RemoveColors: []string{"sun-yellow"}},
				Semantic: map[string]string{"content-primary": "sun-yellow"},
			},
			field: "mappings[content-primary]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)

			res, err := w.engine.WriteCSS(Current, tt.changes)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, "invalid", tserrors.Kind(err))
			assert.Contains(t, err.Error(), tt.field)
			assert.Equal(t, testTokensCSS, w.read(t, "packages/theme-rad-os/tokens.css"))
			assert.Equal(t, testDarkCSS, w.read(t, "packages/theme-rad-os/dark.css"))
		})
	}
}

func TestWriteCSS_ReferencesPendingColors(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.engine.WriteCSS(Current, CSSChanges{
		Tokens:   &csspatch.TokenChanges{AddColors: map[string]string{"sky": "#87ceeb"}},
		Semantic: map[string]string{"surface-primary": "sky"},
		Modes: []tokens.ColorMode{{
			Name:      "dark",
			Overrides: map[string]string{"surface-primary": "sky", "content-primary": "#ffffff"},
		}},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Failed())

	snap, err := w.engine.ReadTokens(Current)
	require.NoError(t, err)
	assert.Equal(t, "#87ceeb", colorValues(snap)["sky"])
	assert.Equal(t, "sky", semanticRefs(snap)["surface-primary"])
}

func TestWriteCSS_RemoveModes(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.engine.WriteCSS(Current, CSSChanges{Modes: []tokens.ColorMode{}})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "modes", res.Files[0].Section)
	assert.Equal(t, "packages/theme-rad-os/dark.css", res.Files[0].File)
	assert.True(t, res.Files[0].Changed)
	assert.Zero(t, res.Failed())

	assert.NotContains(t, w.read(t, "packages/theme-rad-os/dark.css"), ".dark")

	snap, err := w.engine.ReadTokens(Current)
	require.NoError(t, err)
	assert.Empty(t, snap.Modes)
}

func TestWriteCSS_MultipleFiles(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.engine.WriteCSS(Current, CSSChanges{
		Tokens:   &csspatch.TokenChanges{Colors: map[string]string{"cream": "#fffdf5"}},
		Semantic: map[string]string{"content-primary": "sun-yellow"},
		Modes: []tokens.ColorMode{{
			Name:      "dark",
			ClassName: "dark",
			Overrides: map[string]string{"surface-primary": "sun-yellow"},
		}},
		Typography: []tokens.TypographyStyle{{Element: "h1", FontSize: "5xl", FontWeight: "bold", BaseColorID: "cream"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Zero(t, res.Failed())

	sections := make(map[string]FileOutcome)
	for _, f := range res.Files {
		sections[f.Section] = f
	}
	assert.Equal(t, 2, sections["tokens"].Updated)
	assert.True(t, sections["modes"].Changed)
	assert.True(t, sections["typography"].Changed)
	assert.NotContains(t, sections, "fonts", "nil section leaves its file alone")

	snap, err := w.engine.ReadTokens(Current)
	require.NoError(t, err)
	assert.Equal(t, "#fffdf5", colorValues(snap)["cream"])
	assert.Equal(t, "sun-yellow", semanticRefs(snap)["content-primary"])
	require.Len(t, snap.Modes, 1)
	assert.Equal(t, map[string]string{"surface-primary": "sun-yellow"}, snap.Modes[0].Overrides)
	require.Len(t, snap.Typography, 1)
	assert.Equal(t, "5xl", snap.Typography[0].FontSize)
	assert.Equal(t, "cream", snap.Typography[0].BaseColorID)
	assert.Equal(t, testFontsCSS, w.read(t, "packages/theme-rad-os/fonts.css"))
}

func TestWriteCSS_IndependentFailures(t *testing.T) {
	w := newWorkspace(t)
	fonts := w.path("packages/theme-rad-os/fonts.css")
	require.NoError(t, os.Remove(fonts))
	require.NoError(t, os.Mkdir(fonts, 0o755))

	res, err := w.engine.WriteCSS(Current, CSSChanges{
		Fonts: []tokens.FontDefinition{},
		Modes: []tokens.ColorMode{},
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, 1, res.Failed())

	for _, f := range res.Files {
		switch f.Section {
		case "fonts":
			assert.NotEmpty(t, f.Error)
			assert.Equal(t, "io", f.Kind)
		case "modes":
			assert.Empty(t, f.Error)
			assert.True(t, f.Changed, "modes write survives the fonts failure")
		}
	}
	assert.NotContains(t, w.read(t, "packages/theme-rad-os/dark.css"), ".dark")
}

func TestWriteCSS_RejectedUpFront(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.engine.WriteCSS(Current, CSSChanges{})
	assert.Equal(t, "invalid", tserrors.Kind(err))

	_, err = w.engine.WriteCSS(Current, CSSChanges{Modes: []tokens.ColorMode{{Name: "Dark!"}}})
	assert.Equal(t, "invalid", tserrors.Kind(err))

	_, err = w.engine.WriteCSS("phase", CSSChanges{Modes: []tokens.ColorMode{}})
	assert.Equal(t, "write_locked", tserrors.Kind(err))
}

func TestSwitchTheme(t *testing.T) {
	w := newWorkspace(t)

	res, err := w.engine.SwitchTheme("@rdna/theme-phase")
	require.NoError(t, err)
	assert.Equal(t, "rad-os", res.Previous)
	assert.Equal(t, "phase", res.Current)

	current, err := w.engine.CurrentTheme()
	require.NoError(t, err)
	assert.Equal(t, "phase", current.ID)
	assert.True(t, current.IsActive)

	_, err = w.engine.WriteTokens("rad-os", csspatch.TokenChanges{Radius: map[string]string{"md": "8px"}})
	assert.Equal(t, "write_locked", tserrors.Kind(err), "the previous theme becomes read-only")

	_, err = w.engine.WriteTokens("phase", csspatch.TokenChanges{Radius: map[string]string{"md": "8px"}})
	assert.NoError(t, err)
}

func TestSwitchTheme_Invalid(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.engine.SwitchTheme("lodash")
	assert.Equal(t, "invalid", tserrors.Kind(err))

	_, err = w.engine.SwitchTheme("@rdna/theme-ghost")
	assert.Equal(t, "not_found", tserrors.Kind(err))
	assert.Equal(t, testGlobalCSS, w.read(t, "app/globals.css"))
}

func TestListThemes(t *testing.T) {
	w := newWorkspace(t)

	themes, err := w.engine.ListThemes()
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, th := range themes {
		ids[th.ID] = th.IsActive
	}
	assert.Equal(t, map[string]bool{"rad-os": true, "phase": false}, ids)
}

func TestCreateTheme_FromSource(t *testing.T) {
	w := newWorkspace(t)

	created, err := w.engine.CreateTheme("night", "rad-os")
	require.NoError(t, err)
	assert.Equal(t, "night", created.ID)
	assert.Equal(t, "@rdna/theme-night", created.PackageName)
	assert.FileExists(t, w.path("packages/theme-night/package.json"))

	src, err := w.engine.ReadTokens("rad-os")
	require.NoError(t, err)
	dst, err := w.engine.ReadTokens("night")
	require.NoError(t, err)

	assert.Equal(t, colorValues(src), colorValues(dst))
	assert.Equal(t, semanticRefs(src), semanticRefs(dst))
	assert.Equal(t, src.Radius, dst.Radius)
	require.Len(t, dst.Modes, 1)
	assert.Equal(t, src.Modes[0].Overrides, dst.Modes[0].Overrides)
	for _, c := range dst.Colors {
		assert.Equal(t, tokens.ColorID("night", c.Name), c.ID, "ids follow the new theme")
	}

	_, err = w.engine.CreateTheme("night", "")
	assert.Equal(t, "invalid", tserrors.Kind(err), "existing themes are never overwritten")
}

func TestCreateTheme_Empty(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.engine.CreateTheme("blank", "")
	require.NoError(t, err)

	snap, err := w.engine.ReadTokens("blank")
	require.NoError(t, err)
	assert.Empty(t, snap.Colors)
	assert.True(t, snap.Files["tokens"])

	_, err = w.engine.CreateTheme("Bad Id", "")
	assert.Equal(t, "invalid", tserrors.Kind(err))
}

func TestExportTheme(t *testing.T) {
	w := newWorkspace(t)

	export, err := w.engine.ExportTheme(Current)
	require.NoError(t, err)
	assert.Equal(t, ExportVersion, export.Version)
	assert.NotEmpty(t, export.ExportedAt)
	assert.Equal(t, "rad-os", export.Theme.ID)
	assert.Len(t, export.Tokens.Colors, 3)
}

func TestPaths(t *testing.T) {
	w := newWorkspace(t)

	files, err := w.engine.Paths(Current)
	require.NoError(t, err)
	assert.Equal(t, w.path("packages/theme-rad-os/tokens.css"), files.Tokens)
	assert.Equal(t, w.path("packages/theme-rad-os/dark.css"), files.Dark)
}

func TestConcurrentWritesSerialize(t *testing.T) {
	w := newWorkspace(t)

	names := []string{"a-1", "a-2", "a-3", "a-4", "a-5", "a-6", "a-7", "a-8"}
	errs := make(chan error, len(names))
	for _, name := range names {
		go func(name string) {
			_, err := w.engine.WriteTokens(Current, csspatch.TokenChanges{AddColors: map[string]string{name: "#000000"}})
			errs <- err
		}(name)
	}
	for range names {
		require.NoError(t, <-errs)
	}

	snap, err := w.engine.ReadTokens(Current)
	require.NoError(t, err)
	colors := colorValues(snap)
	for _, name := range names {
		assert.Contains(t, colors, name, "no write is lost")
	}
}

func TestKindOfWrappedErrors(t *testing.T) {
	w := newWorkspace(t)
	w.write(t, "app/globals.css", `@import "tailwindcss";`)

	_, err := w.engine.CurrentTheme()
	assert.True(t, errors.Is(err, tserrors.ErrNoActiveTheme))
}
