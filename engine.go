package themesync

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/imports"
	"github.com/yacobolo/themesync/internal/logger"
	"github.com/yacobolo/themesync/internal/theme"
	"github.com/yacobolo/themesync/internal/tokens"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

// Current resolves to the active theme wherever a theme id is accepted
const Current = "current"

// Engine is the entry point for every read and write. It is safe for
// concurrent use; writes to the same file serialize.
type Engine struct {
	cfg      Config
	log      *logger.Logger
	registry *theme.Registry
	resolver *imports.Resolver
	parse    cssparse.Options
}

// New validates cfg and builds an Engine
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", cfg.Root, err)
	}
	cfg.Root = root
	if len(cfg.Modes) == 0 {
		cfg.Modes = append([]string(nil), cssparse.DefaultModes...)
	}

	e := &Engine{cfg: cfg, parse: cssparse.Options{Modes: cfg.Modes}}
	for _, opt := range opts {
		opt(e)
	}

	e.registry = theme.New(theme.Config{
		WorkspaceRoot: root,
		GlobalCSS:     cfg.GlobalCSS,
		PackagesDir:   cfg.PackagesDir,
		Scope:         cfg.Scope,
		BackupHistory: cfg.BackupHistory,
		CacheTTL:      cfg.CacheTTL,
		Logger:        e.log,
	})

	nodeModules := cfg.NodeModules
	if nodeModules == "" {
		nodeModules = "node_modules"
	}
	if !filepath.IsAbs(nodeModules) {
		nodeModules = filepath.Join(root, nodeModules)
	}
	e.resolver = &imports.Resolver{
		PackageDirs: []string{e.registry.PackagesPath()},
		NodeModules: nodeModules,
		Logger:      e.log,
	}

	return e, nil
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// gate refuses every operation in production
func (e *Engine) gate() error {
	if e.cfg.Production() {
		return tserrors.ErrProduction
	}
	return nil
}

// resolveTheme maps "" and "current" to the active theme and validates
// any other id
func (e *Engine) resolveTheme(themeID string) (string, error) {
	id := strings.TrimSpace(themeID)
	if id == "" || id == Current {
		return e.registry.ActiveTheme()
	}
	if err := validateStruct(themeRequest{Theme: id}); err != nil {
		return "", err
	}
	return id, nil
}

// Paths returns the conventional files of a theme
func (e *Engine) Paths(themeID string) (theme.Files, error) {
	if err := e.gate(); err != nil {
		return theme.Files{}, err
	}
	id, err := e.resolveTheme(themeID)
	if err != nil {
		return theme.Files{}, err
	}
	return e.registry.Paths(id), nil
}

// rel shortens path to the workspace root for display
func (e *Engine) rel(path string) string {
	if r, err := filepath.Rel(e.cfg.Root, path); err == nil && !strings.HasPrefix(r, "..") {
		return filepath.ToSlash(r)
	}
	return path
}

// themeFile pairs a conventional file with its key in Snapshot.Files
type themeFile struct {
	key  string
	path string
}

func conventionalFiles(files theme.Files) []themeFile {
	return []themeFile{
		{key: "tokens", path: files.Tokens},
		{key: "dark", path: files.Dark},
		{key: "fonts", path: files.Fonts},
		{key: "typography", path: files.Typography},
	}
}

// ReadTokens parses the tokens, dark, fonts and typography files of a
// theme, each flattened through its imports. Missing files are not an
// error: the snapshot reports them as absent in Files.
func (e *Engine) ReadTokens(themeID string) (*tokens.Snapshot, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	id, err := e.resolveTheme(themeID)
	if err != nil {
		return nil, err
	}
	return e.readTokens(id)
}

func (e *Engine) readTokens(id string) (*tokens.Snapshot, error) {
	snap := tokens.NewSnapshot(id)
	snap.Files = make(map[string]bool, 4)

	for _, f := range conventionalFiles(e.registry.Paths(id)) {
		res, err := e.resolver.Flatten(f.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				snap.Files[f.key] = false
				continue
			}
			return nil, tserrors.NewIOError("read", f.path, "", err)
		}
		snap.Files[f.key] = true

		part := cssparse.Parse(id, res.CSS, e.parse)
		part.Warnings = append(res.Warnings, part.Warnings...)
		cssparse.Merge(snap, part)
	}

	snap.AssignIDs()
	e.log.Debug("read tokens", map[string]any{
		"theme":  id,
		"colors": len(snap.Colors),
		"modes":  len(snap.Modes),
	})
	return snap, nil
}

// CurrentTheme returns the active theme
func (e *Engine) CurrentTheme() (*tokens.Theme, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	id, err := e.registry.ActiveTheme()
	if err != nil {
		return nil, err
	}
	return e.themeInfo(id), nil
}

// themeInfo returns the listed theme with id, or a minimal description
// when the package is not listed
func (e *Engine) themeInfo(id string) *tokens.Theme {
	if themes, err := e.registry.List(); err == nil {
		for i := range themes {
			if themes[i].ID == id {
				return &themes[i]
			}
		}
	}
	active, _ := e.registry.ActiveTheme()
	return &tokens.Theme{
		ID:               id,
		Name:             tokens.DisplayName(id),
		PackageName:      e.registry.PackageName(id),
		CSSFiles:         []string{},
		ComponentFolders: []string{},
		IsActive:         id == active,
	}
}

// ListThemes returns the theme packages of the workspace
func (e *Engine) ListThemes() ([]tokens.Theme, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	return e.registry.List()
}

// SwitchTheme points the global stylesheet at another theme package
func (e *Engine) SwitchTheme(pkg string) (*theme.SwitchResult, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	if err := validateStruct(switchRequest{Package: pkg}); err != nil {
		return nil, err
	}
	return e.registry.Switch(pkg)
}
