// Package theme locates theme packages, decides which one is active and
// guards every write to a theme's files.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/logger"
	"github.com/yacobolo/themesync/internal/tokens"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

// Conventional file names inside a theme package
const (
	TokensFile     = "tokens.css"
	TypographyFile = "typography.css"
	FontsFile      = "fonts.css"
	DarkFile       = "dark.css"
	IndexFile      = "index.css"
	PackageFile    = "package.json"
)

// DirPrefix is prepended to a theme id to form its package directory
const DirPrefix = "theme-"

// packagePattern is the accepted shape of a theme package name
var packagePattern = regexp.MustCompile(`^@[a-z0-9-]+/theme-[a-z0-9-]+$`)

// Config locates the workspace
type Config struct {
	WorkspaceRoot string
	GlobalCSS     string // Relative to WorkspaceRoot unless absolute
	PackagesDir   string // Relative to WorkspaceRoot unless absolute
	Scope         string // "@rdna"
	BackupHistory int    // Backups kept per file; 0 or 1 keeps a single slot
	CacheTTL      time.Duration
	Logger        *logger.Logger
}

// Files are the conventional paths of one theme
type Files struct {
	Dir         string `json:"dir"`
	Tokens      string `json:"tokens"`
	Typography  string `json:"typography"`
	Fonts       string `json:"fonts"`
	Dark        string `json:"dark"`
	PackageJSON string `json:"packageJson"`
}

// SwitchResult reports the import change made by Switch
type SwitchResult struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// Registry resolves themes. It is safe for concurrent use.
type Registry struct {
	cfg   Config
	log   *logger.Logger
	cache *expirable.LRU[string, []tokens.Theme]
	locks sync.Map // absolute path -> *sync.Mutex

	// active is held exclusively while Switch rewrites the import and shared
	// by writers from the write-lock check until their file is written
	active sync.RWMutex
}

const listKey = "themes"

// New returns a Registry for cfg
func New(cfg Config) *Registry {
	if cfg.Scope == "" {
		cfg.Scope = "@rdna"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	return &Registry{
		cfg:   cfg,
		log:   cfg.Logger,
		cache: expirable.NewLRU[string, []tokens.Theme](1, nil, cfg.CacheTTL),
	}
}

// Config returns the registry configuration
func (r *Registry) Config() Config {
	return r.cfg
}

func (r *Registry) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(r.cfg.WorkspaceRoot, path)
}

// GlobalCSSPath is the stylesheet whose import selects the active theme
func (r *Registry) GlobalCSSPath() string {
	return r.abs(r.cfg.GlobalCSS)
}

// PackagesPath is the directory holding the theme packages
func (r *Registry) PackagesPath() string {
	return r.abs(r.cfg.PackagesDir)
}

// PackageName returns "<scope>/theme-<id>"
func (r *Registry) PackageName(id string) string {
	return r.cfg.Scope + "/" + DirPrefix + id
}

// Paths maps a theme id to its conventional files. No file is checked.
func (r *Registry) Paths(id string) Files {
	dir := filepath.Join(r.PackagesPath(), DirPrefix+id)
	return Files{
		Dir:         dir,
		Tokens:      filepath.Join(dir, TokensFile),
		Typography:  filepath.Join(dir, TypographyFile),
		Fonts:       filepath.Join(dir, FontsFile),
		Dark:        filepath.Join(dir, DarkFile),
		PackageJSON: filepath.Join(dir, PackageFile),
	}
}

// importPattern matches the theme import of the global stylesheet
func (r *Registry) importPattern() *regexp.Regexp {
	return regexp.MustCompile(`@import\s+(?:url\(\s*)?["'](` + regexp.QuoteMeta(r.cfg.Scope) + `/theme-([a-z0-9-]+))["']`)
}

// ActiveTheme returns the id imported by the global stylesheet. A missing
// import is ErrNoActiveTheme; an unreadable stylesheet is a NotFoundError.
func (r *Registry) ActiveTheme() (string, error) {
	path := r.GlobalCSSPath()
	// #nosec G304 - configured path
	content, err := os.ReadFile(path)
	if err != nil {
		return "", tserrors.NewNotFoundError("file", path, err)
	}

	m := r.importPattern().FindStringSubmatch(cssparse.StripComments(string(content)))
	if m == nil {
		return "", tserrors.ErrNoActiveTheme
	}
	return m[2], nil
}

// CheckWritable fails with a WriteLockedError unless id is the active theme
func (r *Registry) CheckWritable(id string) error {
	active, err := r.ActiveTheme()
	if err != nil && !errors.Is(err, tserrors.ErrNoActiveTheme) {
		return err
	}
	if id != active {
		return tserrors.NewWriteLockedError(id, active)
	}
	return nil
}

// ValidatePackageName checks the strict "@scope/theme-id" shape
func ValidatePackageName(pkg string) error {
	if !packagePattern.MatchString(pkg) {
		return tserrors.NewValidationError("package", fmt.Sprintf("%q must match @scope/theme-name", pkg), nil)
	}
	return nil
}

// IDFromPackage returns the id part of "@scope/theme-<id>"
func IDFromPackage(pkg string) string {
	if i := strings.Index(pkg, "/"+DirPrefix); i >= 0 {
		return pkg[i+len(DirPrefix)+1:]
	}
	return pkg
}

// Switch rewrites the one theme import of the global stylesheet to pkg. The
// name is validated before any file is touched and the target package must
// exist. The stylesheet is backed up first.
func (r *Registry) Switch(pkg string) (*SwitchResult, error) {
	if err := ValidatePackageName(pkg); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(pkg, r.cfg.Scope+"/") {
		return nil, tserrors.NewValidationError("package", fmt.Sprintf("%q is outside scope %s", pkg, r.cfg.Scope), nil)
	}

	id := IDFromPackage(pkg)
	if info, err := os.Stat(r.Paths(id).Dir); err != nil || !info.IsDir() {
		return nil, tserrors.NewNotFoundError("theme", id, err)
	}

	path := r.GlobalCSSPath()
	result := &SwitchResult{Current: id}

	r.active.Lock()
	defer r.active.Unlock()

	_, err := r.update(path, func(css string) (string, error) {
		stripped := cssparse.StripComments(css)
		m := r.importPattern().FindStringSubmatch(stripped)
		if m == nil {
			return "", tserrors.ErrNoActiveTheme
		}
		result.Previous = m[2]

		// Locate the same import in the original text, skipping comments
		comments := cssparse.CommentSpans(css)
		for _, loc := range r.importPattern().FindAllStringSubmatchIndex(css, -1) {
			if cssparse.InComment(comments, loc[0]) {
				continue
			}
			return css[:loc[2]] + pkg + css[loc[3]:], nil
		}
		return "", tserrors.ErrNoActiveTheme
	})
	if err != nil {
		return nil, err
	}

	r.Invalidate()
	r.log.Info("switched active theme", map[string]any{"previous": result.Previous, "current": result.Current})
	return result, nil
}
