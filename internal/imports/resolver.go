// Package imports flattens a stylesheet's @import graph into one document.
package imports

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/logger"
)

// FrameworkImport is passed through untouched
const FrameworkImport = "tailwindcss"

// specPattern matches the three @import forms after the keyword:
// "x", 'x' and url("x") / url(x). Trailing layer() or media lists are ignored.
var specPattern = regexp.MustCompile(`^@import\s+(?:"([^"]+)"|'([^']+)'|url\(\s*["']?([^"')]+)["']?\s*\))`)

// Resolver expands @import statements
type Resolver struct {
	// PackageDirs are searched for workspace packages, by package.json name
	// and then by directory name
	PackageDirs []string
	// NodeModules is the installed-package fallback
	NodeModules string
	Logger      *logger.Logger
}

// Result is a flattened document
type Result struct {
	CSS      string
	Files    []string // Every file read, root first
	Warnings []string
}

// Flatten reads path and inlines its imports recursively. Comments are
// stripped first so commented-out imports are never followed. Only a
// failure to read path itself is an error; unresolvable or cyclic imports
// stay in place and are reported as warnings.
func (r *Resolver) Flatten(path string) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	// #nosec G304 - path comes from the theme registry
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	res := &Result{Files: []string{abs}}
	res.CSS = r.expand(abs, string(content), []string{abs}, res)
	return res, nil
}

func (r *Resolver) expand(file, css string, stack []string, res *Result) string {
	css = cssparse.StripComments(css)

	var b strings.Builder
	last := 0
	for _, rule := range cssparse.Scan(css) {
		if !rule.Statement || !rule.IsAt("@import") {
			continue
		}
		spec := Specifier(rule.Prelude)
		if spec == "" || spec == FrameworkImport {
			continue
		}

		target, err := r.resolve(file, spec)
		if err != nil {
			r.warn(res, fmt.Sprintf("%s: unresolved import %q: %v", file, spec, err))
			continue
		}
		if onStack(stack, target) {
			r.warn(res, fmt.Sprintf("%s: import cycle through %q", file, spec))
			continue
		}

		// #nosec G304 - target was resolved from an @import
		content, err := os.ReadFile(target)
		if err != nil {
			r.warn(res, fmt.Sprintf("%s: unreadable import %q: %v", file, spec, err))
			continue
		}

		res.Files = appendUnique(res.Files, target)
		b.WriteString(css[last:rule.Start])
		b.WriteString(r.expand(target, string(content), append(stack[:len(stack):len(stack)], target), res))
		last = rule.End
	}
	b.WriteString(css[last:])
	return b.String()
}

func (r *Resolver) warn(res *Result, msg string) {
	res.Warnings = append(res.Warnings, msg)
	r.Logger.Warn(msg)
}

// Specifier extracts the imported path or package name from an @import
// prelude, or "" when the form is not recognised
func Specifier(prelude string) string {
	m := specPattern.FindStringSubmatch(strings.TrimSpace(prelude))
	if m == nil {
		return ""
	}
	return m[1] + m[2] + m[3]
}

var errNotFound = errors.New("not found")

// resolve maps a specifier to an absolute file path
func (r *Resolver) resolve(from, spec string) (string, error) {
	if strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://") || strings.HasPrefix(spec, "//") {
		return "", errors.New("remote imports are not followed")
	}

	if strings.HasPrefix(spec, ".") || filepath.IsAbs(spec) {
		path := spec
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(from), spec)
		}
		return existingFile(path)
	}

	name, subpath := splitPackage(spec)
	for _, dir := range r.PackageDirs {
		if pkgDir, ok := findWorkspacePackage(dir, name); ok {
			return packageEntry(pkgDir, subpath)
		}
	}
	if r.NodeModules != "" {
		pkgDir := filepath.Join(r.NodeModules, filepath.FromSlash(name))
		if info, err := os.Stat(pkgDir); err == nil && info.IsDir() {
			return packageEntry(pkgDir, subpath)
		}
	}
	return "", errNotFound
}

// splitPackage splits "@scope/name/sub/path.css" into the package name and
// the subpath
func splitPackage(spec string) (name, subpath string) {
	parts := strings.Split(spec, "/")
	n := 1
	if strings.HasPrefix(spec, "@") && len(parts) > 1 {
		n = 2
	}
	if len(parts) <= n {
		return spec, ""
	}
	return strings.Join(parts[:n], "/"), strings.Join(parts[n:], "/")
}

type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Style   string `json:"style"`
}

// ReadPackageJSON reads the fields of package.json used for resolution
func ReadPackageJSON(dir string) (name, version, style string, err error) {
	// #nosec G304 - dir is a workspace package directory
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return "", "", "", err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", "", "", fmt.Errorf("parse %s: %w", filepath.Join(dir, "package.json"), err)
	}
	return pkg.Name, pkg.Version, pkg.Style, nil
}

// findWorkspacePackage looks for a package by its package.json name, then
// by its directory name
func findWorkspacePackage(root, name string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if pkgName, _, _, err := ReadPackageJSON(dir); err == nil && pkgName == name {
			return dir, true
		}
	}

	base := name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		base = name[i+1:]
	}
	dir := filepath.Join(root, base)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, true
	}
	return "", false
}

// packageEntry picks the stylesheet of a package: the subpath when given,
// else package.json "style", else index.css
func packageEntry(pkgDir, subpath string) (string, error) {
	if subpath != "" {
		path := filepath.Join(pkgDir, filepath.FromSlash(subpath))
		if !strings.HasSuffix(path, ".css") {
			if p, err := existingFile(path + ".css"); err == nil {
				return p, nil
			}
		}
		return existingFile(path)
	}
	if _, _, style, err := ReadPackageJSON(pkgDir); err == nil && style != "" {
		return existingFile(filepath.Join(pkgDir, filepath.FromSlash(style)))
	}
	return existingFile(filepath.Join(pkgDir, "index.css"))
}

func existingFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errNotFound
	}
	if info.IsDir() {
		return existingFile(filepath.Join(abs, "index.css"))
	}
	return abs, nil
}

func onStack(stack []string, path string) bool {
	for _, p := range stack {
		if p == path {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	if onStack(list, s) {
		return list
	}
	return append(list, s)
}
