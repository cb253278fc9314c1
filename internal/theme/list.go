package theme

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yacobolo/themesync/internal/tokens"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

// PackageJSON is the subset of a theme's package.json the registry reads
type PackageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Style   string `json:"style,omitempty"`
}

// List returns the theme packages in the packages directory, sorted by id.
// Results come from a TTL cache that Switch, Create and Invalidate clear.
func (r *Registry) List() ([]tokens.Theme, error) {
	themes, ok := r.cache.Get(listKey)
	if !ok {
		var err error
		themes, err = r.scan()
		if err != nil {
			return nil, err
		}
		r.cache.Add(listKey, themes)
	}

	active, _ := r.ActiveTheme()
	out := make([]tokens.Theme, len(themes))
	copy(out, themes)
	for i := range out {
		out[i].IsActive = out[i].ID == active
	}
	return out, nil
}

// Invalidate drops the cached theme list
func (r *Registry) Invalidate() {
	r.cache.Purge()
}

// scan reads <packages>/theme-*/package.json
func (r *Registry) scan() ([]tokens.Theme, error) {
	root := r.PackagesPath()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, tserrors.NewNotFoundError("directory", root, err)
	}

	fsys := os.DirFS(root)
	manifests, err := doublestar.Glob(fsys, DirPrefix+"*/"+PackageFile)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(manifests)

	themes := make([]tokens.Theme, 0, len(manifests))
	for _, manifest := range manifests {
		dir := path.Dir(manifest)
		pkg, err := readPackageJSON(fsys, manifest)
		if err != nil {
			r.log.Warn("skipping theme package", map[string]any{"dir": dir, "error": err.Error()})
			continue
		}

		id := strings.TrimPrefix(dir, DirPrefix)
		theme := tokens.Theme{
			ID:               id,
			Name:             tokens.DisplayName(id),
			PackageName:      pkg.Name,
			Version:          pkg.Version,
			CSSFiles:         globNames(fsys, dir, "*.css"),
			ComponentFolders: componentDirs(fsys, dir),
		}
		themes = append(themes, theme)
	}
	return themes, nil
}

func readPackageJSON(fsys fs.FS, name string) (*PackageJSON, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &pkg, nil
}

// globNames returns the matches of pattern under dir, relative to dir
func globNames(fsys fs.FS, dir, pattern string) []string {
	matches, err := doublestar.Glob(fsys, dir+"/"+pattern)
	if err != nil {
		return []string{}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimPrefix(m, dir+"/"))
	}
	sort.Strings(out)
	return out
}

// componentDirs lists the folders under <dir>/components
func componentDirs(fsys fs.FS, dir string) []string {
	entries, err := fs.ReadDir(fsys, dir+"/components")
	if err != nil {
		return []string{}
	}
	out := []string{}
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, "components/"+e.Name())
		}
	}
	return out
}
