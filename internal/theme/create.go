package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yacobolo/themesync/internal/tokens"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

// Create scaffolds a theme package: package.json, the given CSS files and
// an index.css importing them. An existing directory is never touched.
func (r *Registry) Create(id string, files map[string]string) (*tokens.Theme, error) {
	if !tokens.IsTokenName(id) {
		return nil, tserrors.NewValidationError("id", fmt.Sprintf("%q must be kebab-case", id), nil)
	}

	paths := r.Paths(id)
	if _, err := os.Stat(paths.Dir); err == nil {
		return nil, tserrors.NewValidationError("id", fmt.Sprintf("theme %q already exists", id), nil)
	}
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return nil, tserrors.NewIOError("create", paths.Dir, "", err)
	}

	pkg := PackageJSON{Name: r.PackageName(id), Version: "0.1.0", Style: IndexFile}
	manifest, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(paths.PackageJSON, append(manifest, '\n'), defaultFileMode); err != nil {
		return nil, tserrors.NewIOError("write", paths.PackageJSON, "", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var index strings.Builder
	for _, name := range names {
		path := filepath.Join(paths.Dir, name)
		if err := writeFileAtomic(path, []byte(files[name]), defaultFileMode); err != nil {
			return nil, tserrors.NewIOError("write", path, "", err)
		}
		fmt.Fprintf(&index, "@import \"./%s\";\n", name)
	}
	cssFiles := names
	if _, ok := files[IndexFile]; !ok {
		cssFiles = append(cssFiles, IndexFile)
		indexPath := filepath.Join(paths.Dir, IndexFile)
		if err := writeFileAtomic(indexPath, []byte(index.String()), defaultFileMode); err != nil {
			return nil, tserrors.NewIOError("write", indexPath, "", err)
		}
	}

	r.Invalidate()
	r.log.Info("created theme", map[string]any{"theme": id, "dir": paths.Dir})

	return &tokens.Theme{
		ID:          id,
		Name:        tokens.DisplayName(id),
		PackageName: pkg.Name,
		Version:     pkg.Version,
		CSSFiles:    cssFiles,
	}, nil
}
