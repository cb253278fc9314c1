package themesync

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yacobolo/themesync/internal/tokens"
)

// ScanStats tracks component discovery statistics
type ScanStats struct {
	FilesDiscovered int `json:"filesDiscovered"` // Files matched by the component globs
	FilesScanned    int `json:"filesScanned"`    // Files actually scanned
	FilesSkipped    int `json:"filesSkipped"`    // Tests, stories and gitignored files
}

var (
	// ComponentPatterns are the globs scanned under a theme directory
	ComponentPatterns = []string{"components/**/*.tsx", "components/**/*.jsx"}

	exportPattern  = regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function\s*\*?\s*|const\s+|class\s+)([A-Z][A-Za-z0-9_]*)`)
	propsPattern   = regexp.MustCompile(`^\s*(?:export\s+)?(?:interface\s+([A-Z][A-Za-z0-9_]*)Props\b[^{]*|type\s+([A-Z][A-Za-z0-9_]*)Props\s*=\s*[^{]*)\{`)
	propPattern    = regexp.MustCompile(`^\s*(?:readonly\s+)?([A-Za-z_$][A-Za-z0-9_$]*)(\?)?\s*:\s*(.+?)\s*[;,]?\s*$`)
	commentPattern = regexp.MustCompile(`^\s*(//|/\*|\*)`)
)

// isGeneratedOrTest reports files that never hold real components
func isGeneratedOrTest(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{".test.tsx", ".test.jsx", ".spec.tsx", ".spec.jsx", ".stories.tsx", ".stories.jsx", ".d.ts"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

// ignoreMatcher checks paths against a .gitignore relative to its directory
type ignoreMatcher struct {
	dir string
	gi  *ignore.GitIgnore
}

// loadIgnores compiles the .gitignore files of dirs that have one
func loadIgnores(dirs ...string) []ignoreMatcher {
	var out []ignoreMatcher
	for _, dir := range dirs {
		gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
		if err != nil {
			continue
		}
		out = append(out, ignoreMatcher{dir: dir, gi: gi})
	}
	return out
}

func ignored(matchers []ignoreMatcher, path string) bool {
	for _, m := range matchers {
		rel, err := filepath.Rel(m.dir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if m.gi.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// DiscoverComponents statically scans a theme's components directory for
// exported React components and their props interfaces. It never writes.
func (e *Engine) DiscoverComponents(themeID string) ([]tokens.DiscoveredComponent, ScanStats, error) {
	var stats ScanStats
	if err := e.gate(); err != nil {
		return nil, stats, err
	}
	id, err := e.resolveTheme(themeID)
	if err != nil {
		return nil, stats, err
	}

	dir := e.registry.Paths(id).Dir
	files, stats, err := expandComponentGlobs(dir, loadIgnores(e.cfg.Root, dir))
	if err != nil {
		return nil, stats, err
	}

	pkg := e.registry.PackageName(id)
	components := []tokens.DiscoveredComponent{}
	for _, file := range files {
		found, err := scanComponentFile(file)
		if err != nil {
			e.log.Warn("skipping component file", map[string]any{"file": file, "error": err.Error()})
			continue
		}
		for _, c := range found {
			c.Path = e.rel(file)
			c.Theme = pkg
			c.ThemeID = id
			components = append(components, c)
		}
	}

	sort.SliceStable(components, func(i, j int) bool {
		if components[i].Name != components[j].Name {
			return components[i].Name < components[j].Name
		}
		return components[i].Path < components[j].Path
	})

	e.log.Debug("discovered components", map[string]any{
		"theme":      id,
		"components": len(components),
		"scanned":    stats.FilesScanned,
		"skipped":    stats.FilesSkipped,
	})
	return components, stats, nil
}

// expandComponentGlobs expands ComponentPatterns under dir and tracks statistics
func expandComponentGlobs(dir string, ignores []ignoreMatcher) ([]string, ScanStats, error) {
	var (
		stats ScanStats
		files []string
		seen  = make(map[string]bool)
	)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return files, stats, nil
	}

	fsys := os.DirFS(dir)
	for _, pattern := range ComponentPatterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			path := filepath.Join(dir, filepath.FromSlash(match))
			if seen[path] {
				continue
			}
			seen[path] = true
			stats.FilesDiscovered++

			if isGeneratedOrTest(path) || ignored(ignores, path) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, path)
			stats.FilesScanned++
		}
	}

	sort.Strings(files)
	return files, stats, nil
}

// scanComponentFile finds exported components and attaches the props of a
// matching "<Name>Props" interface or type literal
func scanComponentFile(path string) ([]tokens.DiscoveredComponent, error) {
	// #nosec G304 - path comes from the component globs
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var (
		exports []string
		props   = make(map[string][]tokens.ComponentProp)
		current string // name of the props block being read
		depth   int
	)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if current != "" {
			if depth == 1 && !commentPattern.MatchString(line) {
				if m := propPattern.FindStringSubmatch(line); m != nil {
					typ := strings.TrimSpace(strings.TrimRight(m[3], "{"))
					if typ == "" {
						typ = "object"
					}
					props[current] = append(props[current], tokens.ComponentProp{
						Name:     m[1],
						Type:     typ,
						Optional: m[2] == "?",
					})
				}
			}
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 {
				current = ""
			}
			continue
		}

		if commentPattern.MatchString(line) {
			continue
		}

		if m := propsPattern.FindStringSubmatch(line); m != nil {
			current = m[1] + m[2]
			if _, ok := props[current]; !ok {
				props[current] = []tokens.ComponentProp{}
			}
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 {
				current = ""
			}
			continue
		}

		// SCREAMING_CASE exports are constants, not components
		if m := exportPattern.FindStringSubmatch(line); m != nil && strings.ToUpper(m[1]) != m[1] {
			exports = append(exports, m[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	components := make([]tokens.DiscoveredComponent, 0, len(exports))
	seen := make(map[string]bool)
	for _, name := range exports {
		if seen[name] {
			continue
		}
		seen[name] = true
		p := props[name]
		if p == nil {
			p = []tokens.ComponentProp{}
		}
		components = append(components, tokens.DiscoveredComponent{Name: name, Props: p})
	}
	return components, nil
}
