package themesync

import (
	"fmt"
	"sort"

	"github.com/yacobolo/themesync/internal/csspatch"
	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/theme"
	"github.com/yacobolo/themesync/internal/tokens"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

// TokenChanges is a partial change-set for a tokens file. Keys are token
// names without their prefix ("sun-yellow", "md", "card").
type TokenChanges = csspatch.TokenChanges

// WriteResult describes a single-file write
type WriteResult struct {
	Theme   string `json:"theme"`
	Updated int    `json:"updated"`
	Changed bool   `json:"changed"`
	File    string `json:"file"`
	Backup  string `json:"backup,omitempty"`
	Diff    string `json:"diff,omitempty"`

	Changes []tokens.Change `json:"changes,omitempty"`
}

// CSSChanges is a multi-file change-set. A nil section leaves its file
// alone; an empty non-nil Modes, Fonts or Typography clears that section.
type CSSChanges struct {
	Tokens     *TokenChanges            `json:"tokens,omitempty"`
	Semantic   map[string]string        `json:"semantic,omitempty"`
	Fonts      []tokens.FontDefinition  `json:"fonts,omitempty"`
	Typography []tokens.TypographyStyle `json:"typography,omitempty"`
	Modes      []tokens.ColorMode       `json:"colorModes,omitempty"`
}

// Empty reports whether no section is present
func (c CSSChanges) Empty() bool {
	return (c.Tokens == nil || c.Tokens.Empty()) && len(c.Semantic) == 0 &&
		c.Fonts == nil && c.Typography == nil && c.Modes == nil
}

// FileOutcome is the result for one file of a multi-file write
type FileOutcome struct {
	Section string `json:"section"`
	File    string `json:"file"`
	Changed bool   `json:"changed"`
	Updated int    `json:"updated,omitempty"`
	Backup  string `json:"backup,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// MultiWriteResult collects per-file outcomes. Files are independent: a
// failure in one never rolls back another.
type MultiWriteResult struct {
	Theme string        `json:"theme"`
	Files []FileOutcome `json:"files"`
}

// Failed returns the number of files that could not be written
func (m *MultiWriteResult) Failed() int {
	n := 0
	for _, f := range m.Files {
		if f.Error != "" {
			n++
		}
	}
	return n
}

func validateTokenChanges(changes TokenChanges) error {
	if changes.Empty() {
		return tserrors.NewValidationError("changes", "empty change-set", nil)
	}
	if err := validateStruct(tokenRequest(changes)); err != nil {
		return err
	}
	if err := validateColors(changes.Colors, "colors"); err != nil {
		return err
	}
	return validateColors(changes.AddColors, "addColors")
}

// WriteTokens patches the tokens file of an active theme. Updated counts
// declarations that actually changed; names that do not exist count zero.
func (e *Engine) WriteTokens(themeID string, changes TokenChanges) (*WriteResult, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	if err := validateTokenChanges(changes); err != nil {
		return nil, err
	}
	id, err := e.resolveTheme(themeID)
	if err != nil {
		return nil, err
	}

	updated := 0
	res, err := e.registry.Write(id, e.registry.Paths(id).Tokens, func(css string) (string, error) {
		out, n := csspatch.ApplyTokens(css, changes)
		updated = n
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("wrote tokens", map[string]any{"theme": id, "updated": updated})
	return e.writeResult(id, updated, res), nil
}

// PreviewTokens computes the patch WriteTokens would make without writing
// or checking the write-lock
func (e *Engine) PreviewTokens(themeID string, changes TokenChanges) (*WriteResult, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	if err := validateTokenChanges(changes); err != nil {
		return nil, err
	}
	id, err := e.resolveTheme(themeID)
	if err != nil {
		return nil, err
	}

	updated := 0
	res, err := e.registry.Preview(e.registry.Paths(id).Tokens, func(css string) (string, error) {
		out, n := csspatch.ApplyTokens(css, changes)
		updated = n
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return e.writeResult(id, updated, res), nil
}

func (e *Engine) writeResult(id string, updated int, res *theme.FileResult) *WriteResult {
	file := e.rel(res.File)
	return &WriteResult{
		Theme:   id,
		Updated: updated,
		Changed: res.Changed,
		File:    file,
		Backup:  res.Backup,
		Diff:    csspatch.UnifiedDiff(file, res.Before, res.After),
		Changes: tokens.Diff(cssparse.Parse(id, res.Before, e.parse), cssparse.Parse(id, res.After, e.parse)),
	}
}

// baseColors returns the base color names a write may reference: those of
// snap, adjusted by the additions and removals of a pending change-set
func baseColors(snap *tokens.Snapshot, pending *TokenChanges) map[string]bool {
	names := make(map[string]bool, len(snap.Colors))
	for _, c := range snap.Colors {
		names[c.Name] = true
	}
	if pending != nil {
		for name := range pending.AddColors {
			names[name] = true
		}
		for _, name := range pending.RemoveColors {
			delete(names, name)
		}
	}
	return names
}

// semanticNames maps semantic ids or names to names. Every target must be
// a base color of the theme. Unknown keys are dropped with a warning.
func (e *Engine) semanticNames(snap *tokens.Snapshot, mappings map[string]string, colors map[string]bool) (map[string]string, error) {
	normalized := make(map[string]string, len(mappings))
	for k, v := range mappings {
		normalized[k] = cssparse.ReferenceName(v)
	}
	if err := validateStruct(semanticRequest{Mappings: normalized}); err != nil {
		return nil, err
	}

	for _, key := range sortedNames(normalized) {
		if base := normalized[key]; !colors[base] {
			return nil, tserrors.NewValidationError("mappings["+key+"]", fmt.Sprintf("unknown base color %q", base), nil)
		}
	}

	byName := make(map[string]string, len(normalized))
	for key, base := range normalized {
		name, ok := snap.SemanticName(key)
		if !ok {
			e.log.Warn("unknown semantic token", map[string]any{"theme": snap.ThemeID, "token": key})
			continue
		}
		byName[name] = base
	}
	return byName, nil
}

// checkModeReferences rejects mode overrides that name a missing base color.
// CSS literals are written as-is and pass.
func checkModeReferences(modes []tokens.ColorMode, colors map[string]bool) error {
	for i, m := range modes {
		for _, k := range sortedNames(m.Overrides) {
			ref := cssparse.ReferenceName(m.Overrides[k])
			if cssparse.IsReference(ref) && !colors[ref] {
				field := fmt.Sprintf("colorModes[%d].overrides.%s", i, k)
				return tserrors.NewValidationError(field, fmt.Sprintf("unknown base color %q", ref), nil)
			}
		}
	}
	return nil
}

func sortedNames(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteSemantic points semantic tokens, given by id or name, at new base
// colors. Updated counts the mappings that changed.
func (e *Engine) WriteSemantic(themeID string, mappings map[string]string) (*WriteResult, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return nil, tserrors.NewValidationError("mappings", "empty change-set", nil)
	}
	id, err := e.resolveTheme(themeID)
	if err != nil {
		return nil, err
	}
	snap, err := e.readTokens(id)
	if err != nil {
		return nil, err
	}
	byName, err := e.semanticNames(snap, mappings, baseColors(snap, nil))
	if err != nil {
		return nil, err
	}

	updated := 0
	res, err := e.registry.Write(id, e.registry.Paths(id).Tokens, func(css string) (string, error) {
		out, n := csspatch.ApplySemantic(css, byName)
		updated = n
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("wrote semantic mappings", map[string]any{"theme": id, "updated": updated})
	return e.writeResult(id, updated, res), nil
}

func validateCSSChanges(c CSSChanges) error {
	if c.Empty() {
		return tserrors.NewValidationError("changes", "empty change-set", nil)
	}
	if c.Tokens != nil && !c.Tokens.Empty() {
		if err := validateTokenChanges(*c.Tokens); err != nil {
			return err
		}
	}
	for i, m := range c.Modes {
		field := fmt.Sprintf("colorModes[%d]", i)
		if !tokens.IsTokenName(m.Name) {
			return tserrors.NewValidationError(field+".name", fmt.Sprintf("%q must be kebab-case", m.Name), nil)
		}
		for k, v := range m.Overrides {
			if !tokens.IsTokenName(k) || !tokens.IsSafeValue(v) {
				return tserrors.NewValidationError(field+".overrides."+k, fmt.Sprintf("invalid override %q", v), nil)
			}
		}
	}
	for i, f := range c.Fonts {
		if f.Family == "" || !tokens.IsSafeValue(f.Family) {
			return tserrors.NewValidationError(fmt.Sprintf("fonts[%d].family", i), "family is required", nil)
		}
	}
	for i, s := range c.Typography {
		if s.Element == "" || !tokens.IsSafeValue(s.Element) {
			return tserrors.NewValidationError(fmt.Sprintf("typography[%d].element", i), "element is required", nil)
		}
	}
	return nil
}

// WriteCSS applies a multi-file change-set. The request is validated and
// the write-lock checked up front; after that each file is written
// independently and reported in its own FileOutcome.
func (e *Engine) WriteCSS(themeID string, changes CSSChanges) (*MultiWriteResult, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	if err := validateCSSChanges(changes); err != nil {
		return nil, err
	}
	id, err := e.resolveTheme(themeID)
	if err != nil {
		return nil, err
	}
	if err := e.registry.CheckWritable(id); err != nil {
		return nil, err
	}

	var semantic map[string]string
	if len(changes.Semantic) > 0 || len(changes.Modes) > 0 {
		snap, err := e.readTokens(id)
		if err != nil {
			return nil, err
		}
		colors := baseColors(snap, changes.Tokens)
		if len(changes.Semantic) > 0 {
			if semantic, err = e.semanticNames(snap, changes.Semantic, colors); err != nil {
				return nil, err
			}
		}
		if err := checkModeReferences(changes.Modes, colors); err != nil {
			return nil, err
		}
	}

	files := e.registry.Paths(id)
	result := &MultiWriteResult{Theme: id, Files: []FileOutcome{}}

	if (changes.Tokens != nil && !changes.Tokens.Empty()) || len(semantic) > 0 {
		updated := 0
		result.Files = append(result.Files, e.writeSection(id, "tokens", files.Tokens, func(css string) (string, error) {
			if changes.Tokens != nil {
				out, n := csspatch.ApplyTokens(css, *changes.Tokens)
				css, updated = out, updated+n
			}
			out, n := csspatch.ApplySemantic(css, semantic)
			updated += n
			return out, nil
		}, &updated))
	}
	if changes.Fonts != nil {
		result.Files = append(result.Files, e.writeSection(id, "fonts", files.Fonts, func(css string) (string, error) {
			return csspatch.RewriteFontFaces(css, changes.Fonts), nil
		}, nil))
	}
	if changes.Typography != nil {
		result.Files = append(result.Files, e.writeSection(id, "typography", files.Typography, func(css string) (string, error) {
			return csspatch.ApplyTypography(css, changes.Typography), nil
		}, nil))
	}
	if changes.Modes != nil {
		result.Files = append(result.Files, e.writeSection(id, "modes", files.Dark, func(css string) (string, error) {
			return csspatch.RewriteModes(css, changes.Modes, e.cfg.Modes), nil
		}, nil))
	}

	e.log.Info("wrote css", map[string]any{"theme": id, "files": len(result.Files), "failed": result.Failed()})
	return result, nil
}

func (e *Engine) writeSection(id, section, path string, patch theme.PatchFunc, updated *int) FileOutcome {
	out := FileOutcome{Section: section, File: e.rel(path)}

	res, err := e.registry.Write(id, path, patch)
	if err != nil {
		e.log.Error(err, "section write failed", map[string]any{"theme": id, "section": section})
		out.Error = err.Error()
		out.Kind = tserrors.Kind(err)
		return out
	}

	out.Changed = res.Changed
	out.Backup = res.Backup
	if updated != nil {
		out.Updated = *updated
	}
	return out
}
