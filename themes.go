package themesync

import (
	"strings"
	"time"

	"github.com/yacobolo/themesync/internal/csspatch"
	"github.com/yacobolo/themesync/internal/theme"
	"github.com/yacobolo/themesync/internal/tokens"
)

// ExportVersion is the schema version of Export
const ExportVersion = "1.0"

// Export is the portable JSON form of a theme
type Export struct {
	Version    string           `json:"version"`
	ExportedAt string           `json:"exportedAt"`
	Theme      *tokens.Theme    `json:"theme"`
	Tokens     *tokens.Snapshot `json:"tokens"`
}

// ExportTheme returns a theme's metadata and token model
func (e *Engine) ExportTheme(themeID string) (*Export, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	id, err := e.resolveTheme(themeID)
	if err != nil {
		return nil, err
	}
	snap, err := e.readTokens(id)
	if err != nil {
		return nil, err
	}
	return &Export{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Theme:      e.themeInfo(id),
		Tokens:     snap,
	}, nil
}

// CreateTheme scaffolds a new theme package. With from set the new theme
// starts as a copy of that theme's token model; otherwise the files hold
// empty theme blocks.
func (e *Engine) CreateTheme(id, from string) (*tokens.Theme, error) {
	if err := e.gate(); err != nil {
		return nil, err
	}
	if err := validateStruct(themeRequest{Theme: id}); err != nil {
		return nil, err
	}

	snap := tokens.NewSnapshot(id)
	if from != "" {
		src, err := e.resolveTheme(from)
		if err != nil {
			return nil, err
		}
		if snap, err = e.readTokens(src); err != nil {
			return nil, err
		}
		snap.ThemeID = id
		snap.AssignIDs()
	}

	return e.registry.Create(id, RenderFiles(snap))
}

// RenderFiles renders a token model into the conventional theme files.
// Mode overrides go to the dark file; the tokens file carries none.
func RenderFiles(snap *tokens.Snapshot) map[string]string {
	base := *snap
	base.Modes = nil

	var modes []string
	for _, m := range snap.Modes {
		if block := csspatch.GenerateMode(m); block != "" {
			modes = append(modes, block)
		}
	}
	dark := ""
	if len(modes) > 0 {
		dark = strings.Join(modes, "\n\n") + "\n"
	}

	return map[string]string{
		theme.TokensFile:     csspatch.Generate(&base),
		theme.DarkFile:       dark,
		theme.FontsFile:      csspatch.GenerateFontsFile(snap),
		theme.TypographyFile: csspatch.GenerateTypographyFile(snap),
	}
}
