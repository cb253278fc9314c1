package tokens

import (
	"github.com/google/uuid"
)

// Token ids are name-derived UUIDs so an id handed to the UI still maps to
// the same declaration after the files are parsed again.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("themesync:tokens"))

func derive(themeID, kind, name string) string {
	space := uuid.NewSHA1(namespace, []byte(themeID))
	return uuid.NewSHA1(space, []byte(kind+":"+name)).String()
}

// ColorID returns the id of a base color
func ColorID(themeID, name string) string {
	return derive(themeID, "color", name)
}

// SemanticID returns the id of a semantic token
func SemanticID(themeID, name string) string {
	return derive(themeID, "semantic", name)
}

// ModeID returns the id of a color mode
func ModeID(themeID, name string) string {
	return derive(themeID, "mode", name)
}

// FontID returns the slug used as a font definition id ("Joystix Mono" -> "joystix-mono")
func FontID(family string) string {
	return Slug(family)
}

// AssignIDs fills ids that are derived from names
func (s *Snapshot) AssignIDs() {
	for i := range s.Colors {
		s.Colors[i].ID = ColorID(s.ThemeID, s.Colors[i].Name)
	}
	for i := range s.Semantic {
		s.Semantic[i].ID = SemanticID(s.ThemeID, s.Semantic[i].Name)
	}
	for i := range s.Modes {
		s.Modes[i].ID = ModeID(s.ThemeID, s.Modes[i].Name)
	}
	for i := range s.Fonts {
		s.Fonts[i].ID = FontID(s.Fonts[i].Family)
	}
}

// SemanticName resolves a semantic token id or name to its name
func (s *Snapshot) SemanticName(idOrName string) (string, bool) {
	for _, tok := range s.Semantic {
		if tok.ID == idOrName || tok.Name == idOrName {
			return tok.Name, true
		}
	}
	return "", false
}
