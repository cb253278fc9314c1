package tokens

// ColorCategory groups base colors
type ColorCategory string

// Base color categories
const (
	ColorBrand   ColorCategory = "brand"
	ColorNeutral ColorCategory = "neutral"
)

// SemanticCategory groups semantic tokens by role
type SemanticCategory string

// Semantic token categories
const (
	SemanticSurface SemanticCategory = "surface"
	SemanticContent SemanticCategory = "content"
	SemanticEdge    SemanticCategory = "edge"
	SemanticSystem  SemanticCategory = "system"
)

// FontSource tells where a font file is served from
type FontSource string

// Font sources inferred from the url() shape
const (
	SourceLocal  FontSource = "local"
	SourceGoogle FontSource = "google"
	SourceRemote FontSource = "remote"
)

// BaseColor is a primitive named color that other tokens reference
type BaseColor struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`        // "sun-yellow" (without --color-)
	DisplayName string        `json:"displayName"` // "Sun Yellow"
	Value       string        `json:"value"`       // "#fce184"
	Category    ColorCategory `json:"category"`
}

// SemanticToken is a named role whose value references a base color
type SemanticToken struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`      // "surface-primary"
	Reference string           `json:"reference"` // "cream" or a raw literal
	Category  SemanticCategory `json:"category"`
}

// ColorMode is a class block that redefines semantic tokens
type ColorMode struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`      // "dark"
	ClassName string            `json:"className"` // "dark"
	Overrides map[string]string `json:"overrides"` // "surface-primary" -> "black"
}

// FontFile is one src entry of an @font-face rule
type FontFile struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Weight string `json:"weight"` // raw: "400" or "100 900"
	Style  string `json:"style"`
}

// FontDefinition groups font files by family
type FontDefinition struct {
	ID      string     `json:"id"` // "joystix"
	Family  string     `json:"family"`
	Source  FontSource `json:"source"`
	Files   []FontFile `json:"files"`
	Weights []int      `json:"weights"` // Expanded, sorted, unique
	Styles  []string   `json:"styles"`
}

// TypographyStyle is the structured form of one @layer base element rule
type TypographyStyle struct {
	Element       string   `json:"element"`       // "h1"
	FontFamilyID  string   `json:"fontFamilyId"`  // "joystix" (font-joystix)
	FontSize      string   `json:"fontSize"`      // "4xl" (text-4xl)
	FontWeight    string   `json:"fontWeight"`    // "bold" (font-bold)
	LineHeight    string   `json:"lineHeight"`    // "tight" (leading-tight)
	LetterSpacing string   `json:"letterSpacing"` // "wide" (tracking-wide)
	BaseColorID   string   `json:"baseColorId"`   // "content-primary" (text-content-primary)
	Utilities     []string `json:"utilities"`     // Classes the classifier could not place
}

// Theme describes one theme package in the workspace
type Theme struct {
	ID               string   `json:"id"`          // "rad-os"
	Name             string   `json:"name"`        // "Rad Os"
	PackageName      string   `json:"packageName"` // "@rdna/theme-rad-os"
	Version          string   `json:"version"`
	CSSFiles         []string `json:"cssFiles"`
	ComponentFolders []string `json:"componentFolders"`
	IsActive         bool     `json:"isActive"`
}

// ComponentProp is a prop parsed from a component's props interface
type ComponentProp struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
}

// DiscoveredComponent is derived from static analysis of component sources
type DiscoveredComponent struct {
	Name    string          `json:"name"`
	Path    string          `json:"path"`
	Props   []ComponentProp `json:"props"`
	Theme   string          `json:"theme,omitempty"`
	ThemeID string          `json:"themeId,omitempty"`
}

// Snapshot is the token model parsed from a theme's CSS files
type Snapshot struct {
	ThemeID    string            `json:"themeId"`
	Colors     []BaseColor       `json:"colors"`
	Semantic   []SemanticToken   `json:"semantic"`
	Modes      []ColorMode       `json:"modes"`
	Radius     map[string]string `json:"radius"`
	Shadows    map[string]string `json:"shadows"`
	Fonts      []FontDefinition  `json:"fonts"`
	Typography []TypographyStyle `json:"typography"`
	Files      map[string]bool   `json:"files,omitempty"` // Conventional file -> exists
	Warnings   []string          `json:"warnings,omitempty"`
}

// NewSnapshot returns an empty snapshot with non-nil collections
func NewSnapshot(themeID string) *Snapshot {
	return &Snapshot{
		ThemeID:    themeID,
		Colors:     []BaseColor{},
		Semantic:   []SemanticToken{},
		Modes:      []ColorMode{},
		Radius:     map[string]string{},
		Shadows:    map[string]string{},
		Fonts:      []FontDefinition{},
		Typography: []TypographyStyle{},
	}
}

// Color returns the base color with the given name
func (s *Snapshot) Color(name string) (BaseColor, bool) {
	for _, c := range s.Colors {
		if c.Name == name {
			return c, true
		}
	}
	return BaseColor{}, false
}

// Mode returns the color mode with the given name
func (s *Snapshot) Mode(name string) (ColorMode, bool) {
	for _, m := range s.Modes {
		if m.Name == name {
			return m, true
		}
	}
	return ColorMode{}, false
}
