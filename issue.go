package themesync

// Issue is a single audit finding in golangci-lint format
type Issue struct {
	FromLinter  string   `json:"FromLinter"`  // "themeaudit"
	Text        string   `json:"Text"`        // "semantic token \"surface\" references undefined color \"ink\""
	Severity    string   `json:"Severity"`    // "error", "warning", ""
	Rule        string   `json:"Rule"`        // RuleUnresolvedSemantic, ...
	SourceLines []string `json:"SourceLines"` // Line of CSS with the finding
	Pos         IssuePos `json:"Pos"`
}

// IssuePos is the location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "packages/theme-rad-os/tokens.css"
	Line     int    `json:"Line"`     // 12
	Column   int    `json:"Column"`   // 3 (1-based)
}

// Severity levels
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// LinterName tags every issue produced by Audit
const LinterName = "themeaudit"

// Audit rules
const (
	RuleUnresolvedSemantic = "unresolved-semantic"
	RuleUnknownModeToken   = "unknown-mode-token"
	RuleUnknownModeColor   = "unknown-mode-color"
	RuleUnusedColor        = "unused-color"
	RuleTypographyColor    = "undefined-typography-color"
	RuleInvalidColor       = "invalid-color"
)

// Issue messages
const (
	IssueUnresolvedSemantic = "semantic token %q references undefined color %q"
	IssueUnknownModeToken   = "mode %q overrides unknown token %q"
	IssueUnknownModeColor   = "mode %q maps %q to undefined color %q"
	IssueUnusedColor        = "base color %q is never referenced"
	IssueTypographyColor    = "typography for %q uses undefined color %q"
	IssueInvalidColor       = "base color %q has invalid value: %v"
)
