package themesync

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/tokens"
)

// AuditConfig holds audit configuration
type AuditConfig struct {
	MaxIssuesPerLinter int  // 0 = unlimited
	MaxSameIssues      int  // 0 = unlimited
	SkipInfo           bool // Drop info-level findings such as unused colors
}

// AuditResult contains audit findings and statistics
type AuditResult struct {
	Theme        string  `json:"theme"`
	Issues       []Issue `json:"issues"`
	FilesScanned int     `json:"filesScanned"`

	Colors         int     `json:"colors"`
	Semantic       int     `json:"semantic"`
	Modes          int     `json:"modes"`
	UnusedColors   int     `json:"unusedColors"`
	UsagePercent   float64 `json:"usagePercent"` // Base colors referenced at least once
	TruncatedCount int     `json:"truncatedCount"`

	Warnings []string `json:"warnings,omitempty"` // Parse and import warnings
}

// Counts returns the number of error and warning issues
func (r *AuditResult) Counts() (errors, warnings int) {
	return countSeverities(r.Issues)
}

// builtinColors are Tailwind color utilities that need no token
var builtinColors = map[string]bool{
	"white": true, "black": true, "transparent": true, "current": true, "inherit": true,
}

// Audit checks the token model of a theme for dangling references and
// unused colors. It never writes.
func (e *Engine) Audit(themeID string, cfg AuditConfig) (*AuditResult, error) {
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

	a := &auditor{snap: snap, colors: map[string]bool{}, semantic: map[string]bool{}, used: map[string]bool{}, issues: []Issue{}}
	for _, f := range conventionalFiles(e.registry.Paths(id)) {
		// #nosec G304 - path comes from the theme registry
		content, err := os.ReadFile(f.path)
		if err != nil {
			continue
		}
		a.sources = append(a.sources, source{
			key:      f.key,
			file:     e.rel(f.path),
			content:  string(content),
			comments: cssparse.CommentSpans(string(content)),
		})
	}

	result := a.run()
	result.Theme = id
	result.Warnings = snap.Warnings

	if cfg.SkipInfo {
		kept := result.Issues[:0]
		for _, issue := range result.Issues {
			if issue.Severity != SeverityInfo {
				kept = append(kept, issue)
			}
		}
		result.Issues = kept
	}
	if cfg.MaxIssuesPerLinter > 0 || cfg.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = limitIssues(result.Issues, cfg)
	}

	e.log.Debug("audited theme", map[string]any{"theme": id, "issues": len(result.Issues)})
	return result, nil
}

type source struct {
	key      string // tokens, dark, fonts, typography
	file     string
	content  string
	comments [][2]int
}

type auditor struct {
	snap     *tokens.Snapshot
	sources  []source
	colors   map[string]bool
	semantic map[string]bool
	used     map[string]bool
	issues   []Issue
}

func (a *auditor) known(name string) bool {
	return a.colors[name] || a.semantic[name]
}

func (a *auditor) run() *AuditResult {
	for _, c := range a.snap.Colors {
		a.colors[c.Name] = true
	}
	for _, t := range a.snap.Semantic {
		a.semantic[t.Name] = true
	}

	for _, c := range a.snap.Colors {
		if err := tokens.ValidateColor(c.Value); err != nil {
			a.add(SeverityError, RuleInvalidColor, fmt.Sprintf(IssueInvalidColor, c.Name, err),
				a.declaration("", cssparse.ColorPrefix+c.Name))
		}
	}

	for _, t := range a.snap.Semantic {
		a.used[t.Reference] = true
		if cssparse.IsReference(t.Reference) && !a.known(t.Reference) {
			a.add(SeverityError, RuleUnresolvedSemantic, fmt.Sprintf(IssueUnresolvedSemantic, t.Name, t.Reference),
				a.declaration("", cssparse.ColorPrefix+t.Name))
		}
	}

	for _, m := range a.snap.Modes {
		keys := make([]string, 0, len(m.Overrides))
		for k := range m.Overrides {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			ref := m.Overrides[k]
			a.used[ref] = true
			pos := a.declaration(m.ClassName, cssparse.ColorPrefix+k)
			if !a.known(k) {
				a.add(SeverityWarning, RuleUnknownModeToken, fmt.Sprintf(IssueUnknownModeToken, m.Name, k), pos)
			}
			if cssparse.IsReference(ref) && !a.known(ref) {
				a.add(SeverityWarning, RuleUnknownModeColor, fmt.Sprintf(IssueUnknownModeColor, m.Name, k, ref), pos)
			}
		}
	}

	for _, s := range a.snap.Typography {
		if s.BaseColorID == "" {
			continue
		}
		a.used[s.BaseColorID] = true
		if !a.known(s.BaseColorID) && !builtinColors[s.BaseColorID] {
			a.add(SeverityWarning, RuleTypographyColor, fmt.Sprintf(IssueTypographyColor, s.Element, s.BaseColorID),
				a.element(s.Element))
		}
	}

	unused := 0
	for _, c := range a.snap.Colors {
		if a.used[c.Name] {
			continue
		}
		unused++
		a.add(SeverityInfo, RuleUnusedColor, fmt.Sprintf(IssueUnusedColor, c.Name),
			a.declaration("", cssparse.ColorPrefix+c.Name))
	}

	usage := 0.0
	if n := len(a.snap.Colors); n > 0 {
		usage = float64(n-unused) / float64(n) * 100
	}

	files := 0
	for _, exists := range a.snap.Files {
		if exists {
			files++
		}
	}

	return &AuditResult{
		Issues:       a.issues,
		FilesScanned: files,
		Colors:       len(a.snap.Colors),
		Semantic:     len(a.snap.Semantic),
		Modes:        len(a.snap.Modes),
		UnusedColors: unused,
		UsagePercent: usage,
	}
}

func (a *auditor) add(severity, rule, text string, loc location) {
	issue := Issue{
		FromLinter: LinterName,
		Text:       text,
		Severity:   severity,
		Rule:       rule,
		Pos:        IssuePos{Filename: loc.file, Line: loc.line, Column: loc.column},
	}
	if loc.text != "" {
		issue.SourceLines = []string{loc.text}
	}
	a.issues = append(a.issues, issue)
}

type location struct {
	file         string
	line, column int
	text         string
}

// declaration finds prop in the sources, inside the class block when
// className is set. The tokens file is searched first.
func (a *auditor) declaration(className, prop string) location {
	pattern := regexp.MustCompile(`(^|[^A-Za-z0-9_-])(` + regexp.QuoteMeta(prop) + `)\s*:`)
	for _, src := range a.sources {
		from, to := 0, len(src.content)
		if className != "" {
			blocks := cssparse.Find(src.content, cssparse.IsClass(className))
			if len(blocks) == 0 {
				continue
			}
			from, to = blocks[0].BodyStart, blocks[0].BodyEnd
		}
		if loc, ok := src.find(pattern, 2, from, to); ok {
			return loc
		}
	}
	return a.fallback()
}

// element finds the @layer base rule of a typography element
func (a *auditor) element(element string) location {
	pattern := regexp.MustCompile(`(?m)(^|[\s,}])(` + regexp.QuoteMeta(element) + `)\s*\{`)
	for _, src := range a.sources {
		if src.key != "typography" {
			continue
		}
		if loc, ok := src.find(pattern, 2, 0, len(src.content)); ok {
			return loc
		}
	}
	return a.fallback()
}

func (a *auditor) fallback() location {
	if len(a.sources) > 0 {
		return location{file: a.sources[0].file}
	}
	return location{}
}

// find returns the first match of group outside comments in [from, to)
func (s source) find(pattern *regexp.Regexp, group, from, to int) (location, bool) {
	for _, m := range pattern.FindAllStringSubmatchIndex(s.content[from:to], -1) {
		off := from + m[2*group]
		if cssparse.InComment(s.comments, off) {
			continue
		}
		return s.at(off), true
	}
	return location{}, false
}

func (s source) at(off int) location {
	lineStart := strings.LastIndexByte(s.content[:off], '\n') + 1
	lineEnd := strings.IndexByte(s.content[off:], '\n')
	if lineEnd < 0 {
		lineEnd = len(s.content)
	} else {
		lineEnd += off
	}
	return location{
		file:   s.file,
		line:   strings.Count(s.content[:off], "\n") + 1,
		column: off - lineStart + 1,
		text:   s.content[lineStart:lineEnd],
	}
}

// limitIssues applies max-issues-per-linter and max-same-issues
func limitIssues(issues []Issue, cfg AuditConfig) ([]Issue, int) {
	originalCount := len(issues)

	if cfg.MaxIssuesPerLinter > 0 && len(issues) > cfg.MaxIssuesPerLinter {
		issues = issues[:cfg.MaxIssuesPerLinter]
	}
	if cfg.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, cfg.MaxSameIssues)
	}

	return issues, originalCount - len(issues)
}

// deduplicateSameIssues limits how many issues of one rule are kept
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	counts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		if counts[issue.Rule] < maxSame {
			filtered = append(filtered, issue)
			counts[issue.Rule]++
		}
	}

	return filtered
}
