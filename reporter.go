package themesync

import (
	"fmt"
	"io"
	"sort"

	"github.com/yacobolo/themesync/internal/report"
)

// Reporter prints audit issues in golangci-lint format
type Reporter struct {
	w               io.Writer
	useColors       bool
	printLines      bool
	printLinterName bool
}

// ReportConfig controls issue printing
type ReportConfig struct {
	UseColors        bool // Force colors; otherwise auto-detected
	PrintIssuedLines bool // Show the CSS line under each issue
	PrintLinterName  bool // Show the (themeaudit) suffix
}

// NewReporter creates a Reporter
func NewReporter(w io.Writer, cfg ReportConfig) *Reporter {
	return &Reporter{
		w:               w,
		useColors:       report.ShouldUseColors(cfg.UseColors),
		printLines:      cfg.PrintIssuedLines,
		printLinterName: cfg.PrintLinterName,
	}
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintIssues prints issues sorted by file, line and column
func (r *Reporter) PrintIssues(issues []Issue) {
	sorted := append([]Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Pos.Filename != sorted[j].Pos.Filename {
			return sorted[i].Pos.Filename < sorted[j].Pos.Filename
		}
		if sorted[i].Pos.Line != sorted[j].Pos.Line {
			return sorted[i].Pos.Line < sorted[j].Pos.Line
		}
		return sorted[i].Pos.Column < sorted[j].Pos.Column
	})

	for _, issue := range sorted {
		r.printIssue(issue)
	}
}

// printIssue prints "file:line:col: message (linter)" and the source line
func (r *Reporter) printIssue(issue Issue) {
	location := fmt.Sprintf("%s:%d:%d:", issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column)

	linterSuffix := ""
	if r.printLinterName {
		linterSuffix = fmt.Sprintf(" (%s)", issue.FromLinter)
	}

	text := issue.Text
	switch issue.Severity {
	case SeverityError:
		text = report.RenderStyle(report.StyleRed, "error", r.useColors) + " " + text
	case SeverityWarning:
		text = report.RenderStyle(report.StyleYellow, "warning", r.useColors) + " " + text
	}

	fmt.Fprintf(r.w, "%s %s%s\n",
		report.RenderStyle(report.StyleCyan, location, r.useColors),
		text,
		report.RenderStyle(report.StyleGray, linterSuffix, r.useColors))

	if r.printLines && len(issue.SourceLines) > 0 {
		for _, line := range issue.SourceLines {
			fmt.Fprintf(r.w, "\t%s\n", line)
		}
		caret := report.Caret(issue.SourceLines[0], issue.Pos.Column)
		fmt.Fprintf(r.w, "\t%s\n", report.RenderStyle(report.StyleYellow, caret, r.useColors))
	}
}

// PrintSummary prints issue counts by severity and by rule
func (r *Reporter) PrintSummary(result *AuditResult) {
	total := len(result.Issues)
	errors, warnings := countSeverities(result.Issues)

	fmt.Fprintln(r.w, "")
	summary := report.Pluralize(total, "issue", "issues")
	switch {
	case errors > 0 && warnings > 0:
		summary += fmt.Sprintf(" (%s, %s", report.Pluralize(errors, "error", "errors"), report.Pluralize(warnings, "warning", "warnings"))
	case errors > 0:
		summary += fmt.Sprintf(" (%s", report.Pluralize(errors, "error", "errors"))
	case warnings > 0:
		summary += fmt.Sprintf(" (%s", report.Pluralize(warnings, "warning", "warnings"))
	}
	if result.TruncatedCount > 0 {
		if errors > 0 || warnings > 0 {
			summary += "; "
		} else {
			summary += " ("
		}
		summary += report.Pluralize(result.TruncatedCount, "issue", "issues") + " truncated"
	}
	if errors > 0 || warnings > 0 || result.TruncatedCount > 0 {
		summary += ")"
	}
	fmt.Fprintln(r.w, summary+":")

	rules := make(map[string]int)
	for _, issue := range result.Issues {
		rules[issue.Rule]++
	}
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.w, "* %s: %d\n", name, rules[name])
	}

	if total > 0 {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, report.RenderStyle(report.StyleGray, "Hint: Run with --output-format full to see statistics", r.useColors))
	}
}

// PrintStatistics prints token counts and color usage
func (r *Reporter) PrintStatistics(result *AuditResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, report.RenderStyle(report.StyleCyan, "Theme Audit Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------------")

	fmt.Fprintf(r.w, "Theme:            %s\n", result.Theme)
	fmt.Fprintf(r.w, "Files Scanned:    %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Base Colors:      %d\n", result.Colors)
	fmt.Fprintf(r.w, "Semantic Tokens:  %d\n", result.Semantic)
	fmt.Fprintf(r.w, "Color Modes:      %d\n", result.Modes)
	fmt.Fprintf(r.w, "Unused Colors:    %d\n", result.UnusedColors)

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, report.RenderStyle(report.StyleCyan, "Color Usage", r.useColors))
	fmt.Fprintln(r.w, "-----------")
	printProgressBar(r.w, result.UsagePercent)
}

// PrintWarnings prints parse and import warnings
func (r *Reporter) PrintWarnings(result *AuditResult) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, report.RenderStyle(report.StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")
	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

func printProgressBar(w io.Writer, percentage float64) {
	barWidth := 20
	filled := int(percentage / 100 * float64(barWidth))

	fmt.Fprint(w, "[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			fmt.Fprint(w, "█")
		} else {
			fmt.Fprint(w, "░")
		}
	}
	fmt.Fprintf(w, "] %.1f%%\n", percentage)
}

func countSeverities(issues []Issue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
