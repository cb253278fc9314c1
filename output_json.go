package themesync

import (
	"io"
	"time"
)

// AuditJSON is the JSON export schema of an audit
type AuditJSON struct {
	Version   string           `json:"version"`
	Timestamp string           `json:"timestamp"`
	Theme     string           `json:"theme"`
	Summary   AuditJSONSummary `json:"summary"`
	Stats     AuditJSONStats   `json:"stats"`
	Issues    []AuditJSONIssue `json:"issues"`
	Warnings  []string         `json:"warnings"`
}

// AuditJSONSummary contains issue counts
type AuditJSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Truncated    int `json:"truncated"`
	FilesScanned int `json:"files_scanned"`
}

// AuditJSONStats contains token statistics
type AuditJSONStats struct {
	Colors       int     `json:"colors"`
	Semantic     int     `json:"semantic"`
	Modes        int     `json:"modes"`
	UnusedColors int     `json:"unused_colors"`
	UsagePercent float64 `json:"usage_percentage"`
}

// AuditJSONIssue is one issue
type AuditJSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Source   string `json:"source,omitempty"`
}

// WriteAuditJSON writes an audit result as JSON
func WriteAuditJSON(w io.Writer, result *AuditResult) error {
	return WriteJSON(w, buildAuditJSON(result))
}

func buildAuditJSON(result *AuditResult) AuditJSON {
	errors, warnings := countSeverities(result.Issues)

	issues := make([]AuditJSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		issues[i] = AuditJSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Rule:     issue.Rule,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Source:   source,
		}
	}

	resultWarnings := result.Warnings
	if resultWarnings == nil {
		resultWarnings = []string{}
	}

	return AuditJSON{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Theme:     result.Theme,
		Summary: AuditJSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       errors,
			Warnings:     warnings,
			Truncated:    result.TruncatedCount,
			FilesScanned: result.FilesScanned,
		},
		Stats: AuditJSONStats{
			Colors:       result.Colors,
			Semantic:     result.Semantic,
			Modes:        result.Modes,
			UnusedColors: result.UnusedColors,
			UsagePercent: result.UsagePercent,
		},
		Issues:   issues,
		Warnings: resultWarnings,
	}
}
