package themesync

import (
	"encoding/json"
	"io"
)

// OutputFormat selects how results are written
type OutputFormat string

// Output formats
const (
	OutputIssues  OutputFormat = "issues"  // golangci-style issue lines and a summary
	OutputSummary OutputFormat = "summary" // statistics only
	OutputFull    OutputFormat = "full"    // issues, summary and statistics
	OutputText    OutputFormat = "text"    // human-readable reports for non-audit commands
	OutputJSON    OutputFormat = "json"
)

// DetermineOutputFormat maps a --output-format flag to a format. Unknown
// or empty values fall back to def.
func DetermineOutputFormat(formatFlag string, def OutputFormat) OutputFormat {
	switch formatFlag {
	case "issues":
		return OutputIssues
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "text":
		return OutputText
	case "json":
		return OutputJSON
	default:
		return def
	}
}

// WriteAuditOutput writes an audit result in the given format
func WriteAuditOutput(w io.Writer, result *AuditResult, format OutputFormat, cfg ReportConfig) error {
	switch format {
	case OutputJSON:
		return WriteAuditJSON(w, result)

	case OutputSummary:
		reporter := NewReporter(w, cfg)
		reporter.PrintStatistics(result)
		reporter.PrintWarnings(result)

	case OutputFull:
		reporter := NewReporter(w, cfg)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(result)
		reporter.PrintStatistics(result)
		reporter.PrintWarnings(result)

	default:
		reporter := NewReporter(w, cfg)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(result)
	}
	return nil
}

// WriteJSON writes any result as indented JSON
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
