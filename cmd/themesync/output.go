package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yacobolo/themesync"
	"github.com/yacobolo/themesync/internal/report"
)

// addOutputFlag registers --output-format on a command that prints a result
func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().String("output-format", "", "Output format: text|json (default: text)")
}

// emit writes v as JSON or hands a Printer to text, honoring --quiet
func emit(cmd *cobra.Command, v any, text func(p *report.Printer)) error {
	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	w := cmd.OutOrStdout()
	format := themesync.DetermineOutputFormat(getStringWithFallback("output-format", "output-format", ""), themesync.OutputText)
	if format == themesync.OutputJSON {
		return themesync.WriteJSON(w, v)
	}
	text(newPrinter(w))
	return nil
}

func newPrinter(w io.Writer) *report.Printer {
	return report.NewPrinter(w, report.ShouldUseColors(getBoolWithFallback("color", "color", false)))
}

func writeJSON(cmd *cobra.Command, v any) error {
	return themesync.WriteJSON(cmd.OutOrStdout(), v)
}
