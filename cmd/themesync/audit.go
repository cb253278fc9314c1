package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/themesync"
	"github.com/yacobolo/themesync/internal/report"
)

var auditCmd = &cobra.Command{
	Use:     "audit",
	Aliases: []string{"lint"},
	Short:   "Check a theme for dangling references and unused colors",
	Long: `Report semantic tokens, color modes and typography that reference colors
the theme does not define, invalid color values and unused base colors.
Only errors fail the run unless --strict is set.`,
	PreRunE: preRunLoadConfig,
	RunE:    runAudit,
}

var componentsCmd = &cobra.Command{
	Use:     "components",
	Short:   "List the React components of a theme package",
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}
		theme, _ := cmd.Flags().GetString("theme")
		components, stats, err := engine.DiscoverComponents(theme)
		if err != nil {
			return err
		}
		data := struct {
			Components any                 `json:"components"`
			Stats      themesync.ScanStats `json:"stats"`
		}{components, stats}
		return emit(cmd, data, func(p *report.Printer) {
			p.Components(components)
			p.Hint(fmt.Sprintf("%d files scanned, %d skipped", stats.FilesScanned, stats.FilesSkipped))
		})
	},
}

func init() {
	f := auditCmd.Flags()
	f.String("theme", "", "Theme id (default: active theme)")
	f.Bool("strict", false, "Exit 1 on any error or warning (CI mode)")
	f.Float64("threshold", 0.0, "Minimum color usage percentage for strict mode")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Int("max-issues-per-linter", 0, "Max issues to show per linter (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("skip-info", false, "Drop info-level findings such as unused colors")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (themeaudit) suffix on issues")

	componentsCmd.Flags().String("theme", "", "Theme id (default: active theme)")
	addOutputFlag(componentsCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	engine, _, err := newEngine("console")
	if err != nil {
		return err
	}
	theme, _ := cmd.Flags().GetString("theme")
	result, err := engine.Audit(theme, buildAuditConfig())
	if err != nil {
		return err
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "audit.output-format", "")
	format := themesync.DetermineOutputFormat(outputFormat, themesync.OutputIssues)

	if !quiet {
		if err := themesync.WriteAuditOutput(cmd.OutOrStdout(), result, format, buildReportConfig()); err != nil {
			return err
		}
	}

	// Exit code logic - "Soft Gate" approach
	errors, warnings := result.Counts()
	if getBoolWithFallback("strict", "audit.strict", false) {
		// Strict mode: any error or warning fails the build
		if errors+warnings > 0 {
			return errIssuesFound
		}

		threshold := getFloat64WithFallback("threshold", "audit.threshold", 0.0)
		if threshold > 0 && result.UsagePercent < threshold {
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nStrict mode: color usage %.1f%% is below threshold %.1f%%\n",
					result.UsagePercent, threshold)
			}
			return errIssuesFound
		}
	} else if errors > 0 {
		// Default "Soft Gate" mode: only errors fail the build
		return errIssuesFound
	}

	return nil
}
