package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacobolo/themesync/internal/report"
	"github.com/yacobolo/themesync/internal/tokens"
)

var themesCmd = &cobra.Command{
	Use:     "themes",
	Short:   "List the theme packages of the workspace",
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}
		themes, err := engine.ListThemes()
		if err != nil {
			return err
		}
		return emit(cmd, themes, func(p *report.Printer) { p.Themes(themes) })
	},
}

var currentCmd = &cobra.Command{
	Use:     "current",
	Short:   "Print the active theme",
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}
		current, err := engine.CurrentTheme()
		if err != nil {
			return err
		}
		return emit(cmd, current, func(p *report.Printer) { p.Themes([]tokens.Theme{*current}) })
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch PACKAGE|ID",
	Short: "Make another theme the active one",
	Long: `Rewrite the theme import of the global stylesheet. The argument is a
package name (@rdna/theme-phase) or a bare theme id (phase).`,
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}
		res, err := engine.SwitchTheme(packageName(engine.Config().Scope, args[0]))
		if err != nil {
			return err
		}
		return emit(cmd, res, func(p *report.Printer) {
			if res.Previous == res.Current {
				p.Hint(fmt.Sprintf("%s is already active", res.Current))
				return
			}
			p.Success(fmt.Sprintf("Switched from %s to %s", orNone(res.Previous), res.Current))
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create ID",
	Short: "Scaffold a new theme package",
	Long: `Create packages/theme-ID with the conventional CSS files. With --from the
new theme starts as a copy of another theme's tokens.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")
		created, err := engine.CreateTheme(args[0], from)
		if err != nil {
			return err
		}
		return emit(cmd, created, func(p *report.Printer) {
			p.Success(fmt.Sprintf("Created %s", created.PackageName))
			p.Hint(fmt.Sprintf("run `themesync switch %s` to activate it", created.ID))
		})
	},
}

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Print a theme as portable JSON",
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}
		theme, _ := cmd.Flags().GetString("theme")
		export, err := engine.ExportTheme(theme)
		if err != nil {
			return err
		}
		if getBoolWithFallback("quiet", "quiet", false) {
			return nil
		}
		return writeJSON(cmd, export)
	},
}

func init() {
	addOutputFlag(themesCmd)
	addOutputFlag(currentCmd)
	addOutputFlag(switchCmd)
	addOutputFlag(createCmd)
	createCmd.Flags().String("from", "", "Theme id to copy tokens from")
	exportCmd.Flags().String("theme", "", "Theme id (default: active theme)")
}

// packageName turns a bare theme id into its scoped package name
func packageName(scope, arg string) string {
	if strings.Contains(arg, "/") {
		return arg
	}
	return scope + "/theme-" + arg
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
