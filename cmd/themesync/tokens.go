package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacobolo/themesync"
	"github.com/yacobolo/themesync/internal/report"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Print the token model of a theme",
	Long: `Parse a theme's CSS files and print its colors, semantic tokens, color
modes, radius, shadows, fonts and typography. Defaults to the active theme.`,
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}
		theme, _ := cmd.Flags().GetString("theme")
		snap, err := engine.ReadTokens(theme)
		if err != nil {
			return err
		}
		return emit(cmd, snap, func(p *report.Printer) { p.Snapshot(snap) })
	},
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit token values of the active theme",
	Long: `Apply a partial change-set to the tokens file of the active theme.
Only the values named are rewritten; everything else stays byte-identical.

  themesync set --colors sun-yellow=#FCE184 --radius md=0.75rem
  themesync set --shadow "card=0 1px 2px rgba(0, 0, 0, 0.1)" --dry-run
  themesync set --add-color ink=#101010 --remove-color cream`,
	PreRunE: preRunLoadConfig,
	RunE:    runSet,
}

var semanticCmd = &cobra.Command{
	Use:   "semantic NAME=REFERENCE...",
	Short: "Point semantic tokens at other colors",
	Long: `Rewrite semantic token references of the active theme. NAME is a semantic
token name or id; REFERENCE is a base color name.

  themesync semantic surface-primary=sun-yellow content-primary=black`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		mappings, err := parsePairs(args)
		if err != nil {
			return err
		}
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}
		theme, _ := cmd.Flags().GetString("theme")
		res, err := engine.WriteSemantic(theme, mappings)
		if err != nil {
			return err
		}
		return emit(cmd, res, func(p *report.Printer) { printWrite(p, res) })
	},
}

func init() {
	for _, cmd := range []*cobra.Command{tokensCmd, setCmd, semanticCmd} {
		cmd.Flags().String("theme", "", "Theme id (default: active theme)")
		addOutputFlag(cmd)
	}

	f := setCmd.Flags()
	f.StringArray("colors", nil, "Base color to change (name=value, repeatable)")
	f.StringArray("radius", nil, "Radius token to change (name=value, repeatable)")
	f.StringArray("shadow", nil, "Shadow token to change (name=value, repeatable)")
	f.StringArray("add-color", nil, "Base color to add (name=value, repeatable)")
	f.StringSlice("remove-color", nil, "Base colors to remove")
	f.Bool("dry-run", false, "Show the diff without writing")
}

func runSet(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	remove, _ := f.GetStringSlice("remove-color")
	dryRun, _ := f.GetBool("dry-run")
	theme, _ := f.GetString("theme")

	changes := themesync.TokenChanges{RemoveColors: remove}
	for flag, dst := range map[string]*map[string]string{
		"colors":    &changes.Colors,
		"radius":    &changes.Radius,
		"shadow":    &changes.Shadows,
		"add-color": &changes.AddColors,
	} {
		values, _ := f.GetStringArray(flag)
		if len(values) == 0 {
			continue
		}
		pairs, err := parsePairs(values)
		if err != nil {
			return fmt.Errorf("--%s: %w", flag, err)
		}
		*dst = pairs
	}
	if changes.Empty() {
		return fmt.Errorf("nothing to change (use --colors, --radius, --shadow, --add-color or --remove-color)")
	}

	engine, _, err := newEngine("console")
	if err != nil {
		return err
	}

	write := engine.WriteTokens
	if dryRun {
		write = engine.PreviewTokens
	}
	res, err := write(theme, changes)
	if err != nil {
		return err
	}

	return emit(cmd, res, func(p *report.Printer) {
		if dryRun {
			p.Diff(res.Diff)
			return
		}
		printWrite(p, res)
	})
}

// printWrite reports a single-file write
func printWrite(p *report.Printer, res *themesync.WriteResult) {
	if !res.Changed {
		p.Hint(fmt.Sprintf("%s already up to date", res.File))
		return
	}
	p.Success(fmt.Sprintf("Updated %s in %s", report.Pluralize(res.Updated, "token", "tokens"), res.File))
	p.Changes(res.Changes)
	if res.Backup != "" {
		p.Hint("backup: " + res.Backup)
	}
}

// parsePairs splits NAME=VALUE arguments
func parsePairs(args []string) (map[string]string, error) {
	pairs := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid mapping %q (expected NAME=VALUE)", arg)
		}
		pairs[name] = value
	}
	return pairs, nil
}
