package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "themesync",
	Short: "Read, edit and audit Tailwind v4 theme packages",
	Long: `Offset-exact editing of the CSS files of a Tailwind v4 theme package.
Only the theme imported by the global stylesheet is writable; every edit
keeps a backup and touches nothing but the values it changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	f := rootCmd.PersistentFlags()
	f.String("config", defaultConfigFile, "Config file path")
	f.String("root", "", "Workspace root (default: current directory)")
	f.String("global-css", "", "Global stylesheet, relative to root (default: app/globals.css)")
	f.String("packages-dir", "", "Theme packages directory, relative to root (default: packages)")
	f.String("scope", "", "npm scope of theme packages (default: @rdna)")
	f.String("env", "", "Environment; production disables every command (default: $NODE_ENV)")
	f.BoolP("verbose", "v", false, "Enable debug logging")
	f.Bool("quiet", false, "Suppress all output (exit code only)")
	f.Bool("color", false, "Force color output")
	f.String("log-level", "", "Log level: debug|info|warn|error (default: warn)")
	f.String("log-format", "", "Log format: console|json")

	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(semanticCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(componentsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// preRunLoadConfig is the PreRunE of every command that reads configuration
func preRunLoadConfig(cmd *cobra.Command, _ []string) error {
	return loadConfig(cmd)
}
