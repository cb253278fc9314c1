package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .themesync.yaml config file",
	Long:  `Create a .themesync.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigFile); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigFile)
		}

		if err := os.WriteFile(defaultConfigFile, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigFile)
		return nil
	},
}

const defaultConfig = `# themesync configuration
# Docs: https://github.com/yacobolo/themesync

# Workspace layout (relative to root)
root: .
global-css: app/globals.css
packages-dir: packages
node-modules: node_modules
scope: "@rdna"

# Color modes accepted in theme files
modes:
  - dark
  - light
  - contrast

# Backups kept per file (.name.backup, .name.backup.1, ...)
backup-history: 1

# Theme list cache lifetime
cache-ttl: 30s

# Logging
log:
  level: warn              # debug | info | warn | error
  format: console          # console | json

# Audit settings
audit:
  strict: false
  threshold: 0.0
  output-format: issues    # issues | summary | full | json
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  skip-info: false

# Dev tools API
serve:
  addr: 127.0.0.1:4800
  watch: true
  debounce: 100ms
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
