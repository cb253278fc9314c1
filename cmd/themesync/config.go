package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/yacobolo/themesync"
	"github.com/yacobolo/themesync/internal/logger"
)

// defaultConfigFile is read from the working directory unless --config is set
const defaultConfigFile = ".themesync.yaml"

var k = koanf.New(".")

// hyphenatedKeys restores config keys whose hyphen the env transform turns
// into a dot (THEMESYNC_GLOBAL_CSS -> global.css -> global-css)
var hyphenatedKeys = map[string]string{
	"global.css":     "global-css",
	"packages.dir":   "packages-dir",
	"node.modules":   "node-modules",
	"backup.history": "backup-history",
	"cache.ttl":      "cache-ttl",
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigFile
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// CLI flags (highest precedence; only flags that were explicitly set)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// THEMESYNC_LOG_LEVEL -> log.level, THEMESYNC_GLOBAL_CSS -> global-css
	if err := k.Load(env.Provider("THEMESYNC_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

func envKey(s string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "THEMESYNC_")), "_", ".")
	if hyphenated, ok := hyphenatedKeys[key]; ok {
		return hyphenated
	}
	return key
}

// buildEngineConfig constructs the library's Config struct from koanf state.
func buildEngineConfig() themesync.Config {
	root := getStringWithFallback("root", "root", ".")
	defaults := themesync.DefaultConfig(root)

	envDefault := os.Getenv("NODE_ENV")
	if envDefault == "" {
		envDefault = defaults.Env
	}

	return themesync.Config{
		Root:          root,
		GlobalCSS:     getStringWithFallback("global-css", "global-css", defaults.GlobalCSS),
		PackagesDir:   getStringWithFallback("packages-dir", "packages-dir", defaults.PackagesDir),
		NodeModules:   getStringWithFallback("node-modules", "node-modules", defaults.NodeModules),
		Scope:         getStringWithFallback("scope", "scope", defaults.Scope),
		Modes:         getStringsWithFallback("modes", "modes", defaults.Modes),
		BackupHistory: getIntWithFallback("backup-history", "backup-history", defaults.BackupHistory),
		CacheTTL:      getDurationWithFallback("cache-ttl", "cache-ttl", defaults.CacheTTL),
		Env:           getStringWithFallback("env", "env", envDefault),
	}
}

// buildAuditConfig constructs the audit limits from koanf state.
func buildAuditConfig() themesync.AuditConfig {
	return themesync.AuditConfig{
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "audit.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "audit.max-same-issues", 0),
		SkipInfo:           getBoolWithFallback("skip-info", "audit.skip-info", false),
	}
}

// buildReportConfig constructs the issue printing options from koanf state.
func buildReportConfig() themesync.ReportConfig {
	return themesync.ReportConfig{
		UseColors:        getBoolWithFallback("color", "color", false),
		PrintIssuedLines: getBoolWithFallback("print-lines", "audit.print-lines", true),
		PrintLinterName:  getBoolWithFallback("print-linter-name", "audit.print-linter-name", true),
	}
}

// buildLogger constructs the CLI logger. --verbose forces debug; serve logs
// JSON unless configured otherwise.
func buildLogger(defaultFormat string) (*logger.Logger, error) {
	level := getStringWithFallback("log-level", "log.level", "warn")
	if getBoolWithFallback("verbose", "verbose", false) {
		level = "debug"
	}
	return logger.New(logger.Options{
		Level:  level,
		Format: getStringWithFallback("log-format", "log.format", defaultFormat),
		Writer: os.Stderr,
	})
}

// newEngine builds an Engine from the loaded configuration
func newEngine(defaultLogFormat string) (*themesync.Engine, *logger.Logger, error) {
	log, err := buildLogger(defaultLogFormat)
	if err != nil {
		return nil, nil, err
	}
	engine, err := themesync.New(buildEngineConfig(), themesync.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return engine, log, nil
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
