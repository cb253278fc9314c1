package themesync

import (
	"strings"
	"time"

	"github.com/yacobolo/themesync/internal/cssparse"
	"github.com/yacobolo/themesync/internal/logger"
)

// Config holds engine configuration
type Config struct {
	// Root is the workspace root; GlobalCSS, PackagesDir and NodeModules
	// are relative to it unless absolute
	Root        string `validate:"required"`
	GlobalCSS   string `validate:"required"`
	PackagesDir string `validate:"required"`
	NodeModules string

	// Scope is the npm scope of theme packages ("@rdna")
	Scope string `validate:"required,startswith=@"`
	// Modes is the color mode allow-list
	Modes []string `validate:"dive,token_name"`

	BackupHistory int           `validate:"gte=0,lte=50"`
	CacheTTL      time.Duration `validate:"gte=0"`

	// Env "production" disables every operation
	Env string
}

// DefaultConfig returns the conventional layout rooted at root
func DefaultConfig(root string) Config {
	return Config{
		Root:          root,
		GlobalCSS:     "app/globals.css",
		PackagesDir:   "packages",
		NodeModules:   "node_modules",
		Scope:         "@rdna",
		Modes:         append([]string(nil), cssparse.DefaultModes...),
		BackupHistory: 1,
		CacheTTL:      30 * time.Second,
		Env:           "development",
	}
}

// Production reports whether the engine must refuse every operation
func (c Config) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// Option customizes an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}
