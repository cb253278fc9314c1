// Package themesync reads and rewrites the design tokens of Tailwind theme
// packages in place.
//
// A workspace holds theme packages under a packages directory
// (packages/theme-<id>) and one global stylesheet whose
// @import "<scope>/theme-<id>" line selects the active theme. Only the
// active theme may be written.
//
// # Reading
//
//	engine, err := themesync.New(themesync.DefaultConfig("."))
//	snap, err := engine.ReadTokens("current")
//
// # Writing
//
// Edits are surgical: only the declarations, blocks or rules named by a
// change-set are touched and everything else in the file stays byte for
// byte. A backup of the previous content is written beside each file as
// .<name>.backup before the file is replaced.
//
//	res, err := engine.WriteTokens("current", themesync.TokenChanges{
//		Radius: map[string]string{"md": "8px"},
//	})
//
// # Production
//
// Every operation fails with ErrProduction when the configured environment
// is "production".
//
// The themesync CLI (cmd/themesync) and the HTTP API (internal/server) are
// thin layers over Engine.
package themesync
