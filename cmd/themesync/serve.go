package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yacobolo/themesync"
	"github.com/yacobolo/themesync/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dev tools API",
	Long: `Serve the JSON API used by the in-browser dev tools under /api/devtools.
With --watch, changes to the active theme are pushed on /api/devtools/events.`,
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, log, err := newEngine("json")
		if err != nil {
			return err
		}
		if engine.Config().Production() {
			return errors.New(server.ProductionMessage)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(engine, log, server.Options{
			Watch:    getBoolWithFallback("watch", "serve.watch", false),
			Debounce: getDurationWithFallback("debounce", "serve.debounce", themesync.DefaultDebounce),
		})
		return srv.Serve(ctx, getStringWithFallback("addr", "serve.addr", "127.0.0.1:4800"))
	},
}

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Print changes to the active theme as they happen",
	PreRunE: preRunLoadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine, _, err := newEngine("console")
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		quiet := getBoolWithFallback("quiet", "quiet", false)
		jsonOut := getStringWithFallback("output-format", "output-format", "") == string(themesync.OutputJSON)
		p := newPrinter(cmd.OutOrStdout())

		return engine.Watch(ctx, themesync.WatchOptions{
			Debounce: getDurationWithFallback("debounce", "serve.debounce", themesync.DefaultDebounce),
		}, func(batch []themesync.FileEvent) {
			if quiet {
				return
			}
			for _, ev := range batch {
				if jsonOut {
					_ = writeJSON(cmd, ev)
					continue
				}
				p.Hint(fmt.Sprintf("%s  %-6s %s", ev.At.Format("15:04:05"), ev.Op, ev.File))
			}
		})
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "127.0.0.1:4800", "Listen address")
	f.Bool("watch", false, "Push file changes on /api/devtools/events")
	f.Duration("debounce", themesync.DefaultDebounce, "Quiet period before a burst of changes is reported")

	watchCmd.Flags().Duration("debounce", themesync.DefaultDebounce, "Quiet period before a burst of changes is reported")
	addOutputFlag(watchCmd)
}
