// Package main provides the themesync CLI for editing Tailwind v4 theme packages.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

// errIssuesFound fails the process after the audit report was printed
var errIssuesFound = errors.New("audit found issues")

func main() {
	os.Exit(run(os.Stderr))
}

func run(stderr io.Writer) int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, errIssuesFound) {
		return 1
	}
	printError(stderr, err)
	return 1
}

// printError writes err and, where one applies, how to recover from it
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var ioErr *tserrors.IOError
	if errors.As(err, &ioErr) {
		if hint := ioErr.Hint(); hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", hint)
		}
	}

	var locked *tserrors.WriteLockedError
	if errors.As(err, &locked) {
		fmt.Fprintf(w, "Hint: run `themesync switch %s` to make it writable\n", locked.Theme)
	}
}
