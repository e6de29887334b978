// Package detector decides how external tool output should be streamed.
package detector

import (
	"os"

	"golang.org/x/term"
)

// Interactive reports whether stdout is a terminal outside of CI.
func Interactive() bool {
	return interactive(term.IsTerminal(int(os.Stdout.Fd())), os.Getenv("CI"))
}

func interactive(isTTY bool, ci string) bool {
	isCI := ci == "true" || ci == "1"
	return isTTY && !isCI
}
