package sysutil

import (
	"io"
	"os/exec"
	"strings"
)

// clearCommand returns the command that clears the terminal on goos, or nil
// when goos has none.
func clearCommand(goos string) []string {
	switch {
	case strings.HasPrefix(goos, "windows"):
		return []string{"cmd", "/c", "cls"}
	case strings.HasPrefix(goos, "linux"), strings.HasPrefix(goos, "darwin"),
		strings.HasSuffix(goos, "bsd"):
		return []string{"clear"}
	}
	return nil
}

// ClearTerminal clears the terminal screen writing to w in supported
// operating systems. It reports whether a clear command was run.
func ClearTerminal(w io.Writer, goos string) bool {
	args := clearCommand(goos)
	if args == nil {
		return false
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = w
	return cmd.Run() == nil
}
