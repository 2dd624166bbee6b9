package sysutil

import (
	"io"
	"os/exec"
	"runtime"
)

// clearCommand returns the command that clears the terminal on goos, or nil
// when the platform is not supported.
func clearCommand(goos string) []string {
	switch goos {
	case "windows":
		return []string{"cmd", "/c", "cls"}
	case "linux", "darwin", "freebsd", "openbsd", "netbsd":
		return []string{"clear"}
	default:
		return nil
	}
}

// ClearTerminal clears the terminal screen in supported operating systems,
// writing the clearing sequence to w.
func ClearTerminal(w io.Writer) {
	args := clearCommand(runtime.GOOS)
	if args == nil {
		return
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = w
	_ = cmd.Run()
}
