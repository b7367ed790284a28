package main

import (
	"github.com/magefile/mage/sh"
)

// RunCmdV is a helper function that returns a function that runs the given
// command with the given arguments.
func RunCmdV(cmd string, args ...string) func(args ...string) error {
	return func(args2 ...string) error {
		return sh.RunV(cmd, append(args, args2...)...)
	}
}

// goCmd runs the go tool with output streamed to the terminal.
var goCmd = RunCmdV("go")
