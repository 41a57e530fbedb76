// Command gamacrosd is the gamepad-to-macro daemon's CLI: it wires the
// core engine (internal/gamacros) to its external collaborators — the SDL2
// gamepad backend, the X11 focus monitor and input synthesizer, the YAML
// profile loader/watcher, and the local control socket — and drives them
// from internal/schedshell's event loop.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "gamacrosd",
		Usage: "turn a game controller into a programmable macropad",
		Commands: []*cli.Command{
			runCommand,
			startCommand,
			stopCommand,
			statusCommand,
			observeCommand,
			commandCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gamacrosd:", err)
		os.Exit(1)
	}
}

var workspaceFlag = &cli.StringFlag{
	Name:    "workspace",
	Aliases: []string{"w"},
	Usage:   "directory holding the daemon's profile.yaml, socket, pid, and log files",
	Value:   defaultWorkspace(),
}
