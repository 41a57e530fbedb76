package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/gamacros/gamacrosd/internal/control"
	"github.com/gamacros/gamacrosd/internal/gamacros"
)

var commandCommand = &cli.Command{
	Name:  "command",
	Usage: "send a one-off control command to the running daemon",
	Subcommands: []*cli.Command{
		rumbleCommand,
	},
}

var rumbleCommand = &cli.Command{
	Name:  "rumble",
	Usage: "rumble one controller, or every connected controller",
	Flags: []cli.Flag{
		workspaceFlag,
		&cli.IntFlag{
			Name:  "id",
			Usage: "controller id to rumble; omit to rumble every connected controller",
		},
		&cli.UintFlag{
			Name:     "ms",
			Usage:    "rumble duration in milliseconds",
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		ws, err := newWorkspace(c.String(workspaceFlag.Name))
		if err != nil {
			return fmt.Errorf("workspace: %w", err)
		}

		cmd := gamacros.ControlRumble{Ms: uint32(c.Uint("ms"))}
		if c.IsSet("id") {
			id := gamacros.ControllerID(c.Int("id"))
			cmd.ID = &id
		}

		if err := control.SendRumble(ws.socketPath(), cmd); err != nil {
			return fmt.Errorf("send rumble: %w", err)
		}
		return nil
	},
}
