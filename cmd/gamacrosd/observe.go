package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
)

var observeCommand = &cli.Command{
	Name:  "observe",
	Usage: "tail the running daemon's structured log",
	Flags: []cli.Flag{workspaceFlag},
	Action: func(c *cli.Context) error {
		return observeLog(c.String(workspaceFlag.Name))
	},
}

// observeLog tails the workspace's log file, printing new lines as the
// daemon appends them, the way `tail -f` would. It watches the file itself
// (unlike internal/profile's directory watch) since the daemon opens the
// log once at startup and appends for the life of the run, rather than
// replacing it.
func observeLog(workspaceDir string) error {
	ws, err := newWorkspace(workspaceDir)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	f, err := os.Open(ws.logPath())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(os.Stdout, f); err != nil {
		return fmt.Errorf("read existing log: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(ws.logPath()); err != nil {
		return fmt.Errorf("watch log: %w", err)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if _, err := io.Copy(os.Stdout, f); err != nil {
					return fmt.Errorf("read log: %w", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch log: %w", err)
		}
	}
}
