package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
)

// errNotRunning is returned by stop when no pid file names a live process.
var errNotRunning = errors.New("gamacrosd is not running")

var startCommand = &cli.Command{
	Name:  "start",
	Usage: "start the daemon in the background and write its pid file",
	Flags: []cli.Flag{workspaceFlag},
	Action: func(c *cli.Context) error {
		return startDaemon(c.String(workspaceFlag.Name))
	},
}

var stopCommand = &cli.Command{
	Name:  "stop",
	Usage: "stop a daemon started with start",
	Flags: []cli.Flag{workspaceFlag},
	Action: func(c *cli.Context) error {
		return stopDaemon(c.String(workspaceFlag.Name))
	},
}

var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "report whether the daemon is running",
	Flags: []cli.Flag{workspaceFlag},
	Action: func(c *cli.Context) error {
		return reportStatus(c.String(workspaceFlag.Name))
	},
}

func startDaemon(workspaceDir string) error {
	ws, err := newWorkspace(workspaceDir)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	if pid, ok := readLivePID(ws); ok {
		return fmt.Errorf("gamacrosd already running (pid %d)", pid)
	}

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	cmd := exec.Command(self, "run", "--workspace", ws.dir)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn daemon: %w", err)
	}

	if err := os.WriteFile(ws.pidPath(), []byte(strconv.Itoa(cmd.Process.Pid)), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}

	// Detach: the child outlives this process, so it must not be reaped by
	// Wait. The OS re-parents it to init once we exit.
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release daemon process: %w", err)
	}

	fmt.Printf("gamacrosd started (pid %d, workspace %s)\n", cmd.Process.Pid, ws.dir)
	return nil
}

func stopDaemon(workspaceDir string) error {
	ws, err := newWorkspace(workspaceDir)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	pid, ok := readLivePID(ws)
	if !ok {
		return errNotRunning
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}

	for i := 0; i < 50; i++ {
		if !processAlive(pid) {
			os.Remove(ws.pidPath())
			fmt.Println("gamacrosd stopped")
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("gamacrosd (pid %d) did not exit after SIGTERM", pid)
}

func reportStatus(workspaceDir string) error {
	ws, err := newWorkspace(workspaceDir)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	pid, ok := readLivePID(ws)
	if !ok {
		fmt.Println("gamacrosd is not running")
		return nil
	}

	fmt.Printf("gamacrosd is running (pid %d, workspace %s)\n", pid, ws.dir)
	return nil
}

// readLivePID reads the workspace's pid file, if any, and reports whether
// the process it names is still alive, cleaning up a stale file otherwise.
func readLivePID(ws *workspace) (int, bool) {
	raw, err := os.ReadFile(ws.pidPath())
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false
	}

	if !processAlive(pid) {
		os.Remove(ws.pidPath())
		return 0, false
	}
	return pid, true
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
