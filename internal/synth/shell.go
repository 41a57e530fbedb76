package synth

import (
	"os/exec"
)

const defaultShell = "sh"

// SetShell replaces the shell used for subsequent Shell actions. Must be
// called from the event-loop goroutine, like Apply.
func (s *Synthesizer) SetShell(shell string) {
	s.shell = shell
}

// runShell spawns command via the configured shell, detached from the
// daemon's own stdio; shell actions are fire-and-forget.
func (s *Synthesizer) runShell(command string) error {
	shell := s.shell
	if shell == "" {
		shell = defaultShell
	}
	cmd := exec.Command(shell, "-c", command)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Start()
}
