package control

import (
	"net"
	"time"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

// dialTimeout bounds how long a CLI invocation waits for the daemon's
// socket to accept a connection before giving up.
const dialTimeout = 2 * time.Second

// SendRumble dials the control socket at path and sends a single Rumble
// command.
func SendRumble(path string, cmd gamacros.ControlRumble) error {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	return writeFrame(conn, encodeRumble(cmd))
}
