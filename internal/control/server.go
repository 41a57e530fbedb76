package control

import (
	"net"
	"os"

	"go.uber.org/zap"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

// Server accepts connections on a unix-domain socket and decodes each
// frame into a gamacros.ControlCommand, delivered on Commands().
type Server struct {
	ln       net.Listener
	commands chan gamacros.ControlCommand
	log      *zap.Logger
}

// Listen removes any stale socket file at path (a crashed daemon leaves one
// behind) and starts listening.
func Listen(path string, log *zap.Logger) (*Server, error) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &Server{
		ln:       ln,
		commands: make(chan gamacros.ControlCommand, 16),
		log:      log,
	}, nil
}

// Commands returns the channel of decoded control commands.
func (s *Server) Commands() <-chan gamacros.ControlCommand { return s.commands }

// Close stops accepting connections and removes the socket file.
func (s *Server) Close() error {
	return s.ln.Close()
}

// Serve accepts connections until the listener is closed. Each connection
// is handled on its own goroutine; a frame that does not decode is logged
// and skipped, and a read error (including an oversized length) closes that
// connection, but neither stops the server, so a single bad peer cannot
// bring down the daemon.
func (s *Server) Serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	for {
		payload, err := readFrame(conn)
		if err != nil {
			return
		}
		cmd, err := decodeCommand(payload)
		if err != nil {
			if s.log != nil {
				s.log.Warn("control: dropping malformed frame", zap.Error(err))
			}
			continue
		}
		s.commands <- cmd
	}
}
