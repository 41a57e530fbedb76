// Package focusio tracks the X11 active window via _NET_ACTIVE_WINDOW and
// resolves its WM_CLASS to a BundleID, offering an initial synchronous
// query plus a stream of change events.
package focusio

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

// Monitor polls the active window via property-change notification on the
// root window, which EWMH-compliant window managers update on focus change.
type Monitor struct {
	conn   *xgb.Conn
	root   xproto.Window
	active xproto.Atom
	class  xproto.Atom
}

// New connects to the X server and subscribes to property-change
// notifications on the root window of the default screen.
func New() (*Monitor, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("focusio: connect: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	active, err := internAtom(conn, "_NET_ACTIVE_WINDOW")
	if err != nil {
		conn.Close()
		return nil, err
	}
	class, err := internAtom(conn, "WM_CLASS")
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := xproto.ChangeWindowAttributesChecked(
		conn, screen.Root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange},
	).Check(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("focusio: subscribe to root property changes: %w", err)
	}

	return &Monitor{conn: conn, root: screen.Root, active: active, class: class}, nil
}

// Close releases the X11 connection.
func (m *Monitor) Close() error {
	m.conn.Close()
	return nil
}

// Query synchronously resolves the current foreground application's bundle
// ID, for the daemon's startup snapshot.
func (m *Monitor) Query() (gamacros.BundleID, error) {
	win, err := m.activeWindow()
	if err != nil {
		return "", err
	}
	return m.bundleIDFor(win)
}

// Run polls for root-window property-change events and delivers a
// FocusEvent each time the active window (or its class) changes, until stop
// is closed or the connection errors out.
func (m *Monitor) Run(events chan<- gamacros.FocusEvent, stop <-chan struct{}) {
	var last gamacros.BundleID
	done := make(chan struct{})
	go func() {
		<-stop
		m.conn.Close()
		close(done)
	}()

	for {
		ev, err := m.conn.WaitForEvent()
		if err != nil {
			return
		}
		if ev == nil {
			select {
			case <-done:
				return
			default:
				continue
			}
		}
		switch ev.(type) {
		case xproto.PropertyNotifyEvent, *xproto.PropertyNotifyEvent:
		default:
			continue
		}

		bundle, qerr := m.Query()
		if qerr != nil || bundle == last {
			continue
		}
		last = bundle
		events <- gamacros.FocusEvent{BundleID: bundle}
	}
}

func (m *Monitor) activeWindow() (xproto.Window, error) {
	reply, err := xproto.GetProperty(
		m.conn, false, m.root, m.active,
		xproto.AtomWindow, 0, 1,
	).Reply()
	if err != nil {
		return 0, fmt.Errorf("focusio: get _NET_ACTIVE_WINDOW: %w", err)
	}
	if len(reply.Value) < 4 {
		return 0, fmt.Errorf("focusio: no active window")
	}
	win := xproto.Window(
		uint32(reply.Value[0]) | uint32(reply.Value[1])<<8 |
			uint32(reply.Value[2])<<16 | uint32(reply.Value[3])<<24,
	)
	return win, nil
}

// bundleIDFor resolves a window's WM_CLASS property, a pair of
// NUL-terminated strings (instance, class); the class name is used as the
// BundleID.
func (m *Monitor) bundleIDFor(win xproto.Window) (gamacros.BundleID, error) {
	reply, err := xproto.GetProperty(
		m.conn, false, win, m.class,
		xproto.AtomString, 0, 1024,
	).Reply()
	if err != nil {
		return "", fmt.Errorf("focusio: get WM_CLASS: %w", err)
	}
	bundle, err := parseWMClass(reply.Value)
	if err != nil {
		return "", fmt.Errorf("focusio: window %d: %w", win, err)
	}
	return bundle, nil
}

// parseWMClass extracts the class name (the second NUL-terminated string)
// from a raw WM_CLASS property value, falling back to the instance name
// (the first string) if the class half is missing.
func parseWMClass(value []byte) (gamacros.BundleID, error) {
	parts := bytes.Split(value, []byte{0})
	if len(parts) >= 2 && len(parts[1]) > 0 {
		return gamacros.BundleID(parts[1]), nil
	}
	if len(parts) >= 1 && len(parts[0]) > 0 {
		return gamacros.BundleID(parts[0]), nil
	}
	return "", fmt.Errorf("empty WM_CLASS")
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("focusio: intern atom %q: %w", name, err)
	}
	return reply.Atom, nil
}
