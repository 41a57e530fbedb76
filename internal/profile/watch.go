package profile

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gamacros/gamacrosd/internal/gamacros"
)

// EventKind discriminates the three profile-change notifications the
// loader produces.
type EventKind int

const (
	EventChanged EventKind = iota
	EventRemoved
	EventError
)

// Event is delivered on a Watcher's Events channel.
type Event struct {
	Kind    EventKind
	Profile *gamacros.Profile
	Err     error
}

// debounceWindow coalesces the burst of fsnotify events a single editor save
// tends to produce (temp-file write, rename, chmod) into one reload.
const debounceWindow = 75 * time.Millisecond

// Watcher watches a profile file's parent directory — not the file itself —
// because editors commonly save by writing a temp file and renaming it over
// the original, which would orphan a direct file-descriptor watch.
type Watcher struct {
	path   string
	fsw    *fsnotify.Watcher
	events chan Event
	done   chan struct{}
}

// NewWatcher starts watching path for changes, emitting an initial load
// result immediately.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:   abs,
		fsw:    fsw,
		events: make(chan Event, 1),
		done:   make(chan struct{}),
	}
	go w.loop()
	w.emitReload()
	return w, nil
}

// Events returns the channel of profile change notifications.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops the underlying directory watch.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(debounceWindow, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounceWindow)
			}
		case <-reload:
			w.emitReload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(Event{Kind: EventError, Err: err})
		}
	}
}

func (w *Watcher) emitReload() {
	p, err := Load(w.path)
	switch {
	case err == nil:
		w.send(Event{Kind: EventChanged, Profile: p})
	case os.IsNotExist(err):
		w.send(Event{Kind: EventRemoved})
	default:
		w.send(Event{Kind: EventError, Err: err})
	}
}

// send does not wait for the consumer: if the channel is full it discards
// the older pending event and queues e in its place, so the newest
// notification always wins over a missed intermediate one.
func (w *Watcher) send(e Event) {
	select {
	case w.events <- e:
	default:
		select {
		case <-w.events:
		default:
		}
		w.events <- e
	}
}
