package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gamacros/gamacrosd/internal/control"
	"github.com/gamacros/gamacrosd/internal/daemonlog"
	"github.com/gamacros/gamacrosd/internal/focusio"
	"github.com/gamacros/gamacrosd/internal/gamacros"
	"github.com/gamacros/gamacrosd/internal/gamepadio"
	"github.com/gamacros/gamacrosd/internal/profile"
	"github.com/gamacros/gamacrosd/internal/schedshell"
	"github.com/gamacros/gamacrosd/internal/synth"
)

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "run the daemon in the foreground",
	Flags: []cli.Flag{workspaceFlag},
	Action: func(c *cli.Context) error {
		return runDaemon(c.String(workspaceFlag.Name))
	},
}

// actionSink adapts a *synth.Synthesizer to gamacros.Sink, logging and
// continuing on a single action's translation failure rather than
// propagating it into the event loop.
type actionSink struct {
	synth *synth.Synthesizer
	log   *zap.Logger
}

func (s actionSink) Emit(a gamacros.Action) {
	if err := s.synth.Apply(a); err != nil {
		s.log.Warn("synth: failed to realize action", zap.Error(err))
	}
}

func runDaemon(workspaceDir string) error {
	ws, err := newWorkspace(workspaceDir)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	dlog, err := daemonlog.NewToFile(zapcore.InfoLevel, ws.logPath())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	dlog = dlog.WithRunID(uuid.NewString())
	defer dlog.Sync()
	log := dlog.For(daemonlog.ComponentCore)
	log.Info("gamacrosd starting", zap.String("workspace", ws.dir))

	pad, err := gamepadio.New()
	if err != nil {
		return fmt.Errorf("gamepad backend: %w", err)
	}
	go pad.Run()
	defer pad.Stop()

	focus, err := focusio.New()
	if err != nil {
		return fmt.Errorf("focus monitor: %w", err)
	}
	defer focus.Close()

	initialApp, err := focus.Query()
	if err != nil {
		dlog.For(daemonlog.ComponentFocus).Warn("initial focus query failed", zap.Error(err))
	}

	core := gamacros.New()
	if initialApp != "" {
		core.SetActiveApp(initialApp)
	}

	watcher, err := profile.NewWatcher(ws.profilePath())
	if err != nil {
		return fmt.Errorf("profile watcher: %w", err)
	}
	defer watcher.Close()

	ctrl, err := control.Listen(ws.socketPath(), dlog.For(daemonlog.ComponentControl))
	if err != nil {
		return fmt.Errorf("control socket: %w", err)
	}
	go ctrl.Serve()
	defer ctrl.Close()

	synthesizer, err := synth.New("")
	if err != nil {
		return fmt.Errorf("input synthesizer: %w", err)
	}
	defer synthesizer.Close()

	sink := actionSink{synth: synthesizer, log: dlog.For(daemonlog.ComponentSynth)}

	focusEvents := make(chan gamacros.FocusEvent, 8)
	stop := make(chan struct{})
	go focus.Run(focusEvents, stop)

	loop := schedshell.New(core, sink, clock.New(), pad.Rumble, dlog.For(daemonlog.ComponentSchedule))
	loop.ProfileApplied = func(p *gamacros.Profile) {
		if p != nil {
			synthesizer.SetShell(p.Shell)
		} else {
			synthesizer.SetShell("")
		}
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Info("received shutdown signal")
		close(stop)
	}()

	loop.Run(schedshell.Sources{
		Stop:    stop,
		Gamepad: pad.Events(),
		Focus:   focusEvents,
		Profile: watcher.Events(),
		Control: ctrl.Commands(),
	})

	log.Info("gamacrosd stopped")
	return nil
}
