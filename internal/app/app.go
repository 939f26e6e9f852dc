// Package app provides the orchestration core of the drafter application.
//
// App drives the fixed-cadence main loop (poll input, render, execute queued
// commands, pace the frame) and owns the lifecycle of the background updater
// goroutine. Everything domain-specific is delegated: the model holds the
// sketch entities, the controller interprets raw input into commands, the
// view renders frames, and the loader populates a model from a save file.
package app

import (
	"sync/atomic"
	"time"

	"github.com/drafterkit/drafter/internal/export"
	"github.com/drafterkit/drafter/internal/logging"
	"github.com/drafterkit/drafter/internal/model"
	"github.com/drafterkit/drafter/internal/store"
)

const (
	// Coarse frame throttle: frames that finish under the floor pause
	// briefly before the next poll. This trims idle CPU burn without
	// attempting a precise cadence; there is no drift compensation.
	frameDurationFloor = 160 * time.Millisecond
	framePause         = 8 * time.Millisecond

	// Minimum interval between drawing exports.
	exportInterval = 5 * time.Second
)

// runState tracks the loop lifecycle. Transitions are linear:
// Starting -> Running -> Stopping -> Stopped.
type runState int

const (
	stateStarting runState = iota
	stateRunning
	stateStopping
	stateStopped
)

// Controller interprets raw input into commands and owns the user-visible
// message log. HandleInput may append commands to the queue and returns
// whether the loop should keep running.
type Controller interface {
	HandleInput(m *model.Model, width, height int, queue *[]Command) bool
	PushMessage(text string)
	ClearLoading()
}

// View renders one frame per Update call and reports the drawable area.
// Exit releases display resources and must be safe to call during shutdown.
type View interface {
	ScreenDimensions() (int, int)
	Update(m *model.Model, c Controller)
	Exit()
}

// LoadFunc populates m in place from the named save file.
type LoadFunc func(m *model.Model, filename string) error

// Options configure a new App.
type Options struct {
	Model      *model.Model
	View       View
	Controller Controller

	// Loader used by LoadFromFile; nil uses store.Load.
	Loader LoadFunc

	// LoadFile, when non-empty, is loaded during construction.
	LoadFile string

	// ExportDir receives drawing exports; empty uses the working directory.
	ExportDir string
}

// App houses the model, view, and controller and executes the application
// loop. One App runs at most once.
type App struct {
	model      *model.Model
	view       View
	controller Controller
	loader     LoadFunc

	// Commands received from the controller for the current frame.
	commands []Command

	// Whether the application loop is executing. Read by both the main
	// loop and the background updater; flips true -> false exactly once.
	running atomic.Bool

	state  runState
	bgDone chan struct{}

	exportDir      string
	exportThrottle *export.Throttle

	// Injection points for tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// New assembles the application and, when Options.LoadFile is set, performs
// the initial load before the loop starts.
func New(opts Options) *App {
	m := opts.Model
	if m == nil {
		m = model.New()
	}

	a := &App{
		model:          m,
		view:           opts.View,
		controller:     opts.Controller,
		loader:         opts.Loader,
		exportDir:      opts.ExportDir,
		exportThrottle: export.NewThrottle(exportInterval),
		sleep:          time.Sleep,
		now:            time.Now,
	}
	if a.loader == nil {
		a.loader = store.Load
	}

	if opts.LoadFile != "" {
		a.LoadFromFile(opts.LoadFile)
	}
	return a
}

// Model returns the current model reference. Load recovery may replace it
// between frames.
func (a *App) Model() *model.Model { return a.model }

// Run executes the application loop until the controller requests
// termination, then tears down the view and joins the background updater.
// It reports whether the loop completed cleanly.
func (a *App) Run() bool {
	logger := logging.Logger()

	a.state = stateStarting
	a.running.Store(true)

	// The updater stays bound to the condition captured here. A model
	// swapped in by load recovery carries a fresh condition with no
	// waiters, so shutdown must signal the original one.
	cond := a.model.UpdateBackground
	a.bgDone = make(chan struct{})
	go a.backgroundUpdates(cond)

	a.state = stateRunning
	logger.Info().Msg("application loop started")

	for a.running.Load() {
		start := a.now()

		width, height := a.view.ScreenDimensions()
		a.running.Store(a.controller.HandleInput(a.model, width, height, &a.commands))

		a.view.Update(a.model, a.controller)

		a.executeCommands()

		a.pace(a.now().Sub(start))
	}

	a.state = stateStopping
	a.view.Exit()

	// The updater re-checks the running flag only after a wait returns,
	// so this broadcast is what unblocks the final wait. Skipping it
	// would deadlock the join below. The join has no timeout; a hung
	// background update blocks shutdown indefinitely.
	cond.L.Lock()
	cond.Broadcast()
	cond.L.Unlock()
	<-a.bgDone

	a.state = stateStopped
	logger.Info().Msg("application loop stopped")
	return true
}

// executeCommands applies the queued commands in insertion order, then
// unconditionally clears the queue and the controller's loading flag.
func (a *App) executeCommands() {
	for _, cmd := range a.commands {
		cmd.Execute(a)
	}

	a.commands = a.commands[:0]
	a.controller.ClearLoading()
}

func (a *App) pace(frame time.Duration) {
	if frame < frameDurationFloor {
		a.sleep(framePause)
	}
}

// LoadFromFile tries to populate the model from the named save file. Any
// failure is recovered locally: a message is pushed for the user and the
// model is replaced with a fresh empty one, so the application never runs
// with a half-loaded state. Errors are never propagated.
func (a *App) LoadFromFile(filename string) {
	if filename == "" {
		return
	}

	if err := a.loader(a.model, filename); err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Str("file", filename).Msg("load failed, resetting model")
		a.controller.PushMessage("Error loading save file: " + filename)
		a.model = model.New()
		return
	}

	a.controller.PushMessage("Loaded from save file: " + filename)
}
