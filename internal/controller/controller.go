// Package controller interprets raw input events, operating on the model
// and queueing commands for the application loop.
package controller

import (
	"fmt"

	"github.com/drafterkit/drafter/internal/app"
	"github.com/drafterkit/drafter/internal/config"
	"github.com/drafterkit/drafter/internal/model"
)

// EventKind discriminates raw input events.
type EventKind int

const (
	// KeyRune is a printable key press; Event.Rune carries the rune.
	KeyRune EventKind = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	// Quit is an external termination request (ctrl-c, SIGTERM).
	Quit
	// Reload carries a fresh configuration; Event.Cfg is set.
	Reload
)

// Event is one raw input event delivered to the controller.
type Event struct {
	Kind EventKind
	Rune rune
	Cfg  *config.Config
}

var kindColors = map[model.LineKind]model.RGB{
	model.ExteriorWall: {R: 0, G: 0, B: 0},
	model.InteriorWall: {R: 105, G: 105, B: 105},
}

// Options configure a new Controller.
type Options struct {
	// Events feeds raw input; HandleInput drains it without blocking.
	Events <-chan Event

	SnapInterval float64
	Grid         bool
	SaveFile     string
}

// Controller owns the user-facing interaction state: the cursor, the
// two-point placement flow, the message stack, and the transient loading
// flag the loop clears once per frame.
type Controller struct {
	// Loading is set when a queued command will block the frame; the
	// application loop clears it after command execution.
	Loading bool

	events <-chan Event

	cursor     model.Point
	pending    model.Point
	hasPending bool

	kind model.LineKind
	snap float64
	grid bool

	saveFile string

	messages MessageStack
}

// New returns a controller reading from opts.Events.
func New(opts Options) *Controller {
	snap := opts.SnapInterval
	if snap <= 0 {
		snap = 12
	}
	return &Controller{
		events:   opts.Events,
		snap:     snap,
		grid:     opts.Grid,
		saveFile: opts.SaveFile,
		kind:     model.ExteriorWall,
	}
}

// HandleInput drains the pending input events, operating on the model and
// appending commands to the queue. It returns false when the user requested
// termination. It never blocks; a frame with no input is a no-op.
func (c *Controller) HandleInput(m *model.Model, width, height int, queue *[]app.Command) bool {
	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				return false
			}
			if !c.handle(ev, m, width, height, queue) {
				return false
			}
		default:
			return true
		}
	}
}

func (c *Controller) handle(ev Event, m *model.Model, width, height int, queue *[]app.Command) bool {
	switch ev.Kind {
	case Quit:
		return false
	case KeyUp:
		c.moveCursor(0, -c.snap, width, height)
	case KeyDown:
		c.moveCursor(0, c.snap, width, height)
	case KeyLeft:
		c.moveCursor(-c.snap, 0, width, height)
	case KeyRight:
		c.moveCursor(c.snap, 0, width, height)
	case KeyEnter:
		c.placeVertex(m)
	case KeyEscape:
		c.hasPending = false
	case Reload:
		if ev.Cfg != nil {
			c.applyConfig(*ev.Cfg)
		}
	case KeyRune:
		return c.handleRune(ev.Rune, width, height, queue)
	}
	return true
}

func (c *Controller) handleRune(r rune, width, height int, queue *[]app.Command) bool {
	switch r {
	case 'q':
		return false
	case 'k':
		c.moveCursor(0, -c.snap, width, height)
	case 'j':
		c.moveCursor(0, c.snap, width, height)
	case 'h':
		c.moveCursor(-c.snap, 0, width, height)
	case 'l':
		c.moveCursor(c.snap, 0, width, height)
	case '1':
		c.kind = model.ExteriorWall
		c.hasPending = false
	case '2':
		c.kind = model.InteriorWall
		c.hasPending = false
	case 'g':
		c.grid = !c.grid
	case 'e':
		*queue = append(*queue, app.ExportCommand{})
		c.Loading = true
	case 's':
		*queue = append(*queue, app.SaveCommand{Filename: c.saveFile})
		c.Loading = true
	case 'o':
		*queue = append(*queue, app.LoadCommand{Filename: c.saveFile})
		c.Loading = true
	}
	return true
}

func (c *Controller) moveCursor(dx, dy float64, width, height int) {
	c.cursor.X = clamp(c.cursor.X+dx, 0, float64(width))
	c.cursor.Y = clamp(c.cursor.Y+dy, 0, float64(height))
}

// placeVertex runs the two-point placement flow: the first press anchors the
// start vertex, the second adds the line. Vertices snap to existing geometry
// within the snap interval.
func (c *Controller) placeVertex(m *model.Model) {
	if m == nil {
		return
	}

	point := c.cursor
	if v, ok := m.NearestVertex(point, c.snap); ok {
		point = v
	}

	if !c.hasPending {
		c.pending = point
		c.hasPending = true
		return
	}
	if point == c.pending {
		return
	}

	line := m.AddLine(c.kind, c.pending, point, kindColors[c.kind])
	c.hasPending = false
	c.messages.Push("Added " + line.Kind.String())
}

func (c *Controller) applyConfig(cfg config.Config) {
	if cfg.SnapInterval > 0 {
		c.snap = cfg.SnapInterval
	}
	c.grid = cfg.Grid
	if cfg.SaveFile != "" {
		c.saveFile = cfg.SaveFile
	}
	c.messages.Push("Configuration reloaded")
}

// PushMessage appends a user-visible notification.
func (c *Controller) PushMessage(text string) {
	c.messages.Push(text)
}

// ClearLoading resets the transient loading flag; the loop calls it once per
// frame after command execution.
func (c *Controller) ClearLoading() {
	c.Loading = false
}

// Cursor returns the current cursor position.
func (c *Controller) Cursor() model.Point { return c.cursor }

// Pending returns the anchored start vertex of an in-progress placement.
func (c *Controller) Pending() (model.Point, bool) { return c.pending, c.hasPending }

// GridEnabled reports whether the drawing grid is displayed.
func (c *Controller) GridEnabled() bool { return c.grid }

// SnapInterval returns the cursor step and vertex snap distance in pixels.
func (c *Controller) SnapInterval() float64 { return c.snap }

// VisibleMessages returns the unexpired notifications, oldest first.
func (c *Controller) VisibleMessages() []string { return c.messages.Visible() }

// StatusLine summarizes the interaction state for the HUD.
func (c *Controller) StatusLine() string {
	status := fmt.Sprintf("%s | cursor (%.0f, %.0f) | snap %.0fpx", c.kind, c.cursor.X, c.cursor.Y, c.snap)
	if c.grid {
		status += " | grid"
	}
	if c.hasPending {
		status += fmt.Sprintf(" | from (%.0f, %.0f)", c.pending.X, c.pending.Y)
	}
	if c.Loading {
		status += " | working..."
	}
	return status
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
