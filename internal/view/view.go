// Package view renders the sketch. Each frame is drawn onto an off-screen
// raster (the entity layer is repainted only when the model changed) and a
// styled HUD with the status line and message stack is written to the
// terminal.
package view

import (
	"image"
	"io"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/muesli/termenv"

	"github.com/drafterkit/drafter/internal/app"
	"github.com/drafterkit/drafter/internal/model"
)

// Scene is the interaction state the view reads from the controller.
type Scene interface {
	Cursor() model.Point
	Pending() (model.Point, bool)
	GridEnabled() bool
	SnapInterval() float64
	VisibleMessages() []string
	StatusLine() string
}

// Raster renders frames onto a gg canvas and mirrors the HUD to a terminal.
type Raster struct {
	width  int
	height int

	// frame is the composited output; entities holds only the model's
	// lines and is repainted when the model reports a change.
	frame    *gg.Context
	entities *gg.Context

	out    *termenv.Output
	theme  Theme
	exited bool
}

// New creates a raster view of the given canvas size writing its HUD to out.
func New(width, height int, out io.Writer, theme Theme) *Raster {
	v := &Raster{
		width:    width,
		height:   height,
		frame:    gg.NewContext(width, height),
		entities: gg.NewContext(width, height),
		out:      termenv.NewOutput(out),
		theme:    theme,
	}
	v.out.AltScreen()
	v.out.HideCursor()
	return v
}

// ScreenDimensions returns the drawable canvas size in pixels.
func (v *Raster) ScreenDimensions() (int, int) {
	return v.width, v.height
}

// Update renders one frame: recomposites the raster and repaints the HUD.
func (v *Raster) Update(m *model.Model, c app.Controller) {
	if m.ConsumeUpdate() {
		v.repaintEntities(m)
	}

	scene, _ := c.(Scene)
	v.composeFrame(scene)
	v.paintHUD(scene)
}

// Exit restores the terminal. Safe to call more than once.
func (v *Raster) Exit() {
	if v.exited {
		return
	}
	v.exited = true
	v.out.ShowCursor()
	v.out.ExitAltScreen()
}

// Snapshot returns the last composited frame for export.
func (v *Raster) Snapshot() image.Image {
	return v.frame.Image()
}

func (v *Raster) repaintEntities(m *model.Model) {
	dc := gg.NewContext(v.width, v.height)
	for _, l := range m.Lines() {
		dc.SetRGB255(int(l.Color.R), int(l.Color.G), int(l.Color.B))
		dc.SetLineWidth(l.Kind.Thickness())
		dc.DrawLine(l.Start.X, l.Start.Y, l.End.X, l.End.Y)
		dc.Stroke()
	}
	v.entities = dc
}

func (v *Raster) composeFrame(scene Scene) {
	dc := v.frame

	bg := v.theme.Background
	dc.SetRGB255(int(bg.R), int(bg.G), int(bg.B))
	dc.Clear()

	if scene != nil && scene.GridEnabled() {
		v.paintGrid(dc, scene.SnapInterval())
	}

	dc.DrawImage(v.entities.Image(), 0, 0)

	if scene == nil {
		return
	}

	if start, ok := scene.Pending(); ok {
		p := v.theme.Pending
		dc.SetRGB255(int(p.R), int(p.G), int(p.B))
		dc.SetLineWidth(1)
		dc.SetDash(4, 4)
		dc.DrawLine(start.X, start.Y, scene.Cursor().X, scene.Cursor().Y)
		dc.Stroke()
		dc.SetDash()
	}

	v.paintCursor(dc, scene.Cursor())
}

func (v *Raster) paintGrid(dc *gg.Context, step float64) {
	if step <= 0 {
		return
	}
	g := v.theme.Grid
	dc.SetRGB255(int(g.R), int(g.G), int(g.B))
	dc.SetLineWidth(1)
	for x := step; x < float64(v.width); x += step {
		dc.DrawLine(x, 0, x, float64(v.height))
	}
	for y := step; y < float64(v.height); y += step {
		dc.DrawLine(0, y, float64(v.width), y)
	}
	dc.Stroke()
}

func (v *Raster) paintCursor(dc *gg.Context, at model.Point) {
	const arm = 6
	c := v.theme.Cursor
	dc.SetRGB255(int(c.R), int(c.G), int(c.B))
	dc.SetLineWidth(1)
	dc.DrawLine(at.X-arm, at.Y, at.X+arm, at.Y)
	dc.DrawLine(at.X, at.Y-arm, at.X, at.Y+arm)
	dc.Stroke()
}

// paintHUD writes the title, status line, and message stack to the terminal.
// The terminal is in raw mode, so lines end with CRLF.
func (v *Raster) paintHUD(scene Scene) {
	v.out.ClearScreen()
	v.out.MoveCursor(1, 1)

	var b strings.Builder
	b.WriteString(v.theme.Title.Render("drafter"))
	b.WriteString("\r\n")

	if scene != nil {
		b.WriteString(v.theme.Status.Render(scene.StatusLine()))
		b.WriteString("\r\n\r\n")
		for _, msg := range scene.VisibleMessages() {
			b.WriteString(v.theme.Message.Render(msg))
			b.WriteString("\r\n")
		}
	}

	_, _ = v.out.WriteString(b.String())
}
