// Package export writes drawing snapshots to disk as PNG and SVG files.
package export

import (
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"

	"github.com/drafterkit/drafter/internal/model"
)

// WritePNG saves the rendered frame image to path.
func WritePNG(img image.Image, path string) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}

// WriteSVG renders the line entities as a vector document of the given
// canvas size.
func WriteSVG(lines []model.Line, width, height int, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}

	canvas := svg.New(file)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	for _, l := range lines {
		style := fmt.Sprintf("stroke:rgb(%d,%d,%d);stroke-width:%.0f;stroke-linecap:round",
			l.Color.R, l.Color.G, l.Color.B, l.Kind.Thickness())
		canvas.Line(int(l.Start.X), int(l.Start.Y), int(l.End.X), int(l.End.Y), style)
	}
	canvas.End()

	if err := file.Close(); err != nil {
		return fmt.Errorf("close svg: %w", err)
	}
	return nil
}

// Throttle limits how often an export may run.
type Throttle struct {
	mu    sync.Mutex
	every time.Duration
	last  time.Time

	now func() time.Time
}

// NewThrottle allows one export per interval.
func NewThrottle(every time.Duration) *Throttle {
	return &Throttle{every: every, now: time.Now}
}

// Allow reports whether an export may run now and, if so, starts a new
// interval.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.every {
		return false
	}
	t.last = now
	return true
}
