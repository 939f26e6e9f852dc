package app

import (
	"image"
	"path/filepath"

	"github.com/drafterkit/drafter/internal/export"
	"github.com/drafterkit/drafter/internal/logging"
	"github.com/drafterkit/drafter/internal/store"
)

// Command is a deferred unit of work queued by the controller during input
// handling and applied by the loop at the end of the same frame. Commands
// live for exactly one frame; the queue is cleared after execution whether
// or not the effect read back into the application.
type Command interface {
	Execute(app *App)
}

// Snapshotter is implemented by views that can hand out the current frame
// as an image. ExportCommand degrades to a no-op against views that cannot.
type Snapshotter interface {
	Snapshot() image.Image
}

// ExportCommand writes the current drawing to export.png and export.svg in
// the app's export directory. Exports are rate-limited so holding the key
// does not rewrite the files every frame.
type ExportCommand struct{}

func (ExportCommand) Execute(app *App) {
	snap, ok := app.view.(Snapshotter)
	if !ok {
		return
	}
	if !app.exportThrottle.Allow() {
		return
	}

	width, height := app.view.ScreenDimensions()
	pngPath := filepath.Join(app.exportDir, "export.png")
	svgPath := filepath.Join(app.exportDir, "export.svg")

	if err := export.WritePNG(snap.Snapshot(), pngPath); err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Str("file", pngPath).Msg("png export failed")
		app.controller.PushMessage("Error exporting drawing")
		return
	}
	if err := export.WriteSVG(app.model.Lines(), width, height, svgPath); err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Str("file", svgPath).Msg("svg export failed")
		app.controller.PushMessage("Error exporting drawing")
		return
	}

	app.controller.PushMessage("Exported drawing: " + pngPath)
}

// SaveCommand persists the model to the named save file.
type SaveCommand struct {
	Filename string
}

func (c SaveCommand) Execute(app *App) {
	if err := store.Save(app.model, c.Filename); err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Str("file", c.Filename).Msg("save failed")
		app.controller.PushMessage("Error writing save file: " + c.Filename)
		return
	}
	app.controller.PushMessage("Saved to file: " + c.Filename)
}

// LoadCommand replaces the current drawing with the named save file's
// content, going through the app's fault-tolerant load path.
type LoadCommand struct {
	Filename string
}

func (c LoadCommand) Execute(app *App) {
	app.LoadFromFile(c.Filename)
}
