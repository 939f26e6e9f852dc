// Package store reads and writes drafter save files.
//
// A save file is a small versioned JSON document holding the line entities.
// The loader populates an existing model in place; any read, decode, or
// validation failure is reported as a single error and the model is left to
// the caller's recovery path.
package store

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/drafterkit/drafter/internal/model"
)

// FormatVersion is the save file schema version this build understands.
const FormatVersion = 1

var errBadVersion = errors.New("unsupported save file version")

type saveFile struct {
	Version int          `json:"version"`
	Lines   []model.Line `json:"lines"`
}

// Load populates m from the named save file.
func Load(m *model.Model, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read save file: %w", err)
	}

	var sf saveFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("decode save file: %w", err)
	}
	if sf.Version != FormatVersion {
		return fmt.Errorf("%w: %d", errBadVersion, sf.Version)
	}
	for i, l := range sf.Lines {
		if l.Kind != model.ExteriorWall && l.Kind != model.InteriorWall {
			return fmt.Errorf("decode save file: line %d has unknown kind %d", i, l.Kind)
		}
	}

	m.Restore(sf.Lines)
	return nil
}

// Save writes m's entities to the named file, replacing any previous content.
func Save(m *model.Model, filename string) error {
	sf := saveFile{Version: FormatVersion, Lines: m.Lines()}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode save file: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	return nil
}
