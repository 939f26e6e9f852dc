// Package config loads drafter's configuration from a TOML file and watches
// it for changes. Missing or malformed files fall back to defaults so the
// application always starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the user-tunable settings.
type Config struct {
	// Canvas size in pixels.
	CanvasWidth  int
	CanvasHeight int

	// SnapInterval is the cursor step and vertex snap distance in pixels.
	SnapInterval float64

	// Grid displays the drawing grid at startup.
	Grid bool

	// SaveFile is the default save/load target.
	SaveFile string

	// ExportDir receives PNG/SVG exports.
	ExportDir string

	// Theme names the view color theme.
	Theme string
}

const (
	defaultConfigPath = "~/.config/drafter/config.toml"
	defaultSaveFile   = "plan.sav"
	defaultTheme      = "blueprint"
)

func defaults() Config {
	return Config{
		CanvasWidth:  960,
		CanvasHeight: 640,
		SnapInterval: 12,
		SaveFile:     defaultSaveFile,
		ExportDir:    ".",
		Theme:        defaultTheme,
	}
}

// Load reads the config at path, falling back to defaults when the file is
// missing. An empty path uses the default location.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaults(), nil
	}

	cfg := defaults()

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		CanvasWidth  int     `toml:"canvas_width"`
		CanvasHeight int     `toml:"canvas_height"`
		SnapInterval float64 `toml:"snap_interval"`
		Grid         bool    `toml:"grid"`
		SaveFile     string  `toml:"save_file"`
		ExportDir    string  `toml:"export_dir"`
		Theme        string  `toml:"theme"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if raw.CanvasWidth > 0 {
		cfg.CanvasWidth = raw.CanvasWidth
	}
	if raw.CanvasHeight > 0 {
		cfg.CanvasHeight = raw.CanvasHeight
	}
	if raw.SnapInterval > 0 {
		cfg.SnapInterval = raw.SnapInterval
	}
	cfg.Grid = raw.Grid
	if s := strings.TrimSpace(raw.SaveFile); s != "" {
		cfg.SaveFile = s
	}
	if s := strings.TrimSpace(raw.ExportDir); s != "" {
		cfg.ExportDir = s
	}
	if s := strings.TrimSpace(raw.Theme); s != "" {
		cfg.Theme = s
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
