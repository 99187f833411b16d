// Package config collects the labeler's command-line and environment
// settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"grid-labeler/internal/gui"
	"grid-labeler/internal/preprocess"
)

const (
	PromptConsole = "console"
	PromptDialog  = "dialog"

	DefaultScreen = "1920x1080"

	EnvDPI    = "LABELER_DPI"
	EnvScreen = "LABELER_SCREEN"
)

// Config is the full set of options for a labeling run.
type Config struct {
	Directory     string
	PositiveLabel string
	NegativeLabel string
	HidePositive  bool
	Init          bool
	NumImages     int

	DPI       float64
	Screen    string
	Resampler string
	Prompt    string
}

// Default returns the documented defaults, with LABELER_DPI and
// LABELER_SCREEN applied when set.
func Default() Config {
	cfg := Config{
		Directory:     ".",
		PositiveLabel: "1",
		NegativeLabel: "0",
		NumImages:     3,
		DPI:           gui.DefaultDPI,
		Screen:        DefaultScreen,
		Resampler:     string(preprocess.Lanczos),
		Prompt:        PromptConsole,
	}

	if v := os.Getenv(EnvDPI); v != "" {
		if dpi, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DPI = dpi
		}
	}
	if v := os.Getenv(EnvScreen); v != "" {
		cfg.Screen = v
	}
	return cfg
}

// PageSize is the number of images shown at once.
func (c Config) PageSize() int {
	return c.NumImages * c.NumImages
}

// ScreenSize parses Screen as WIDTHxHEIGHT.
func (c Config) ScreenSize() (int, int, error) {
	return ParseScreen(c.Screen)
}

// ParseScreen parses a resolution such as "2560x1440".
func ParseScreen(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("screen %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("screen %q: invalid width", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("screen %q: invalid height", s)
	}
	return w, h, nil
}

// Geometry computes the grid size for this configuration.
func (c Config) Geometry() (gui.Geometry, error) {
	w, h, err := c.ScreenSize()
	if err != nil {
		return gui.Geometry{}, err
	}
	return gui.ComputeGeometry(w, h, c.DPI, c.NumImages)
}

// Validate rejects settings the labeling session cannot run with. Label
// strings are not checked.
func (c Config) Validate() error {
	if c.Directory == "" {
		return fmt.Errorf("directory must not be empty")
	}
	info, err := os.Stat(c.Directory)
	if err != nil {
		return fmt.Errorf("directory %s: %w", c.Directory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("directory %s is not a directory", c.Directory)
	}
	if c.NumImages < 1 {
		return fmt.Errorf("num_images must be at least 1, got %d", c.NumImages)
	}
	if _, err := preprocess.ParseResampler(c.Resampler); err != nil {
		return err
	}
	switch c.Prompt {
	case PromptConsole, PromptDialog:
	default:
		return fmt.Errorf("unknown prompt %q (want %s or %s)", c.Prompt, PromptConsole, PromptDialog)
	}
	if _, err := c.Geometry(); err != nil {
		return err
	}
	return nil
}
