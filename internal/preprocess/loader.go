package preprocess

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"grid-labeler/internal/logger"
)

// Loader reads image files and returns grid-ready square bitmaps.
type Loader struct {
	resampler Resampler
	logger    logger.Logger
}

// NewLoader creates a loader using r for scaling.
func NewLoader(r Resampler, log logger.Logger) *Loader {
	return &Loader{resampler: r, logger: log}
}

// Load decodes the file at path and letterboxes it to size x size.
func (l *Loader) Load(path string, size int) (image.Image, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out, err := ResizePreserveAspectRatio(img, size, l.resampler)
	if err != nil {
		return nil, fmt.Errorf("resize %s: %w", path, err)
	}

	l.logger.Debug("Preprocess", "image prepared", map[string]interface{}{
		"path":       path,
		"format":     format,
		"source":     fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
		"size":       size,
		"resampler":  string(l.resampler),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}
