package gui

import "fmt"

const (
	// DefaultDPI is the pixel density assumed when sizing the grid.
	DefaultDPI = 96.0

	// MarginInches is kept free around the grid on each screen axis.
	MarginInches = 2.0
)

// Geometry is the on-screen size of the labeling grid.
type Geometry struct {
	Side         int
	FigureInches float64
	CellPixels   int
}

// WindowPixels is the side length of the whole grid.
func (g Geometry) WindowPixels() int {
	return g.CellPixels * g.Side
}

// ComputeGeometry fits a side x side grid on a screenWidth x screenHeight
// display, leaving MarginInches free at dpi.
func ComputeGeometry(screenWidth, screenHeight int, dpi float64, side int) (Geometry, error) {
	if side < 1 {
		return Geometry{}, fmt.Errorf("grid side must be at least 1, got %d", side)
	}
	if dpi <= 0 {
		return Geometry{}, fmt.Errorf("dpi must be positive, got %g", dpi)
	}

	inches := min(float64(screenWidth)/dpi-MarginInches, float64(screenHeight)/dpi-MarginInches)
	if inches <= 0 {
		return Geometry{}, fmt.Errorf("screen %dx%d is too small for a %g inch margin at %g dpi",
			screenWidth, screenHeight, MarginInches, dpi)
	}

	cell := int(inches * dpi / float64(side))
	if cell < 1 {
		return Geometry{}, fmt.Errorf("%dx%d grid does not fit on a %dx%d screen", side, side, screenWidth, screenHeight)
	}

	return Geometry{Side: side, FigureInches: inches, CellPixels: cell}, nil
}
