// Package gui renders one page of images into a fixed N x N grid of
// tappable cells.
package gui

import (
	"fmt"
	"image"

	"grid-labeler/internal/logger"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// ImageLoader produces a square bitmap of size x size for path.
type ImageLoader interface {
	Load(path string, size int) (image.Image, error)
}

// CellState is the commit-time view of a cell.
type CellState struct {
	Path    string
	Visible bool
}

// Grid owns the cells of the page currently on screen.
type Grid struct {
	geometry  Geometry
	loader    ImageLoader
	logger    logger.Logger
	cells     []*Cell
	container *fyne.Container
	onTapped  func(int)
}

// NewGrid builds geometry.Side x geometry.Side empty cells.
func NewGrid(geometry Geometry, loader ImageLoader, log logger.Logger) *Grid {
	g := &Grid{
		geometry: geometry,
		loader:   loader,
		logger:   log,
	}

	count := geometry.Side * geometry.Side
	g.cells = make([]*Cell, count)
	objects := make([]fyne.CanvasObject, count)
	for i := range g.cells {
		g.cells[i] = newCell(i, float32(geometry.CellPixels), g.cellTapped)
		objects[i] = g.cells[i]
	}

	g.container = container.NewGridWithColumns(geometry.Side, objects...)
	return g
}

// SetOnCellTapped registers the click handler. It receives the cell index.
func (g *Grid) SetOnCellTapped(handler func(int)) {
	g.onTapped = handler
}

func (g *Grid) cellTapped(index int) {
	if g.onTapped != nil {
		g.onTapped(index)
	}
}

// ShowPage fills the leading cells with paths and clears the rest. All
// images load before any cell changes, so a failed load leaves the
// previous page intact.
func (g *Grid) ShowPage(paths []string) error {
	if len(paths) > len(g.cells) {
		return fmt.Errorf("page of %d images exceeds grid capacity %d", len(paths), len(g.cells))
	}

	images := make([]image.Image, len(paths))
	for i, path := range paths {
		img, err := g.loader.Load(path, g.geometry.CellPixels)
		if err != nil {
			return fmt.Errorf("load cell %d: %w", i, err)
		}
		images[i] = img
	}

	for i, cell := range g.cells {
		if i < len(paths) {
			cell.assign(paths[i], images[i])
		} else {
			cell.clear()
		}
	}

	g.logger.Debug("Grid", "page displayed", map[string]interface{}{
		"images": len(paths),
		"hidden": len(g.cells) - len(paths),
	})
	return nil
}

// Toggle flips the visibility of the cell at index. Cells without an
// image are left alone.
func (g *Grid) Toggle(index int) {
	if index < 0 || index >= len(g.cells) {
		return
	}
	cell := g.cells[index]
	if cell.path == "" {
		return
	}
	cell.setShown(!cell.shown)
}

// Cells reports path and visibility of every cell in grid order.
func (g *Grid) Cells() []CellState {
	states := make([]CellState, len(g.cells))
	for i, cell := range g.cells {
		states[i] = CellState{Path: cell.path, Visible: cell.shown}
	}
	return states
}

// Cell returns the widget at index for tests and layout code.
func (g *Grid) Cell(index int) *Cell {
	return g.cells[index]
}

// Object is the canvas object to place in a window.
func (g *Grid) Object() fyne.CanvasObject {
	return g.container
}

// Geometry returns the sizing the grid was built with.
func (g *Grid) Geometry() Geometry {
	return g.geometry
}
