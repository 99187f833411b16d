package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var cellBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Cell is one tappable slot of the grid. Its visibility flag is the label
// signal read at commit time.
type Cell struct {
	widget.BaseWidget

	index    int
	path     string
	shown    bool
	image    *canvas.Image
	frame    *canvas.Rectangle
	onTapped func(int)
}

func newCell(index int, size float32, onTapped func(int)) *Cell {
	c := &Cell{index: index, onTapped: onTapped}

	c.frame = canvas.NewRectangle(cellBackground)
	c.frame.SetMinSize(fyne.NewSize(size, size))

	c.image = canvas.NewImageFromImage(nil)
	c.image.FillMode = canvas.ImageFillContain
	c.image.ScaleMode = canvas.ImageScalePixels
	c.image.SetMinSize(fyne.NewSize(size, size))
	c.image.Hide()

	c.ExtendBaseWidget(c)
	return c
}

func (c *Cell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(c.frame, c.image))
}

// Tapped forwards taps on cells that hold an image.
func (c *Cell) Tapped(_ *fyne.PointEvent) {
	if c.path == "" || c.onTapped == nil {
		return
	}
	c.onTapped(c.index)
}

// Path is the image shown in the cell, empty for unused cells.
func (c *Cell) Path() string {
	return c.path
}

// Shown reports the visibility flag.
func (c *Cell) Shown() bool {
	return c.shown
}

func (c *Cell) assign(path string, img image.Image) {
	c.path = path
	c.image.Image = img
	c.setShown(true)
}

func (c *Cell) clear() {
	c.path = ""
	c.image.Image = nil
	c.setShown(false)
}

func (c *Cell) setShown(shown bool) {
	c.shown = shown
	if shown {
		c.image.Show()
	} else {
		c.image.Hide()
	}
	c.image.Refresh()
}
