package preprocess

import "image"

// Placement locates the scaled image inside the square canvas.
type Placement struct {
	Width   int
	Height  int
	OffsetX int
	OffsetY int
}

// Rect is the destination rectangle of the scaled content.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.OffsetX, p.OffsetY, p.OffsetX+p.Width, p.OffsetY+p.Height)
}

// Fit scales (width, height) so the longer side becomes maxSize and
// centers the result, rounding offsets down.
func Fit(width, height, maxSize int) Placement {
	longer := float64(max(width, height))
	ratio := longer / float64(maxSize)

	w := max(int(float64(width)/ratio), 1)
	h := max(int(float64(height)/ratio), 1)
	w = min(w, maxSize)
	h = min(h, maxSize)

	return Placement{
		Width:   w,
		Height:  h,
		OffsetX: (maxSize - w) / 2,
		OffsetY: (maxSize - h) / 2,
	}
}
