// Package preprocess turns image files into fixed-size square thumbnails
// for the labeling grid.
package preprocess

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

// Resampler names the interpolation filter used for scaling.
type Resampler string

const (
	// Lanczos resamples with OpenCV's 8x8 Lanczos kernel.
	Lanczos Resampler = "lanczos"
	// CatmullRom resamples in pure Go with golang.org/x/image/draw.
	CatmullRom Resampler = "catmullrom"
)

var background = color.RGBA{A: 255}

// ParseResampler validates a resampler name.
func ParseResampler(name string) (Resampler, error) {
	switch r := Resampler(strings.ToLower(strings.TrimSpace(name))); r {
	case Lanczos, CatmullRom:
		return r, nil
	default:
		return "", fmt.Errorf("unknown resampler %q (want %s or %s)", name, Lanczos, CatmullRom)
	}
}

// ResizePreserveAspectRatio scales img so its longer side equals maxSize
// and letterboxes it onto an opaque black maxSize x maxSize canvas.
func ResizePreserveAspectRatio(img image.Image, maxSize int, r Resampler) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	if maxSize < 1 {
		return nil, fmt.Errorf("invalid target size %d", maxSize)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("input image has no pixels")
	}

	placement := Fit(bounds.Dx(), bounds.Dy(), maxSize)

	switch r {
	case CatmullRom:
		return resizeDraw(img, maxSize, placement), nil
	case Lanczos, "":
		return resizeOpenCV(img, maxSize, placement)
	default:
		return nil, fmt.Errorf("unknown resampler %q", r)
	}
}

func resizeDraw(img image.Image, maxSize int, p Placement) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, maxSize, maxSize))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, p.Rect(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func resizeOpenCV(img image.Image, maxSize int, p Placement) (*image.RGBA, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to Mat: %w", err)
	}
	defer src.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(src, &scaled, image.Point{X: p.Width, Y: p.Height}, 0, 0, gocv.InterpolationLanczos4)
	if scaled.Empty() {
		return nil, fmt.Errorf("resize to %dx%d produced an empty Mat", p.Width, p.Height)
	}

	padded := gocv.NewMat()
	defer padded.Close()
	gocv.CopyMakeBorder(scaled, &padded,
		p.OffsetY, maxSize-p.Height-p.OffsetY,
		p.OffsetX, maxSize-p.Width-p.OffsetX,
		gocv.BorderConstant, background)
	if padded.Empty() {
		return nil, fmt.Errorf("letterbox border produced an empty Mat")
	}

	out, err := padded.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert Mat to image: %w", err)
	}
	return toRGBA(out), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
