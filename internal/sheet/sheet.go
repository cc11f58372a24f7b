// Package sheet composes two page images into one printable sheet side.
package sheet

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/local/booklet/internal/imposition"
)

// BlankColor is the fill of inserted blank pages and of the sheet canvas.
var BlankColor = color.RGBA{R: 250, G: 250, B: 250, A: 255}

// Blank returns a page of the given size filled with BlankColor.
func Blank(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: BlankColor}, image.Point{}, draw.Src)
	return img
}

// Rotate90 returns src turned a quarter turn counter-clockwise.
func Rotate90(src image.Image) *image.NRGBA {
	return imaging.Rotate90(src)
}

// Merge rotates both pages and stacks them: b on the top half, a on the
// bottom half. The canvas takes its size from a.
func Merge(a, b image.Image) *image.RGBA {
	ra := Rotate90(a)
	rb := Rotate90(b)
	w, h := ra.Bounds().Dx(), ra.Bounds().Dy()

	canvas := image.NewRGBA(image.Rect(0, 0, w, 2*h))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: BlankColor}, image.Point{}, draw.Src)
	draw.Copy(canvas, image.Point{X: 0, Y: h}, ra, ra.Bounds(), draw.Src, nil)
	draw.Copy(canvas, image.Point{}, rb, rb.Bounds(), draw.Src, nil)
	return canvas
}

// Composer exposes Merge as a method value for callers that depend on an
// interface.
type Composer struct{}

func (Composer) Merge(a, b image.Image) image.Image { return Merge(a, b) }

// CheckUniform reports the first page whose size differs from page 0.
func CheckUniform(pages []image.Image) error {
	if len(pages) == 0 {
		return imposition.ErrNoPages
	}
	want := pages[0].Bounds().Size()
	for i, p := range pages[1:] {
		if got := p.Bounds().Size(); got != want {
			return &imposition.InputError{
				Reason: fmt.Sprintf("page %d is %dx%d, page 1 is %dx%d", i+2, got.X, got.Y, want.X, want.Y),
			}
		}
	}
	return nil
}
