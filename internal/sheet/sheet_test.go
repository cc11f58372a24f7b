package sheet

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/local/booklet/internal/imposition"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRotate90(t *testing.T) {
	src := solid(3, 2, red)
	src.SetRGBA(2, 0, blue)  // top-right
	src.SetRGBA(0, 1, green) // bottom-left

	got := Rotate90(src)
	if b := got.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("rotated bounds = %v, want 2x3", b)
	}
	// Counter-clockwise: top-right moves to top-left, bottom-left to bottom-right.
	if c := got.NRGBAAt(0, 0); c != color.NRGBA(blue) {
		t.Errorf("top-left = %v, want blue", c)
	}
	if c := got.NRGBAAt(1, 2); c != color.NRGBA(green) {
		t.Errorf("bottom-right = %v, want green", c)
	}
	if c := got.NRGBAAt(1, 0); c != color.NRGBA(red) {
		t.Errorf("top-right = %v, want red", c)
	}
}

func TestRotate90OffsetBounds(t *testing.T) {
	src := solid(4, 4, red)
	sub := src.SubImage(image.Rect(1, 1, 3, 4)).(*image.RGBA)
	sub.SetRGBA(2, 1, blue) // top-right of the sub image
	got := Rotate90(sub)
	if c := got.NRGBAAt(0, 0); c != color.NRGBA(blue) {
		t.Errorf("top-left = %v, want blue", c)
	}
}

func TestMerge(t *testing.T) {
	a := solid(4, 6, red)
	b := solid(4, 6, green)

	got := Merge(a, b)
	if bnd := got.Bounds(); bnd.Dx() != 6 || bnd.Dy() != 8 {
		t.Fatalf("merged bounds = %v, want 6x8", bnd)
	}
	for y := 0; y < 8; y++ {
		want := green
		if y >= 4 {
			want = red
		}
		for x := 0; x < 6; x++ {
			if c := got.RGBAAt(x, y); c != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, c, want)
			}
		}
	}
}

func TestBlank(t *testing.T) {
	img := Blank(3, 5)
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 5 {
		t.Fatalf("bounds = %v", b)
	}
	if c := img.RGBAAt(2, 4); c != BlankColor {
		t.Errorf("fill = %v, want %v", c, BlankColor)
	}
}

func TestComposer(t *testing.T) {
	out := Composer{}.Merge(Blank(2, 2), Blank(2, 2))
	if b := out.Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Errorf("bounds = %v", b)
	}
}

func TestCheckUniform(t *testing.T) {
	same := []image.Image{Blank(4, 6), solid(4, 6, red), Blank(4, 6)}
	if err := CheckUniform(same); err != nil {
		t.Errorf("uniform pages rejected: %v", err)
	}

	mixed := []image.Image{Blank(4, 6), Blank(4, 6), Blank(6, 4)}
	err := CheckUniform(mixed)
	if !errors.Is(err, imposition.ErrInput) {
		t.Fatalf("got %v, want input error", err)
	}
	if !strings.Contains(err.Error(), "page 3") {
		t.Errorf("error %q does not name page 3", err)
	}

	if err := CheckUniform(nil); !errors.Is(err, imposition.ErrInput) {
		t.Errorf("empty: got %v", err)
	}
}
