// Package pagesource turns a PDF document into page images.
package pagesource

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"github.com/local/booklet/internal/imposition"
	"github.com/local/booklet/internal/sheet"
)

// DefaultDPI matches the resolution the output PDFs are laid out for.
const DefaultDPI = 100

// Fitz rasterizes PDF pages with MuPDF through go-fitz.
type Fitz struct {
	DPI int
	// Gray converts pages to grayscale, which keeps sheet images small and
	// prints without color toner.
	Gray bool
}

// NewFitz creates a rasterizer; a non-positive dpi selects DefaultDPI.
func NewFitz(dpi int) *Fitz {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Fitz{DPI: dpi}
}

// Pages renders every page of the PDF at pdfPath, in document order.
func (f *Fitz) Pages(ctx context.Context, pdfPath string) ([]image.Image, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, imposition.ErrNoPages
	}

	pages := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, float64(f.DPI))
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		b := img.Bounds()
		var page image.Image = img
		if f.Gray {
			page = toGray(img)
		}
		log.Debug().
			Int("page", i+1).
			Int("width", b.Dx()).
			Int("height", b.Dy()).
			Int("dpi", f.DPI).
			Bool("gray", f.Gray).
			Msg("rendered page")
		pages = append(pages, page)
	}

	if err := sheet.CheckUniform(pages); err != nil {
		return nil, err
	}
	log.Info().Str("pdf", pdfPath).Int("pages", n).Int("dpi", f.DPI).Msg("rasterized document")
	return pages, nil
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// Count returns the number of pages in the PDF without rendering it.
func Count(pdfPath string) (int, error) {
	n, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("pdf page count failed: %w", err)
	}
	return n, nil
}
