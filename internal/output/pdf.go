// Package output persists rendered sheets as paginated PDF files.
package output

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/rs/zerolog/log"
)

// ImageFormat selects how sheets are encoded before they are placed in a PDF.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// DefaultLayout places each sheet image centered on an A4 page, scaled to fit.
const DefaultLayout = "form:A4, pos:c, sc:1.0"

// PDFWriter writes one PDF per call, one sheet per page, into a workspace.
type PDFWriter struct {
	ws      *Workspace
	format  ImageFormat
	quality int
	layout  *pdfcpu.Import
}

// Options configures a PDFWriter.
type Options struct {
	Format      ImageFormat
	JPEGQuality int
	// Layout is a pdfcpu import description such as DefaultLayout.
	Layout string
}

// NewPDFWriter validates opts and returns a writer bound to ws.
func NewPDFWriter(ws *Workspace, opts Options) (*PDFWriter, error) {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Format != FormatPNG && opts.Format != FormatJPEG {
		return nil, fmt.Errorf("unsupported sheet format %q", opts.Format)
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 90
	}
	if opts.Layout == "" {
		opts.Layout = DefaultLayout
	}
	imp, err := api.Import(opts.Layout, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("parse page layout %q: %w", opts.Layout, err)
	}
	return &PDFWriter{
		ws:      ws,
		format:  opts.Format,
		quality: opts.JPEGQuality,
		layout:  imp,
	}, nil
}

// Write encodes sheets into the workspace and assembles them, in order, into
// <name>.pdf. It returns the path of the PDF.
func (w *PDFWriter) Write(ctx context.Context, sheets []image.Image, name string) (string, error) {
	if len(sheets) == 0 {
		return "", errors.New("no sheets to write")
	}

	files := make([]string, 0, len(sheets))
	for i, img := range sheets {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := w.ws.Path(fmt.Sprintf("%s-%03d.%s", name, i+1, w.format))
		if err := w.encode(p, img); err != nil {
			return "", err
		}
		files = append(files, p)
	}

	out := w.ws.Path(name + ".pdf")
	// pdfcpu appends to an existing file; start clean.
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("remove stale %s: %w", out, err)
	}
	// pdfcpu records the command on its configuration, so each call gets its
	// own for concurrent bundle writers.
	if err := api.ImportImagesFile(files, out, w.layout, model.NewDefaultConfiguration()); err != nil {
		return "", fmt.Errorf("failed to assemble %s: %w", out, err)
	}

	log.Info().Str("file", out).Int("sheets", len(sheets)).Msg("wrote sheet PDF")
	return out, nil
}

func (w *PDFWriter) encode(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	switch w.format {
	case FormatJPEG:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: w.quality})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
