package output

import (
	"context"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/local/booklet/internal/sheet"
)

func newTestWriter(t *testing.T, opts Options) (*Workspace, *PDFWriter) {
	t.Helper()
	ws, err := NewWorkspace(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatal(err)
	}
	if err := ws.Reset(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ws.Release() })
	w, err := NewPDFWriter(ws, opts)
	if err != nil {
		t.Fatal(err)
	}
	return ws, w
}

func TestPDFWriterWritesOnePagePerSheet(t *testing.T) {
	for _, format := range []ImageFormat{FormatPNG, FormatJPEG} {
		t.Run(string(format), func(t *testing.T) {
			ws, w := newTestWriter(t, Options{Format: format})
			sheets := []image.Image{sheet.Blank(40, 56), sheet.Blank(40, 56), sheet.Blank(40, 56)}

			out, err := w.Write(context.Background(), sheets, "merged-1-front")
			if err != nil {
				t.Fatalf("Write: %v", err)
			}
			if out != ws.Path("merged-1-front.pdf") {
				t.Errorf("output path = %q", out)
			}
			n, err := api.PageCountFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if n != len(sheets) {
				t.Errorf("PDF has %d pages, want %d", n, len(sheets))
			}
			if _, err := os.Stat(ws.Path("merged-1-front-001." + string(format))); err != nil {
				t.Errorf("sheet image missing: %v", err)
			}
		})
	}
}

func TestPDFWriterKeepsSheetOrder(t *testing.T) {
	// Page size follows the image, so each page's shape identifies its sheet.
	_, w := newTestWriter(t, Options{Layout: "pos:full"})
	sheets := []image.Image{sheet.Blank(40, 80), sheet.Blank(80, 40), sheet.Blank(60, 60)}
	shapes := []string{"portrait", "landscape", "square"}

	out, err := w.Write(context.Background(), sheets, "merged-1-back")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	dims, err := api.PageDimsFile(out)
	if err != nil {
		t.Fatalf("PageDimsFile: %v", err)
	}
	if len(dims) != len(sheets) {
		t.Fatalf("PDF has %d pages, want %d", len(dims), len(sheets))
	}
	for i, d := range dims {
		if got := shape(d.Width, d.Height); got != shapes[i] {
			t.Errorf("page %d is %s (%.0fx%.0f), want %s", i+1, got, d.Width, d.Height, shapes[i])
		}
	}
}

func shape(w, h float64) string {
	switch {
	case math.Abs(w-h) < 1:
		return "square"
	case w < h:
		return "portrait"
	default:
		return "landscape"
	}
}

func TestPDFWriterOverwrites(t *testing.T) {
	_, w := newTestWriter(t, Options{})
	ctx := context.Background()
	if _, err := w.Write(ctx, []image.Image{sheet.Blank(8, 8), sheet.Blank(8, 8)}, "out"); err != nil {
		t.Fatal(err)
	}
	out, err := w.Write(ctx, []image.Image{sheet.Blank(8, 8)}, "out")
	if err != nil {
		t.Fatal(err)
	}
	if n, err := api.PageCountFile(out); err != nil || n != 1 {
		t.Errorf("rewritten PDF has %d pages (err %v), want 1", n, err)
	}
}

func TestPDFWriterRejects(t *testing.T) {
	_, w := newTestWriter(t, Options{})
	if _, err := w.Write(context.Background(), nil, "empty"); err == nil {
		t.Error("Write accepted zero sheets")
	}
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewPDFWriter(ws, Options{Format: "tiff"}); err == nil {
		t.Error("NewPDFWriter accepted tiff")
	}
}
