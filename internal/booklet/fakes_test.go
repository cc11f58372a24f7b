package booklet

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"

	"github.com/local/booklet/internal/fetch"
	"github.com/local/booklet/internal/filetype"
)

// page is a source page that remembers its 0-based document index.
type page struct {
	id   int
	rect image.Rectangle
}

func (p page) ColorModel() color.Model { return color.GrayModel }
func (p page) Bounds() image.Rectangle { return p.rect }
func (p page) At(x, y int) color.Color { return color.Gray{Y: uint8(p.id)} }

func pagesOf(n int) []image.Image {
	out := make([]image.Image, n)
	for i := range out {
		out[i] = page{id: i, rect: image.Rect(0, 0, 4, 6)}
	}
	return out
}

// label names a page image for assertions; anything that is not a source
// page is the shared blank.
func label(img image.Image) string {
	if p, ok := img.(page); ok {
		return fmt.Sprint(p.id)
	}
	return "_"
}

// pair is what pairRenderer produces instead of real pixels.
type pair struct {
	image.Image
	left, right string
}

func (p pair) String() string { return "(" + p.left + "," + p.right + ")" }

type pairRenderer struct{}

func (pairRenderer) Merge(a, b image.Image) image.Image {
	return pair{Image: a, left: label(a), right: label(b)}
}

type fakeSource struct {
	pages []image.Image
	err   error
	got   string
}

func (f *fakeSource) Pages(_ context.Context, pdfPath string) ([]image.Image, error) {
	f.got = pdfPath
	return f.pages, f.err
}

// memWriter records every written artifact as a list of pair labels.
type memWriter struct {
	mu      sync.Mutex
	written map[string][]string
	failOn  string
}

func newMemWriter() *memWriter { return &memWriter{written: map[string][]string{}} }

func (w *memWriter) Write(_ context.Context, sheets []image.Image, name string) (string, error) {
	if name == w.failOn {
		return "", errWriteFailed
	}
	labels := make([]string, len(sheets))
	for i, s := range sheets {
		labels[i] = s.(pair).String()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written[name] = labels
	return "/out/" + name + ".pdf", nil
}

func (w *memWriter) names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.written))
	for n := range w.written {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

type staticResolver struct{ path string }

func (r staticResolver) Resolve(context.Context, string) (fetch.Source, error) {
	return fetch.Source{Path: r.path}, nil
}

type staticDetector struct{ kind filetype.Kind }

func (d staticDetector) Require(string) (*filetype.Info, error) {
	return &filetype.Info{Kind: d.kind, Description: "Word document"}, nil
}

type fakeConverter struct {
	in, outDir string
}

func (c *fakeConverter) ConvertToPDF(_ context.Context, in, outDir string) (string, error) {
	c.in, c.outDir = in, outDir
	return outDir + "/converted.pdf", nil
}

type fakePublisher struct {
	mu    sync.Mutex
	paths []string
}

func (p *fakePublisher) Publish(_ context.Context, runID, localPath string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, localPath)
	return "s3://bucket/" + runID + localPath, nil
}
