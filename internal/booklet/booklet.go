// Package booklet runs the imposition pipeline: it reads a document, pads
// and arranges its pages into binding bundles, renders the sheets and writes
// one front PDF and one back PDF per bundle.
package booklet

import (
	"context"
	"image"

	"github.com/local/booklet/internal/fetch"
	"github.com/local/booklet/internal/filetype"
	"github.com/local/booklet/internal/imposition"
	"github.com/local/booklet/internal/metrics"
)

// PageSource turns a local PDF into uniform-size page images.
type PageSource interface {
	Pages(ctx context.Context, pdfPath string) ([]image.Image, error)
}

// SheetRenderer composes two pages into one sheet side.
type SheetRenderer interface {
	Merge(a, b image.Image) image.Image
}

// OutputWriter persists sheets, in order, as one paginated artifact.
type OutputWriter interface {
	Write(ctx context.Context, sheets []image.Image, name string) (string, error)
}

// Resolver turns a source reference into a local file.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (fetch.Source, error)
}

// Detector classifies a local file.
type Detector interface {
	Require(path string) (*filetype.Info, error)
}

// Converter turns an office document into a PDF inside outputDir.
type Converter interface {
	ConvertToPDF(ctx context.Context, inputPath, outputDir string) (string, error)
}

// Publisher copies a finished artifact somewhere else.
type Publisher interface {
	Publish(ctx context.Context, runID, localPath string) (string, error)
}

// Dependencies wires the pipeline. Source, Renderer and Writer are required;
// the rest are optional.
type Dependencies struct {
	Source    PageSource
	Renderer  SheetRenderer
	Writer    OutputWriter
	Resolver  Resolver
	Detector  Detector
	Converter Converter
	Publisher Publisher
	Metrics   *metrics.Run
}

// Options are the imposition settings of a run.
type Options struct {
	BlankPagesInFront int
	BlankPagesInBack  int
	BundleLength      int
	// Workers bounds how many bundles are rendered at once.
	Workers int
	// ScratchDir receives converted documents.
	ScratchDir string
}

// Pipeline runs booklet jobs.
type Pipeline struct {
	deps Dependencies
	opts Options
}

// New validates opts and returns a pipeline.
func New(deps Dependencies, opts Options) (*Pipeline, error) {
	if opts.BlankPagesInFront < 0 {
		return nil, &imposition.ConfigError{Field: "blank_pages_in_front", Value: opts.BlankPagesInFront, Reason: "must not be negative"}
	}
	if opts.BlankPagesInBack < 0 {
		return nil, &imposition.ConfigError{Field: "blank_pages_in_back", Value: opts.BlankPagesInBack, Reason: "must not be negative"}
	}
	if opts.BundleLength < 1 {
		return nil, &imposition.ConfigError{Field: "bundle_length", Value: opts.BundleLength, Reason: "must be positive"}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if deps.Resolver == nil {
		deps.Resolver = &fetch.Fetcher{}
	}
	return &Pipeline{deps: deps, opts: opts}, nil
}

// BundleResult describes the artifacts written for one bundle.
type BundleResult struct {
	Number int // 1-based
	Pages  imposition.Span
	Sheets int
	Front  string
	Back   string
	// Uploaded holds remote locations when a Publisher is configured.
	Uploaded []string
}

// Result summarizes a run.
type Result struct {
	RunID       string
	SourcePages int
	PaddedPages int
	Bundles     []BundleResult
}
