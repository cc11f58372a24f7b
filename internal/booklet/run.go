package booklet

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/local/booklet/internal/filetype"
	"github.com/local/booklet/internal/imposition"
	"github.com/local/booklet/internal/sheet"
)

// Run imposes the document referenced by ref.
func (p *Pipeline) Run(ctx context.Context, ref string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := log.With().Str("run_id", res.RunID).Logger()
	ctx = logger.WithContext(ctx)

	err := p.run(ctx, ref, res)
	if p.deps.Metrics != nil {
		p.deps.Metrics.Finish(time.Since(start), err)
	}
	if err != nil {
		logger.Error().Err(err).Str("source", ref).Msg("run failed")
		return nil, err
	}
	logger.Info().
		Int("pages", res.SourcePages).
		Int("padded", res.PaddedPages).
		Int("bundles", len(res.Bundles)).
		Dur("duration", time.Since(start)).
		Msg("booklet complete")
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, ref string, res *Result) error {
	logger := zerolog.Ctx(ctx)

	stageStart := time.Now()
	pdfPath, cleanup, err := p.prepare(ctx, ref)
	if err != nil {
		return err
	}
	defer cleanup()

	pages, err := p.deps.Source.Pages(ctx, pdfPath)
	if err != nil {
		return fmt.Errorf("read pages: %w", err)
	}
	if err := sheet.CheckUniform(pages); err != nil {
		return err
	}
	p.observe("read", stageStart)

	size := pages[0].Bounds()
	var blank image.Image = sheet.Blank(size.Dx(), size.Dy())
	padded, err := imposition.Pad(pages, blank, p.opts.BlankPagesInFront, p.opts.BlankPagesInBack)
	if err != nil {
		return err
	}
	res.SourcePages = len(pages)
	res.PaddedPages = len(padded)
	if p.deps.Metrics != nil {
		p.deps.Metrics.AddPages(len(pages), len(padded)-len(pages))
	}

	bundles, err := imposition.Plan(len(padded), p.opts.BundleLength)
	if err != nil {
		return err
	}
	for _, b := range bundles {
		if err := b.Verify(); err != nil {
			return fmt.Errorf("arrangement check: %w", err)
		}
	}
	logger.Info().
		Int("pages", len(pages)).
		Int("padded", len(padded)).
		Int("bundles", len(bundles)).
		Int("bundle_length", p.opts.BundleLength).
		Msg("planned booklet")

	stageStart = time.Now()
	results, err := p.renderBundles(ctx, bundles, padded, blank)
	if err != nil {
		return err
	}
	p.observe("render", stageStart)
	res.Bundles = results

	if p.deps.Publisher != nil {
		stageStart = time.Now()
		for i := range res.Bundles {
			br := &res.Bundles[i]
			for _, f := range []string{br.Front, br.Back} {
				loc, err := p.deps.Publisher.Publish(ctx, res.RunID, f)
				if err != nil {
					return err
				}
				br.Uploaded = append(br.Uploaded, loc)
			}
		}
		p.observe("publish", stageStart)
	}
	return nil
}

// prepare resolves ref to a local PDF, converting office documents first.
func (p *Pipeline) prepare(ctx context.Context, ref string) (string, func(), error) {
	src, err := p.deps.Resolver.Resolve(ctx, ref)
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() {
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Str("file", src.Path).Msg("failed to remove downloaded source")
		}
	}
	if p.deps.Detector == nil {
		return src.Path, cleanup, nil
	}

	info, err := p.deps.Detector.Require(src.Path)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}
	if info.Kind != filetype.Office {
		return src.Path, cleanup, nil
	}
	if p.deps.Converter == nil {
		cleanup()
		return "", func() {}, &imposition.InputError{Reason: info.Description + " needs conversion, but no converter is available"}
	}
	pdfPath, err := p.deps.Converter.ConvertToPDF(ctx, src.Path, p.opts.ScratchDir)
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("convert %s: %w", info.Description, err)
	}
	return pdfPath, cleanup, nil
}

// renderBundles renders and writes bundles on a bounded pool of workers.
// Results are indexed by bundle so naming does not depend on scheduling.
func (p *Pipeline) renderBundles(ctx context.Context, bundles []imposition.Bundle, pages []image.Image, blank image.Image) ([]BundleResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]BundleResult, len(bundles))
	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	workers := min(p.opts.Workers, len(bundles))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r, err := p.writeBundle(ctx, bundles[i], pages, blank)
				if err != nil {
					fail(err)
					continue
				}
				results[i] = r
			}
		}()
	}

feed:
	for i := range bundles {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// Parent cancellation stops the feed without any worker failing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) writeBundle(ctx context.Context, b imposition.Bundle, pages []image.Image, blank image.Image) (BundleResult, error) {
	if err := ctx.Err(); err != nil {
		return BundleResult{}, err
	}
	n := b.Index + 1
	logger := zerolog.Ctx(ctx).With().Int("bundle", n).Logger()

	sides, err := Assemble(b, pages, blank, p.deps.Renderer)
	if err != nil {
		return BundleResult{}, err
	}
	front, err := p.deps.Writer.Write(ctx, sides.Fronts, fmt.Sprintf("merged-%d-front", n))
	if err != nil {
		return BundleResult{}, fmt.Errorf("write bundle %d fronts: %w", n, err)
	}
	back, err := p.deps.Writer.Write(ctx, sides.Backs, fmt.Sprintf("merged-%d-back", n))
	if err != nil {
		return BundleResult{}, fmt.Errorf("write bundle %d backs: %w", n, err)
	}

	if p.deps.Metrics != nil {
		p.deps.Metrics.AddSheets("front", len(sides.Fronts))
		p.deps.Metrics.AddSheets("back", len(sides.Backs))
		p.deps.Metrics.IncBundles()
	}
	logger.Info().
		Int("first_page", b.Start+1).
		Int("last_page", b.End()).
		Int("sheets", b.Sheets()).
		Msg("bundle written")
	return BundleResult{Number: n, Pages: b.Span, Sheets: b.Sheets(), Front: front, Back: back}, nil
}

func (p *Pipeline) observe(stage string, since time.Time) {
	if p.deps.Metrics != nil {
		p.deps.Metrics.ObserveStage(stage, time.Since(since))
	}
}
