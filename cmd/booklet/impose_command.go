package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/local/booklet/internal/booklet"
	"github.com/local/booklet/internal/converter"
	"github.com/local/booklet/internal/fetch"
	"github.com/local/booklet/internal/filetype"
	"github.com/local/booklet/internal/metrics"
	"github.com/local/booklet/internal/output"
	"github.com/local/booklet/internal/pagesource"
	"github.com/local/booklet/internal/sheet"
	"github.com/local/booklet/internal/storage"
)

// staleDownloadAge is how old a leftover download must be before it is removed.
const staleDownloadAge = 24 * time.Hour

func newImposeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "impose <source>",
		Short: "Render a document into front and back PDFs per bundle",
		Long: "Render a document into front and back PDFs per bundle.\n\n" +
			"<source> may be a local path, file://, http(s):// or s3://bucket/key.\n" +
			"Office documents are converted with LibreOffice first when it is installed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpose(cmd, ctx, args[0])
		},
	}
}

func runImpose(cmd *cobra.Command, ctx *commandContext, source string) error {
	cfg := ctx.config
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, booklet.Instructions)

	fetch.CleanupTemps(staleDownloadAge)

	ws, err := output.NewWorkspace(cfg.Output.WorkDir)
	if err != nil {
		return err
	}
	if err := ws.Reset(); err != nil {
		return err
	}
	defer func() {
		if err := ws.Release(); err != nil {
			log.Warn().Err(err).Msg("failed to release workspace")
		}
	}()

	writer, err := output.NewPDFWriter(ws, output.Options{
		Format:      output.ImageFormat(cfg.Render.Format),
		JPEGQuality: cfg.Render.JPEGQuality,
		Layout:      cfg.Render.Layout,
	})
	if err != nil {
		return err
	}

	src := pagesource.NewFitz(cfg.Render.DPI)
	src.Gray = cfg.Render.Grayscale

	run := metrics.New()
	deps := booklet.Dependencies{
		Source:   src,
		Renderer: sheet.Composer{},
		Writer:   writer,
		Resolver: &fetch.Fetcher{},
		Detector: filetype.New(),
		Metrics:  run,
	}
	if lo := converter.NewLibreOffice(cfg.Render.ConversionTimeout.Duration); lo.Available() {
		deps.Converter = lo
	} else {
		log.Debug().Msg("libreoffice not found; office documents will be rejected")
	}
	if cfg.Output.S3Bucket != "" {
		pub, err := storage.NewS3Publisher(cmd.Context(), cfg.Output.S3Bucket, cfg.Output.S3Prefix)
		if err != nil {
			return err
		}
		if cfg.Output.S3Passphrase != "" {
			pub.WithPassphrase(cfg.Output.S3Passphrase)
		}
		deps.Publisher = pub
	}

	pipeline, err := booklet.New(deps, booklet.Options{
		BlankPagesInFront: cfg.Imposition.BlankPagesInFront,
		BlankPagesInBack:  cfg.Imposition.BlankPagesInBack,
		BundleLength:      cfg.Imposition.BundleLength,
		Workers:           cfg.Render.Workers,
		ScratchDir:        ws.Dir,
	})
	if err != nil {
		return err
	}

	res, runErr := pipeline.Run(cmd.Context(), source)
	if cfg.Output.MetricsFile != "" {
		if err := run.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			log.Warn().Err(err).Str("file", cfg.Output.MetricsFile).Msg("failed to write metrics")
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(out, "%d pages padded to %d, written to %s\n", res.SourcePages, res.PaddedPages, ws.Dir)
	writeTable(out, resultColumns, resultRows(res))
	return nil
}

func resultRows(res *booklet.Result) []table.Row {
	rows := make([]table.Row, 0, len(res.Bundles))
	for _, b := range res.Bundles {
		rows = append(rows, table.Row{
			b.Number,
			fmt.Sprintf("%d-%d", b.Pages.Start+1, b.Pages.End()),
			b.Sheets,
			b.Front,
			b.Back,
		})
	}
	return rows
}
