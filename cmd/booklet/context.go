package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/local/booklet/internal/config"
	"github.com/local/booklet/internal/logger"
)

// globalFlags are the persistent flags that override file and environment
// configuration when set explicitly.
type globalFlags struct {
	configPath   string
	front        int
	back         int
	bundleLength int
	dpi          int
	workDir      string
	workers      int
	logLevel     string
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Configuration file path (default ./"+config.ProjectFile+" if present)")
	pf.IntVar(&f.front, "front", 0, "Blank pages inserted before the document")
	pf.IntVar(&f.back, "back", 0, "Blank pages inserted after the document")
	pf.IntVar(&f.bundleLength, "bundle-length", 0, "Sheets per bound bundle")
	pf.IntVar(&f.dpi, "dpi", 0, "Rasterization resolution")
	pf.StringVar(&f.workDir, "work-dir", "", "Directory that receives sheet images and PDFs")
	pf.IntVar(&f.workers, "workers", 0, "Bundles rendered concurrently")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// apply copies the flags the user actually passed onto cfg.
func (f *globalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("front") {
		cfg.Imposition.BlankPagesInFront = f.front
	}
	if changed("back") {
		cfg.Imposition.BlankPagesInBack = f.back
	}
	if changed("bundle-length") {
		cfg.Imposition.BundleLength = f.bundleLength
	}
	if changed("dpi") {
		cfg.Render.DPI = f.dpi
	}
	if changed("work-dir") {
		cfg.Output.WorkDir = f.workDir
	}
	if changed("workers") {
		cfg.Render.Workers = f.workers
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
}

type commandContext struct {
	flags  globalFlags
	config *config.Config
	source string
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) error {
	if c.config != nil {
		return nil
	}
	cfg, path, err := config.Load(strings.TrimSpace(c.flags.configPath))
	if err != nil {
		return err
	}
	c.flags.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	err = logger.Init(logger.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send,
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval.Duration,
		Console:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	c.config = &cfg
	c.source = path
	return nil
}
