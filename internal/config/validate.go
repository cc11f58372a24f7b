package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/local/booklet/internal/imposition"
)

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == imposition.ErrConfig }

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Imposition.BlankPagesInFront < 0 {
		add("imposition.blank_pages_in_front must not be negative (got %d)", c.Imposition.BlankPagesInFront)
	}
	if c.Imposition.BlankPagesInBack < 0 {
		add("imposition.blank_pages_in_back must not be negative (got %d)", c.Imposition.BlankPagesInBack)
	}
	if c.Imposition.BundleLength < 1 {
		add("imposition.bundle_length must be positive (got %d)", c.Imposition.BundleLength)
	}

	if c.Render.DPI < 1 {
		add("render.dpi must be positive (got %d)", c.Render.DPI)
	}
	switch c.Render.Format {
	case "png", "jpeg":
	default:
		add("render.format must be png or jpeg (got %q)", c.Render.Format)
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		add("render.jpeg_quality must be between 1 and 100 (got %d)", c.Render.JPEGQuality)
	}
	if c.Render.Workers < 1 {
		add("render.workers must be at least 1 (got %d)", c.Render.Workers)
	}
	if c.Render.ConversionTimeout.Duration <= 0 {
		add("render.conversion_timeout must be positive")
	}

	if strings.TrimSpace(c.Output.WorkDir) == "" {
		add("output.work_dir must be set")
	}
	if c.Output.S3Prefix != "" && c.Output.S3Bucket == "" {
		add("output.s3_prefix requires output.s3_bucket")
	}
	if c.Output.S3Passphrase != "" && c.Output.S3Bucket == "" {
		add("output.s3_passphrase requires output.s3_bucket")
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level %q is not a valid level", c.Logging.Level)
	}
	if c.Axiom.Send && c.Axiom.APIKey == "" {
		add("axiom.send requires axiom.api_key (AXIOM_API_KEY)")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
