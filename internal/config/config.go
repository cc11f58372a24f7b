package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/local/booklet/internal/imposition"
)

// Duration is a time.Duration written as a Go duration string ("90s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ImpositionConfig holds the page arrangement options.
type ImpositionConfig struct {
	BlankPagesInFront int `toml:"blank_pages_in_front"`
	BlankPagesInBack  int `toml:"blank_pages_in_back"`
	BundleLength      int `toml:"bundle_length"`
}

// RenderConfig controls rasterization and sheet encoding.
type RenderConfig struct {
	DPI         int    `toml:"dpi"`
	Grayscale   bool   `toml:"grayscale"`
	Format      string `toml:"format"`
	JPEGQuality int    `toml:"jpeg_quality"`
	Workers     int    `toml:"workers"`
	// Layout is a pdfcpu import description for placing sheets on PDF pages.
	Layout            string   `toml:"layout"`
	ConversionTimeout Duration `toml:"conversion_timeout"`
}

// OutputConfig defines where artifacts go.
type OutputConfig struct {
	WorkDir  string `toml:"work_dir"`
	S3Bucket string `toml:"s3_bucket"`
	S3Prefix string `toml:"s3_prefix"`
	// S3Passphrase encrypts uploads when set.
	S3Passphrase string `toml:"s3_passphrase"`
	MetricsFile  string `toml:"metrics_file"`
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Pretty     bool   `toml:"pretty"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool     `toml:"send"`
	APIKey        string   `toml:"api_key"`
	OrgID         string   `toml:"org_id"`
	Dataset       string   `toml:"dataset"`
	FlushInterval Duration `toml:"flush_interval"`
}

// Config is the top-level configuration.
type Config struct {
	Imposition ImpositionConfig `toml:"imposition"`
	Render     RenderConfig     `toml:"render"`
	Output     OutputConfig     `toml:"output"`
	Logging    LoggingConfig    `toml:"logging"`
	Axiom      AxiomConfig      `toml:"axiom"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Imposition: ImpositionConfig{
			BundleLength: imposition.DefaultBundleLength,
		},
		Render: RenderConfig{
			DPI:               100,
			Format:            "png",
			JPEGQuality:       90,
			Workers:           1,
			Layout:            "form:A4, pos:c, sc:1.0",
			ConversionTimeout: Duration{3 * time.Minute},
		},
		Output: OutputConfig{
			WorkDir: "images",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 10,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Axiom: AxiomConfig{
			Dataset:       "dev_booklet",
			FlushInterval: Duration{10 * time.Second},
		},
	}
}

// ProjectFile is the config file looked up in the working directory when no
// path is given.
const ProjectFile = "booklet.toml"

// Load builds the configuration: defaults, then the TOML file at path (or
// ProjectFile if path is empty and it exists), then the environment.
// The result is not validated; flags may still be applied on top.
func Load(path string) (Config, string, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return cfg, "", err
	}
	if resolved != "" {
		f, err := os.Open(resolved)
		if err != nil {
			return cfg, "", fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		dec := toml.NewDecoder(f).DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, "", fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return cfg, resolved, err
	}
	applyEnv(&cfg)
	return cfg, resolved, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("stat config: %w", err)
		}
		return path, nil
	}
	if info, err := os.Stat(ProjectFile); err == nil && !info.IsDir() {
		return ProjectFile, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat config: %w", err)
	}
	return "", nil
}
