package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv reads .env from the working directory if present. Variables
// already set in the process environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// applyEnv overrides cfg with BOOKLET_* variables.
func applyEnv(cfg *Config) {
	im := &cfg.Imposition
	im.BlankPagesInFront = parseInt(os.Getenv("BOOKLET_BLANK_PAGES_IN_FRONT"), im.BlankPagesInFront)
	im.BlankPagesInBack = parseInt(os.Getenv("BOOKLET_BLANK_PAGES_IN_BACK"), im.BlankPagesInBack)
	im.BundleLength = parseInt(os.Getenv("BOOKLET_BUNDLE_LENGTH"), im.BundleLength)

	r := &cfg.Render
	r.DPI = parseInt(os.Getenv("BOOKLET_DPI"), r.DPI)
	r.Grayscale = parseBool(os.Getenv("BOOKLET_GRAYSCALE"), r.Grayscale)
	r.Format = getEnv("BOOKLET_SHEET_FORMAT", r.Format)
	r.JPEGQuality = parseInt(os.Getenv("BOOKLET_JPEG_QUALITY"), r.JPEGQuality)
	r.Workers = parseInt(os.Getenv("BOOKLET_WORKERS"), r.Workers)
	r.Layout = getEnv("BOOKLET_LAYOUT", r.Layout)
	r.ConversionTimeout.Duration = parseDuration(os.Getenv("BOOKLET_CONVERSION_TIMEOUT"), r.ConversionTimeout.Duration)

	o := &cfg.Output
	o.WorkDir = getEnv("BOOKLET_WORK_DIR", o.WorkDir)
	o.S3Bucket = getEnv("BOOKLET_S3_BUCKET", o.S3Bucket)
	o.S3Prefix = getEnv("BOOKLET_S3_PREFIX", o.S3Prefix)
	o.S3Passphrase = getEnv("BOOKLET_S3_PASSPHRASE", o.S3Passphrase)
	o.MetricsFile = getEnv("BOOKLET_METRICS_FILE", o.MetricsFile)

	l := &cfg.Logging
	l.Level = getEnv("LOG_LEVEL", l.Level)
	l.Pretty = parseBool(os.Getenv("LOG_PRETTY"), l.Pretty)
	l.File = getEnv("LOG_FILE", l.File)
	l.MaxSizeMB = parseInt(os.Getenv("LOG_MAX_SIZE_MB"), l.MaxSizeMB)
	l.MaxBackups = parseInt(os.Getenv("LOG_MAX_BACKUPS"), l.MaxBackups)
	l.MaxAgeDays = parseInt(os.Getenv("LOG_MAX_AGE_DAYS"), l.MaxAgeDays)
	l.Compress = parseBool(os.Getenv("LOG_COMPRESS"), l.Compress)

	a := &cfg.Axiom
	a.Send = parseBool(os.Getenv("SEND_LOGS_TO_AXIOM"), a.Send)
	a.APIKey = getEnv("AXIOM_API_KEY", a.APIKey)
	a.OrgID = getEnv("AXIOM_ORG_ID", a.OrgID)
	if ds := os.Getenv("AXIOM_DATASET"); ds != "" {
		a.Dataset = ds + "_booklet"
	}
	a.FlushInterval.Duration = parseDuration(os.Getenv("AXIOM_FLUSH_INTERVAL"), a.FlushInterval.Duration)
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return def
}

func parseBool(s string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
