package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single conversion.
const DefaultTimeout = 3 * time.Minute

// LibreOffice converts office documents to PDF with a headless soffice run.
type LibreOffice struct {
	Binary  string
	Timeout time.Duration
}

// NewLibreOffice creates a converter using the libreoffice binary from PATH.
func NewLibreOffice(timeout time.Duration) *LibreOffice {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LibreOffice{Binary: "libreoffice", Timeout: timeout}
}

// Available reports whether the converter binary can be found.
func (l *LibreOffice) Available() bool {
	_, err := exec.LookPath(l.Binary)
	return err == nil
}

// ConvertToPDF converts inputPath into outputDir and returns the PDF path.
func (l *LibreOffice) ConvertToPDF(ctx context.Context, inputPath, outputDir string) (string, error) {
	start := time.Now()
	if err := validateInput(inputPath); err != nil {
		return "", fmt.Errorf("input validation failed: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// A private profile lets concurrent conversions run without clashing.
	profileDir := filepath.Join(os.TempDir(), fmt.Sprintf("libreoffice_profile_%s", uuid.NewString()))
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create profile directory: %w", err)
	}
	defer os.RemoveAll(profileDir)

	ctx, cancel := context.WithTimeout(ctx, l.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, l.Binary,
		fmt.Sprintf("-env:UserInstallation=file://%s", profileDir),
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outputDir,
		inputPath,
	)
	log.Debug().Str("cmd", strings.Join(cmd.Args, " ")).Msg("LibreOffice command")

	if out, err := cmd.CombinedOutput(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("conversion timeout after %v", l.Timeout)
		}
		return "", fmt.Errorf("conversion failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	output := ExpectedOutputPath(inputPath, outputDir)
	if _, err := os.Stat(output); err != nil {
		return "", fmt.Errorf("output file not created: %w", err)
	}
	log.Info().Str("input", inputPath).Str("output", output).Dur("duration", time.Since(start)).Msg("conversion successful")
	return output, nil
}

func validateInput(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file")
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty")
	}
	return nil
}

// ExpectedOutputPath is where LibreOffice writes the PDF for inputPath.
func ExpectedOutputPath(inputPath, outputDir string) string {
	baseName := filepath.Base(inputPath)
	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	return filepath.Join(outputDir, nameWithoutExt+".pdf")
}
