// Package validation checks dataset files before they reach the loader:
// configured paths must exist and be readable, uploads must carry a safe
// filename with a supported extension.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apierrors "icpcli/internal/errors"
)

// DatasetFileValidator validates dataset sources for the explorer service.
type DatasetFileValidator struct {
	logger *slog.Logger
}

// NewDatasetFileValidator creates a new dataset file validator
func NewDatasetFileValidator(logger *slog.Logger) *DatasetFileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetFileValidator{
		logger: logger.With(slog.String("component", "dataset_validator")),
	}
}

// SupportedExtension reports whether the extension names a loadable dataset
// format.
func SupportedExtension(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	default:
		return false
	}
}

// ValidateDatasetFile checks that a configured dataset path points at a
// readable file in a supported format.
func (v *DatasetFileValidator) ValidateDatasetFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Warn("dataset file does not exist", slog.String("path", path))
		return fmt.Errorf("dataset file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat dataset file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a dataset file", path)
	}

	if !SupportedExtension(path) {
		v.logger.Warn("dataset file has unsupported extension",
			slog.String("path", path),
			slog.String("extension", filepath.Ext(path)))
		return fmt.Errorf("%w: %s", apierrors.ErrUnsupportedFormat, filepath.Ext(path))
	}

	// Excel lock files appear next to open workbooks and are not loadable.
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("%s is a temporary Excel lock file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dataset file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("dataset file validated",
		slog.String("path", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateUploadFilename checks an uploaded dataset filename: supported
// extension, no path separators or traversal, sane length.
func (v *DatasetFileValidator) ValidateUploadFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("upload filename must not be empty")
	}
	if len(filename) > 255 {
		return fmt.Errorf("upload filename too long")
	}
	if strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return fmt.Errorf("upload filename must not contain path separators")
	}
	if !SupportedExtension(filename) {
		return fmt.Errorf("%w: %s", apierrors.ErrUnsupportedFormat, filepath.Ext(filename))
	}
	return nil
}

// EnsureOutputDirectory creates the directory for an export target and
// verifies it is writable.
func (v *DatasetFileValidator) EnsureOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
