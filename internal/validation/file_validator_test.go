package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "icpcli/internal/errors"
)

func newTestValidator() *DatasetFileValidator {
	return NewDatasetFileValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestValidateDatasetFile(t *testing.T) {
	v := newTestValidator()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "segments.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("city\nAustin\n"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{
			name: "valid csv",
			path: csvPath,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "missing.csv"),
			wantErr: "does not exist",
		},
		{
			name:    "directory",
			path:    dir,
			wantErr: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDatasetFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDatasetFile_UnsupportedExtension(t *testing.T) {
	v := newTestValidator()

	path := filepath.Join(t.TempDir(), "segments.parquet")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	err := v.ValidateDatasetFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrUnsupportedFormat)
}

func TestValidateDatasetFile_ExcelLockFile(t *testing.T) {
	v := newTestValidator()

	path := filepath.Join(t.TempDir(), "~$segments.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("lock"), 0o644))

	err := v.ValidateDatasetFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock file")
}

func TestValidateUploadFilename(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "csv", filename: "data.csv"},
		{name: "xlsx", filename: "data.xlsx"},
		{name: "empty", filename: "", wantErr: true},
		{name: "traversal", filename: "../etc/passwd.csv", wantErr: true},
		{name: "separator", filename: "dir/data.csv", wantErr: true},
		{name: "unsupported extension", filename: "data.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUploadFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureOutputDirectory(t *testing.T) {
	v := newTestValidator()

	dir := filepath.Join(t.TempDir(), "exports", "nested")
	require.NoError(t, v.EnsureOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
