package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icpcli/internal/config"
)

func TestHealthService_HealthCheck(t *testing.T) {
	explorer := newTestService(t)
	hs := NewHealthService("1.0.0", explorer.cfg, explorer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	status := hs.HealthCheck(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck_Ready(t *testing.T) {
	explorer := newTestService(t)
	hs := NewHealthService("1.0.0", explorer.cfg, explorer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	status := hs.ReadinessCheck(context.Background())

	assert.Equal(t, "ready", status.Status)
	dataset, ok := status.Services["dataset"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "ready", dataset.Status)
}

func TestHealthService_ReadinessCheck_MissingDataset(t *testing.T) {
	cfg := &config.Config{}
	cfg.Dataset.DefaultPath = filepath.Join(t.TempDir(), "absent.csv")
	cfg.Dataset.MaxUploadBytes = 1 << 20
	explorer := NewExplorerService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	hs := NewHealthService("1.0.0", cfg, explorer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	status := hs.ReadinessCheck(context.Background())

	assert.Equal(t, "not_ready", status.Status)
}

func TestHealthService_LivenessCheck(t *testing.T) {
	explorer := newTestService(t)
	hs := NewHealthService("1.0.0", explorer.cfg, explorer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	status := hs.LivenessCheck(context.Background())

	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "go_version")
}

func TestHealthService_Version(t *testing.T) {
	explorer := newTestService(t)
	hs := NewHealthService("1.0.0", explorer.cfg, explorer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	info := hs.Version()

	assert.Equal(t, "1.0.0", info["version"])
	assert.Contains(t, info, "go_version")
	assert.Contains(t, info, "start_time")
}
