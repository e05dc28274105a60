package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestDataset(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "segments.csv")
	content := strings.Join([]string{
		"cleaned_roles,gpt_industry,Aggregated Location,state,city,pool_size",
		"Engineering Manager,Software,United States,TX,Austin,5",
		"Operations,Logistics,Canada,ON,Toronto,7",
		"\"Engineering Manager, Operations\",Software,United States,CA,San Francisco,9",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVocabCommand(t *testing.T) {
	dataset := writeTestDataset(t)

	out, err := runCommand(t, "vocab", "--dataset", dataset)
	require.NoError(t, err)

	assert.Contains(t, out, "Engineering Manager")
	assert.Contains(t, out, "Operations")
	assert.Contains(t, out, "Software")
	assert.Contains(t, out, "Toronto")
}

func TestViewCommand_Filters(t *testing.T) {
	dataset := writeTestDataset(t)

	out, err := runCommand(t, "view", "--dataset", dataset, "--state", "TX")
	require.NoError(t, err)

	assert.Contains(t, out, "1 records")
	assert.Contains(t, out, "Austin")
	assert.NotContains(t, out, "Toronto")
}

func TestViewCommand_RoleTokenMatch(t *testing.T) {
	dataset := writeTestDataset(t)

	out, err := runCommand(t, "view", "--dataset", dataset, "--role", "Operations")
	require.NoError(t, err)

	assert.Contains(t, out, "2 records")
	assert.Contains(t, out, "San Francisco")
}

func TestViewCommand_Summaries(t *testing.T) {
	dataset := writeTestDataset(t)

	out, err := runCommand(t, "view", "--dataset", dataset)
	require.NoError(t, err)

	assert.Contains(t, out, "Pool size: mean 7, median 7")
	assert.Contains(t, out, "Top cities")
}

func TestViewCommand_MissingDataset(t *testing.T) {
	_, err := runCommand(t, "view", "--dataset", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dataset := writeTestDataset(t)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	out, err := runCommand(t, "export", "--dataset", dataset, "--state", "TX", "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Austin")
	assert.NotContains(t, string(data), "Toronto")
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	dataset := writeTestDataset(t)

	_, err := runCommand(t, "export", "--dataset", dataset, "--format", "parquet")
	require.Error(t, err)
}
