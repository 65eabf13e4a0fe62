package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandEmptyDirJSON(t *testing.T) {
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), "", t.TempDir())
	require.NoError(t, err)

	resps := decodeResponses(t, out)
	require.Len(t, resps, 1)
	data := resps[0].Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["total"])
}

func TestTestCommandGoldenLifecycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.yaml", orderScenario)
	goldenPath := filepath.Join(dir, "golden", "order.golden")

	// No golden file yet: assertions alone decide.
	out, err := execute(t, NewTestCommand(&RootOptions{Format: "text"}), "", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ order")
	assert.NoFileExists(t, goldenPath)

	out, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), "", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ order (golden updated)")
	require.FileExists(t, goldenPath)

	out, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), "", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")

	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"trace":[]}`), 0o644))
	out, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), "", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandFailuresAndFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.yaml", orderScenario)
	writeFile(t, dir, "wrong_total.yaml", failingScenario)
	writeFile(t, dir, "broken.yaml", "name: broken\n")

	out, err := execute(t, NewTestCommand(&RootOptions{Format: "json"}), "", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resps := decodeResponses(t, out)
	require.Len(t, resps, 1)
	assert.Equal(t, "error", resps[0].Status)
	assert.Equal(t, ErrCodeTestFailed, resps[0].Error.Code)
	data := resps[0].Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["passed"])
	assert.Equal(t, float64(2), data["failed"])

	out, err = execute(t, NewTestCommand(&RootOptions{Format: "text"}), "", dir, "--filter", "ord*")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}
