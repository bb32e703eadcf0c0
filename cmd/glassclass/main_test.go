package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glassclass/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(dir, "glassclass.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("MODEL_SCALER_PATH", filepath.Join(dir, "scaler.json"))
	t.Setenv("MODEL_CLASSIFIER_PATH", filepath.Join(dir, "classifier.json"))
	return dir
}

func writeModel(t *testing.T, dir string) {
	t.Helper()
	scaler := `{"kind":"minmax","min":[0,0,0,0,0,0,0,0,0],"scale":[1,1,1,1,1,1,1,1,1]}`
	tree := `{"kind":"tree","nodes":[{"is_leaf":true,"class_label":2}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scaler.json"), []byte(scaler), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classifier.json"), []byte(tree), 0o600))
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := rootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

var measurementArgs = []string{
	"--RI", "1.52101", "--Na", "13.64", "--Mg", "4.49", "--Al", "1.10", "--Si", "71.78",
	"--K", "0.06", "--Ca", "8.75", "--Ba", "0", "--Fe", "0",
}

func TestMigrateAndEmptyExport(t *testing.T) {
	setupEnv(t)

	_, _, err := run(t, "migrate")
	require.NoError(t, err)

	out, _, err := run(t, "export")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(services.ExportHeader, ",")+"\n", out)
}

func TestPredictStoresAndExports(t *testing.T) {
	dir := setupEnv(t)
	writeModel(t, dir)

	out, _, err := run(t, append([]string{"predict"}, measurementArgs...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[2: building windows (non-float processed)] - "), out)

	target := filepath.Join(dir, services.ExportFilename)
	_, _, err = run(t, "export", "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "1,1.52101,13.64,4.49,1.1,71.78,0.06,8.75,0,0,2: building windows (non-float processed),"), lines[1])
}

func TestPredictWithoutModel(t *testing.T) {
	setupEnv(t)

	_, _, err := run(t, append([]string{"predict"}, measurementArgs...)...)
	assert.ErrorIs(t, err, services.ErrSystemUnavailable)
}

func TestPredictValidation(t *testing.T) {
	dir := setupEnv(t)
	writeModel(t, dir)

	_, stderr, err := run(t, "predict", "--RI", "abc")
	require.Error(t, err)
	assert.Contains(t, stderr, "RI: "+services.ReasonNumber)
	assert.Contains(t, stderr, "Fe: "+services.ReasonRequired)
}
