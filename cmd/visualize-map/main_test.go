package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, body string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "path.json")
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))
	return file
}

func setup(t *testing.T) *[]string {
	t.Helper()
	t.Setenv("VELOGRAPH_LOG_DIR", t.TempDir())

	var opened []string
	old := openFile
	openFile = func(path string) error {
		opened = append(opened, path)
		return nil
	}
	t.Cleanup(func() { openFile = old })
	return &opened
}

func TestRunUsage(t *testing.T) {
	setup(t)
	var stdout, stderr bytes.Buffer

	code := run(nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Usage: visualize-map")
}

func TestRunAppendsHTML(t *testing.T) {
	opened := setup(t)
	input := writeInput(t, `{"nodes":[{"id":1,"lat":49.25,"lon":7.04},{"id":2,"lat":49.26,"lon":7.05}]}`)
	out := filepath.Join(t.TempDir(), "route")

	var stdout, stderr bytes.Buffer
	code := run([]string{input, out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.FileExists(t, out+".html")
	assert.Contains(t, stdout.String(), "Interactive map saved to "+out+".html")
	require.Len(t, *opened, 1)
	assert.Equal(t, out+".html", (*opened)[0])
}

func TestRunNoOpen(t *testing.T) {
	opened := setup(t)
	input := writeInput(t, `{"nodes":[{"id":"a","lat":1,"lon":2}]}`)
	out := filepath.Join(t.TempDir(), "route.html")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-open=false", input, out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.FileExists(t, out)
	assert.Empty(t, *opened)
}

func TestRunDefaultOutput(t *testing.T) {
	setup(t)
	input := writeInput(t, `{"nodes":[{"id":"a","lat":1,"lon":2}]}`)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var stdout, stderr bytes.Buffer
	code := run([]string{"-open=false", input}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join(dir, "path_map.html"))
}

func TestRunEmptyPath(t *testing.T) {
	opened := setup(t)
	input := writeInput(t, `{"nodes":[]}`)
	out := filepath.Join(t.TempDir(), "route.html")

	var stdout, stderr bytes.Buffer
	code := run([]string{input, out}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Error: No nodes to visualize")
	assert.NoFileExists(t, out)
	assert.Empty(t, *opened)
}

func TestRunBadInput(t *testing.T) {
	setup(t)
	var stdout, stderr bytes.Buffer

	code := run([]string{filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error:")

	code = run([]string{writeInput(t, `{"nodes":`)}, &stdout, &stderr)
	assert.Equal(t, 1, code)
}

func TestRunBadPublishTarget(t *testing.T) {
	setup(t)
	input := writeInput(t, `{"nodes":[{"id":"a","lat":1,"lon":2}]}`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-publish", "ftp://x", input}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "s3://")
}
