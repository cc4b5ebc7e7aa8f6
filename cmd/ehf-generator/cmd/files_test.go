package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), "{}")
	writeFile(t, filepath.Join(dir, "b.JSON"), "{}")
	writeFile(t, filepath.Join(dir, "c.xml"), "<x/>")
	writeFile(t, filepath.Join(dir, "nested", "d.json"), "{}")

	files, err := collectFiles([]string{dir}, ".json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.JSON"),
		filepath.Join(dir, "nested", "d.json"),
	}, files)

	files, err = collectFiles([]string{filepath.Join(dir, "*.xml"), filepath.Join(dir, "c.xml")}, ".xml")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "c.xml")}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.json")}, ".json")
	assert.Error(t, err)
}

func TestReadRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	writeFile(t, path, `[{"invoice": {"number": "A"}}, {"invoice": {"number": "B"}}]`)

	inputs, err := readRecords(path)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "B", inputs[1].Invoice.Number)

	_, err = readRecords(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
